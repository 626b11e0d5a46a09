package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"countrydash/internal/dashboard"
	"countrydash/internal/layout"
	"countrydash/internal/reactive"
	"countrydash/internal/render"
)

// CallbackRequest 控件回调请求；State 为页面当前各控件值，缺省字段使用默认值
type CallbackRequest struct {
	Input string              `json:"input" binding:"required"`
	Value json.RawMessage     `json:"value"`
	State *dashboard.Controls `json:"state"`
}

// CallbackResponse 按依赖顺序返回的输出更新
type CallbackResponse struct {
	Updates []reactive.Update `json:"updates"`
}

// GetOptions 下拉框选项
// GET /api/options
func (h *Handler) GetOptions(c *gin.Context) {
	c.JSON(http.StatusOK, h.dash.Options())
}

// GetDashboard 整页快照
// GET /api/dashboard?countries=&lineMetric=&bubbleX=&bubbleY=&bubbleSize=
func (h *Handler) GetDashboard(c *gin.Context) {
	st, err := h.dash.Snapshot(controlsFromQuery(c))
	if err != nil {
		chartError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Callback 某个控件值变化
// POST /api/callback
func (h *Handler) Callback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}

	updates, err := h.dash.Dispatch(req.Input, req.Value, req.State)
	if err != nil {
		if errors.Is(err, dashboard.ErrBadInput) || errors.Is(err, reactive.ErrUnknownNode) || errors.Is(err, reactive.ErrNotInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		klog.ErrorS(err, "dispatch callback failed", "input", req.Input)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新图表失败"})
		return
	}

	c.JSON(http.StatusOK, CallbackResponse{Updates: updates})
}

// GetChart 单个图表的当前描述，控件值同 GetDashboard
// GET /api/charts/:id
func (h *Handler) GetChart(c *gin.Context) {
	spec, err := h.dash.Chart(c.Param("id"), controlsFromQuery(c))
	if err != nil {
		chartError(c, err)
		return
	}
	c.JSON(http.StatusOK, spec)
}

// GetChartPNG 服务端渲染的图表图片
// GET /api/charts/:id/png?width=&height=
func (h *Handler) GetChartPNG(c *gin.Context) {
	id := c.Param("id")
	spec, err := h.dash.Chart(id, controlsFromQuery(c))
	if err != nil {
		chartError(c, err)
		return
	}

	opts := render.Options{
		Width:  queryInt(c, "width"),
		Height: queryInt(c, "height"),
	}
	if l, err := layout.Default(); err == nil {
		if p, ok := l.PanelByOutput(id); ok {
			opts.Title = p.Title
		}
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, spec, opts); err != nil {
		if errors.Is(err, render.ErrNoData) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		klog.ErrorS(err, "render chart failed", "chart", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "渲染图表失败"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return 0
	}
	// 限制尺寸，避免渲染超大图片
	if v > 4096 {
		return 4096
	}
	return v
}
