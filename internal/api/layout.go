package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"countrydash/internal/layout"
	"countrydash/internal/store"
)

// SaveLayoutRequest 保存布局请求
type SaveLayoutRequest struct {
	Panels []store.PanelPosition `json:"panels"`
}

func (h *Handler) currentLayout() (*layout.Layout, error) {
	l, err := layout.Default()
	if err != nil {
		return nil, err
	}
	if h.store != nil {
		saved, err := h.store.ListPanelPositions()
		if err != nil {
			return nil, err
		}
		l.Merge(saved)
	}
	return l, nil
}

// GetLayout 页面布局（默认布局叠加已保存的位置）
// GET /api/layout
func (h *Handler) GetLayout(c *gin.Context) {
	l, err := h.currentLayout()
	if err != nil {
		klog.ErrorS(err, "load layout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取布局失败"})
		return
	}
	c.JSON(http.StatusOK, l)
}

// SaveLayout 保存拖拽后的面板位置
// PUT /api/layout
func (h *Handler) SaveLayout(c *gin.Context) {
	var req SaveLayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求参数错误: " + err.Error()})
		return
	}
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "未启用布局存储"})
		return
	}

	l, err := layout.Default()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取布局失败"})
		return
	}
	if err := l.Validate(req.Panels); err != nil {
		if errors.Is(err, layout.ErrUnknownPanel) || errors.Is(err, layout.ErrInvalidPosition) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.SavePanelPositions(req.Panels); err != nil {
		klog.ErrorS(err, "save layout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存布局失败"})
		return
	}

	h.GetLayout(c)
}

// ResetLayout 清除已保存的位置
// DELETE /api/layout
func (h *Handler) ResetLayout(c *gin.Context) {
	if h.store != nil {
		if err := h.store.ClearPanelPositions(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "重置布局失败"})
			return
		}
	}
	h.GetLayout(c)
}
