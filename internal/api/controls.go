package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"countrydash/internal/dashboard"
	"countrydash/internal/model"
)

// controlsFromQuery 从查询参数读取页面控件值。
// countries 可重复；出现但为空表示清空选择，未出现时使用默认值。
func controlsFromQuery(c *gin.Context) *dashboard.Controls {
	ctl := &dashboard.Controls{
		LineMetric: model.Metric(c.Query("lineMetric")),
		BubbleX:    model.Metric(c.Query("bubbleX")),
		BubbleY:    model.Metric(c.Query("bubbleY")),
		BubbleSize: model.Metric(c.Query("bubbleSize")),
	}
	if values, ok := c.GetQueryArray("countries"); ok {
		ctl.Countries = []string{}
		for _, v := range values {
			if v != "" {
				ctl.Countries = append(ctl.Countries, v)
			}
		}
	}
	return ctl
}

// chartError 图表读取错误的 HTTP 映射
func chartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, dashboard.ErrBadInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, dashboard.ErrUnknownChart):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "计算图表失败"})
	}
}
