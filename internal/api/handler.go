package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"countrydash/internal/dashboard"
	"countrydash/internal/store"
)

// Handler 仪表盘 API 处理器
type Handler struct {
	dash     *dashboard.Dashboard
	store    *store.Store
	source   string
	loadedAt time.Time
}

// NewHandler 创建 API 处理器；store 为 nil 时不持久化选中年份与布局
func NewHandler(dash *dashboard.Dashboard, st *store.Store, source string) *Handler {
	h := &Handler{
		dash:     dash,
		store:    st,
		source:   source,
		loadedAt: time.Now(),
	}
	if st != nil {
		dash.OnYearChange(func(year int) {
			if err := st.SetSelectedYear(year); err != nil {
				klog.ErrorS(err, "persist selected year failed", "year", year)
			}
		})
	}
	return h
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 下拉选项与整页快照
	router.GET("/options", h.GetOptions)
	router.GET("/dashboard", h.GetDashboard)

	// 控件回调
	router.POST("/callback", h.Callback)

	// 单个图表
	router.GET("/charts/:id", h.GetChart)
	router.GET("/charts/:id/png", h.GetChartPNG)

	// 数据导出
	router.GET("/export", h.Export)

	// 网格布局
	router.GET("/layout", h.GetLayout)
	router.PUT("/layout", h.SaveLayout)
	router.DELETE("/layout", h.ResetLayout)
}
