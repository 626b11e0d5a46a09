package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"countrydash/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Source       string            `json:"source"`
	Rows         int               `json:"rows"`
	Countries    int               `json:"countries"`
	MinYear      int               `json:"minYear"`
	MaxYear      int               `json:"maxYear"`
	SelectedYear int               `json:"selectedYear"`
	LoadedAt     time.Time         `json:"loadedAt"`
	LastLoad     *store.LoadLog    `json:"lastLoad,omitempty"`
	Settings     map[string]string `json:"settings,omitempty"` // 持久化的键值配置，如 selected_year
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	ds := h.dash.Dataset()
	resp := StatusResponse{
		Source:       h.source,
		Rows:         ds.Len(),
		Countries:    len(ds.Countries()),
		MinYear:      ds.MinYear(),
		MaxYear:      ds.MaxYear(),
		SelectedYear: h.dash.SelectedYear(),
		LoadedAt:     h.loadedAt,
	}

	if h.store != nil {
		last, err := h.store.LatestLoadLog()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "读取加载日志失败"})
			return
		}
		resp.LastLoad = last

		settings, err := h.store.GetAllConfig()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "读取配置失败"})
			return
		}
		resp.Settings = settings
	}

	c.JSON(http.StatusOK, resp)
}
