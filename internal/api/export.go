package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	"countrydash/internal/dashboard"
	"countrydash/internal/exporter"
)

// Export 下载当前四个图表数据的 Excel
// GET /api/export?countries=&lineMetric=&bubbleX=&bubbleY=&bubbleSize=
func (h *Handler) Export(c *gin.Context) {
	f, st, err := exporter.NewExporter(h.dash).Export(exporter.ExportOptions{Controls: controlsFromQuery(c)})
	if errors.Is(err, dashboard.ErrBadInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		klog.ErrorS(err, "export workbook failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败: " + err.Error()})
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		klog.ErrorS(err, "write workbook failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "导出失败: " + err.Error()})
		return
	}

	c.Header("Content-Disposition", buildExportContentDisposition(st.SelectedYear))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func buildExportContentDisposition(year int) string {
	return "attachment; filename=\"" + exporter.FileName(year) + "\""
}
