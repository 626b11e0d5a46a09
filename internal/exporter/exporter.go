package exporter

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"countrydash/internal/dashboard"
	"countrydash/internal/model"
)

// SheetNames 图表 id 到工作表名
var SheetNames = map[string]string{
	dashboard.OutputLineGraph:   "Line",
	dashboard.OutputBubbleGraph: "Bubble",
	dashboard.OutputTop15Graph:  "Top15",
	dashboard.OutputPieGraph:    "Pie",
}

var header = []string{"Series", "Label", "X", "Y", "Size"}

// Exporter 把仪表盘当前四个图表的数据写成 Excel 工作簿
type Exporter struct {
	dash *dashboard.Dashboard
}

// NewExporter 创建导出器
func NewExporter(dash *dashboard.Dashboard) *Exporter {
	return &Exporter{dash: dash}
}

// ExportOptions 导出选项
type ExportOptions struct {
	Controls *dashboard.Controls // nil 时使用默认控件值
	Progress func(ProgressEvent)
}

// Export 按给定控件值导出当前快照；返回的工作簿由调用方关闭
func (e *Exporter) Export(opts ExportOptions) (*excelize.File, dashboard.State, error) {
	st, err := e.dash.Snapshot(opts.Controls)
	if err != nil {
		return nil, st, err
	}
	f, err := Workbook(st, opts.Progress)
	if err != nil {
		return nil, st, err
	}
	return f, st, nil
}

// FileName 下载文件名，带选中年份
func FileName(year int) string {
	return "country-dashboard-" + strconv.Itoa(year) + ".xlsx"
}

// Workbook 按图表顺序生成四个工作表，每个数据点一行
func Workbook(st dashboard.State, progress func(ProgressEvent)) (*excelize.File, error) {
	f := excelize.NewFile()
	first := f.GetSheetName(0)

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("创建表头样式失败: %w", err)
	}

	prog := newSheetProgress(progress, len(dashboard.ChartIDs))
	for i, id := range dashboard.ChartIDs {
		sheet := SheetNames[id]
		if i == 0 {
			if err := f.SetSheetName(first, sheet); err != nil {
				_ = f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			_ = f.Close()
			return nil, err
		}

		rows, err := fillChartSheet(f, sheet, st.Charts[id], boldStyle)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("写入 %s 失败: %w", sheet, err)
		}
		prog.sheetDone(sheet, rows)
	}

	f.SetActiveSheet(0)
	prog.finish()
	return f, nil
}

// fillChartSheet 写表头与数据行，返回数据行数
func fillChartSheet(f *excelize.File, sheet string, spec model.ChartSpec, style int) (int, error) {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", style); err != nil {
		return 0, err
	}
	if err := f.SetColWidth(sheet, "A", "B", 22); err != nil {
		return 0, err
	}

	row := 2
	for _, s := range spec.Series {
		for _, p := range s.Points {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return row - 2, err
			}
			values := []any{s.Name, p.Label, p.X, p.Y, p.Size}
			if err := f.SetSheetRow(sheet, cell, &values); err != nil {
				return row - 2, err
			}
			row++
		}
	}
	return row - 2, nil
}
