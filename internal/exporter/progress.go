package exporter

import "fmt"

// ProgressEvent 导出进度：每写完一个工作表一次，最后一次 Sheet 为空、Rows 为总行数
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Sheet   string `json:"sheet,omitempty"`
	Rows    int    `json:"rows"`
	Stage   string `json:"stage"`
}

// sheetProgress 按已写工作表数折算百分比，并累计数据行数
type sheetProgress struct {
	fn    func(ProgressEvent)
	total int
	done  int
	rows  int
}

func newSheetProgress(fn func(ProgressEvent), total int) *sheetProgress {
	return &sheetProgress{fn: fn, total: total}
}

func (p *sheetProgress) sheetDone(sheet string, rows int) {
	p.done++
	p.rows += rows
	if p.fn == nil || p.total == 0 {
		return
	}
	p.fn(ProgressEvent{
		Percent: min(p.done*100/p.total, 99),
		Sheet:   sheet,
		Rows:    rows,
		Stage:   fmt.Sprintf("%s: %d 行", sheet, rows),
	})
}

func (p *sheetProgress) finish() {
	if p.fn == nil {
		return
	}
	p.fn(ProgressEvent{
		Percent: 100,
		Rows:    p.rows,
		Stage:   fmt.Sprintf("完成，共 %d 行", p.rows),
	})
}
