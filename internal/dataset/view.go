package dataset

import "countrydash/internal/model"

// View 数据集的过滤子集，只保存下标，不复制数据
type View struct {
	ds  *Dataset
	idx []int
}

// Len 行数
func (v View) Len() int { return len(v.idx) }

// Row 视图中第 i 行
func (v View) Row(i int) model.Row { return v.ds.Row(v.idx[i]) }

// Value 视图中第 i 行的指标值
func (v View) Value(i int, m model.Metric) float64 { return v.ds.Value(v.idx[i], m) }

// Rows 物化为行切片
func (v View) Rows() []model.Row {
	out := make([]model.Row, len(v.idx))
	for i, j := range v.idx {
		out[i] = v.ds.Row(j)
	}
	return out
}

// Filter 在当前视图上继续过滤
func (v View) Filter(keep func(model.Row) bool) View {
	idx := make([]int, 0, len(v.idx))
	for _, j := range v.idx {
		if keep(v.ds.Row(j)) {
			idx = append(idx, j)
		}
	}
	return View{ds: v.ds, idx: idx}
}
