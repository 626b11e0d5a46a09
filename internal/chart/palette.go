package chart

import "countrydash/internal/dataset"

// 与 Plotly 默认离散色板一致，前端与 PNG 渲染颜色保持一致
var palette = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// Color 第 i 个系列的颜色
func Color(i int) string {
	return palette[i%len(palette)]
}

// ContinentColors 大洲 -> 颜色，按数据集中首次出现顺序分配，保证各图一致
func ContinentColors(ds *dataset.Dataset) map[string]string {
	out := make(map[string]string)
	for i, c := range ds.Continents() {
		out[c] = Color(i)
	}
	return out
}
