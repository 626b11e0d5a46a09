package chart

import (
	"countrydash/internal/dataset"
	"countrydash/internal/model"
)

// PlaceholderTitle 未选择国家时的占位标题
const PlaceholderTitle = "select countries of interest"

// Line 每个选中国家一条折线：x 为年份，y 为指标。
// 未选择任何国家时返回无数据的占位图，而不是报错。
func Line(ds *dataset.Dataset, countries []string, metric model.Metric) model.ChartSpec {
	if len(countries) == 0 {
		return model.ChartSpec{
			Kind:   model.ChartLine,
			Title:  PlaceholderTitle,
			Series: []model.ChartSeries{},
		}
	}

	spec := model.ChartSpec{
		Kind:       model.ChartLine,
		XAxis:      "Year",
		YAxis:      metric.Label(),
		ClickMode:  "event+select",
		ShowLegend: true,
	}

	// 系列顺序与数据中首次出现顺序一致
	view := ds.FilterCountries(countries)
	bySeries := make(map[string]int)
	for i := 0; i < view.Len(); i++ {
		row := view.Row(i)
		si, ok := bySeries[row.Country]
		if !ok {
			si = len(spec.Series)
			bySeries[row.Country] = si
			spec.Series = append(spec.Series, model.ChartSeries{
				Name:  row.Country,
				Color: Color(si),
			})
		}
		spec.Series[si].Points = append(spec.Series[si].Points, model.ChartPoint{
			X: float64(row.Year),
			Y: view.Value(i, metric),
		})
	}
	if spec.Series == nil {
		spec.Series = []model.ChartSeries{}
	}
	return spec
}
