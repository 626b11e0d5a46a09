package chart

import (
	"sort"

	"countrydash/internal/dataset"
	"countrydash/internal/model"
)

// DefaultTopN 条形图展示的国家数
const DefaultTopN = 15

// Top 指定年份人口最多的 n 个国家，水平条形图，按大洲着色，条形自下而上升序。
// 人口相同时保留数据集中的先后顺序。
func Top(ds *dataset.Dataset, year, n int) model.ChartSpec {
	if n <= 0 {
		n = DefaultTopN
	}
	spec := model.ChartSpec{
		Kind:        model.ChartBar,
		Orientation: "h",
		XAxis:       model.MetricPopulation.Label(),
		YAxis:       "Country",
		Series:      []model.ChartSeries{},
		Categories:  []string{},
		ShowLegend:  true,
	}

	rows := ds.FilterYear(year).Rows()
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Population > rows[j].Population
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Population < rows[j].Population
	})

	colors := ContinentColors(ds)
	bySeries := make(map[string]int)
	for _, row := range rows {
		si, ok := bySeries[row.Continent]
		if !ok {
			si = len(spec.Series)
			bySeries[row.Continent] = si
			spec.Series = append(spec.Series, model.ChartSeries{
				Name:  row.Continent,
				Color: colors[row.Continent],
			})
		}
		spec.Series[si].Points = append(spec.Series[si].Points, model.ChartPoint{
			X:     row.Population,
			Label: row.Country,
		})
		spec.Categories = append(spec.Categories, row.Country)
	}
	return spec
}
