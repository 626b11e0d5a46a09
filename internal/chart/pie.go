package chart

import (
	"sort"

	"countrydash/internal/dataset"
	"countrydash/internal/model"
)

// Pie 指定年份各大洲人口合计，扇区按大洲名排序
func Pie(ds *dataset.Dataset, year int) model.ChartSpec {
	view := ds.FilterYear(year)

	sums := make(map[string]float64)
	for i := 0; i < view.Len(); i++ {
		sums[view.Row(i).Continent] += view.Value(i, model.MetricPopulation)
	}
	continents := make([]string, 0, len(sums))
	for c := range sums {
		continents = append(continents, c)
	}
	sort.Strings(continents)

	colors := ContinentColors(ds)
	series := model.ChartSeries{Name: model.MetricPopulation.Label(), Points: []model.ChartPoint{}}
	for _, c := range continents {
		series.Points = append(series.Points, model.ChartPoint{
			Y:     sums[c],
			Label: c,
		})
	}

	spec := model.ChartSpec{
		Kind:       model.ChartPie,
		Series:     []model.ChartSeries{series},
		Categories: continents,
		ShowLegend: true,
	}
	// 饼图每个扇区单独着色
	spec.Colors = make([]string, len(continents))
	for i, c := range continents {
		spec.Colors[i] = colors[c]
	}
	return spec
}
