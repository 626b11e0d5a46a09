package chart

import (
	"math"

	"countrydash/internal/dataset"
	"countrydash/internal/model"
)

// DefaultSizeMax 最大气泡直径（像素）
const DefaultSizeMax = 25

// Bubble 指定年份下每个国家一个气泡，按大洲着色，悬停显示国家名。
// 气泡面积与 size 指标成正比，最大的气泡直径为 sizeMax。
func Bubble(ds *dataset.Dataset, year int, x, y, size model.Metric, sizeMax float64) model.ChartSpec {
	if sizeMax <= 0 {
		sizeMax = DefaultSizeMax
	}
	spec := model.ChartSpec{
		Kind:       model.ChartBubble,
		XAxis:      x.Label(),
		YAxis:      y.Label(),
		SizeMax:    sizeMax,
		Series:     []model.ChartSeries{},
		ShowLegend: true,
	}

	view := ds.FilterYear(year)
	maxSize := 0.0
	for i := 0; i < view.Len(); i++ {
		maxSize = math.Max(maxSize, view.Value(i, size))
	}

	colors := ContinentColors(ds)
	bySeries := make(map[string]int)
	for i := 0; i < view.Len(); i++ {
		row := view.Row(i)
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
			X:     view.Value(i, x),
			Y:     view.Value(i, y),
			Size:  markerSize(view.Value(i, size), maxSize, sizeMax),
			Label: row.Country,
		})
	}
	return spec
}

func markerSize(v, max, sizeMax float64) float64 {
	if v <= 0 || max <= 0 {
		return 0
	}
	return sizeMax * math.Sqrt(v/max)
}
