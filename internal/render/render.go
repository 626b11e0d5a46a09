// Package render 把图表描述渲染成 PNG，供下载与命令行使用
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"countrydash/internal/model"
)

// ErrNoData 图表没有任何数据点
var ErrNoData = errors.New("chart has no data to render")

const (
	defaultWidth  = 1024
	defaultHeight = 600
)

// Options 渲染参数
type Options struct {
	Width  int
	Height int
	// Title 覆盖图表自带标题（面板标题）
	Title string
}

// PNG 按图表类型渲染并写出 PNG
func PNG(w io.Writer, spec model.ChartSpec, opts Options) error {
	if spec.Empty() {
		return ErrNoData
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.Title == "" {
		opts.Title = spec.Title
	}

	var err error
	switch spec.Kind {
	case model.ChartLine:
		err = lineChart(spec, opts).Render(chart.PNG, w)
	case model.ChartBubble:
		err = bubbleChart(spec, opts).Render(chart.PNG, w)
	case model.ChartBar:
		err = barChart(spec, opts).Render(chart.PNG, w)
	case model.ChartPie:
		var pie chart.PieChart
		pie, err = pieChart(spec, opts)
		if err == nil {
			err = pie.Render(chart.PNG, w)
		}
	default:
		return fmt.Errorf("unsupported chart kind %q", spec.Kind)
	}
	if err != nil {
		return fmt.Errorf("render %s chart: %w", spec.Kind, err)
	}
	return nil
}

func lineChart(spec model.ChartSpec, opts Options) *chart.Chart {
	series := make([]chart.Series, 0, len(spec.Series))
	for _, s := range spec.Series {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = p.X
			ys[i] = p.Y
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: parseColor(s.Color),
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    parseColor(s.Color),
			},
		})
	}

	xr, yr := pointRanges(spec)
	ch := &chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: spec.XAxis, Range: xr, ValueFormatter: yearFormatter},
		YAxis:      chart.YAxis{Name: spec.YAxis, Range: yr, ValueFormatter: compactFormatter},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(ch)}
	return ch
}

func bubbleChart(spec model.ChartSpec, opts Options) *chart.Chart {
	series := make([]chart.Series, 0, len(spec.Series))
	for _, s := range spec.Series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		sizes := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = p.X
			ys[i] = p.Y
			sizes[i] = p.Size
		}
		col := parseColor(s.Color).WithAlpha(200)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    4,
				DotColor:    col,
				DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
					if index < 0 || index >= len(sizes) {
						return 1
					}
					// 标记尺寸是直径，go-chart 取半径
					return math.Max(sizes[index]/2, 1)
				},
			},
		})
	}

	xr, yr := pointRanges(spec)
	ch := &chart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: spec.XAxis, Range: xr, ValueFormatter: compactFormatter},
		YAxis:      chart.YAxis{Name: spec.YAxis, Range: yr, ValueFormatter: compactFormatter},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(ch)}
	return ch
}

// 横向条形图在 PNG 中画成竖向，顺序与类目一致（从小到大）
func barChart(spec model.ChartSpec, opts Options) *chart.BarChart {
	var bars []chart.Value
	maxV := 0.0
	for _, s := range spec.Series {
		for _, p := range s.Points {
			bars = append(bars, chart.Value{
				Label: p.Label,
				Value: p.X,
				Style: chart.Style{FillColor: parseColor(s.Color), StrokeColor: parseColor(s.Color)},
			})
			maxV = math.Max(maxV, p.X)
		}
	}
	order := make(map[string]int, len(spec.Categories))
	for i, c := range spec.Categories {
		order[c] = i
	}
	sortBars(bars, order)

	width := opts.Width
	if need := len(bars)*70 + 200; need > width {
		width = need
	}
	// 条形从 0 开始；全部为 0 时给出非零区间
	if maxV <= 0 {
		maxV = 1
	}
	yAxis := chart.YAxis{
		ValueFormatter: compactFormatter,
		Range:          &chart.ContinuousRange{Min: 0, Max: maxV},
	}
	return &chart.BarChart{
		Title:      opts.Title,
		Width:      width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		BarWidth:   40,
		BarSpacing: 20,
		YAxis:      yAxis,
		Bars:       bars,
	}
}

func sortBars(bars []chart.Value, order map[string]int) {
	// 插入排序，保持稳定
	for i := 1; i < len(bars); i++ {
		for j := i; j > 0 && order[bars[j].Label] < order[bars[j-1].Label]; j-- {
			bars[j], bars[j-1] = bars[j-1], bars[j]
		}
	}
}

func pieChart(spec model.ChartSpec, opts Options) (chart.PieChart, error) {
	var values []chart.Value
	for _, s := range spec.Series {
		for i, p := range s.Points {
			if p.Y <= 0 {
				continue
			}
			col := s.Color
			if i < len(spec.Colors) {
				col = spec.Colors[i]
			}
			values = append(values, chart.Value{
				Label: p.Label,
				Value: p.Y,
				Style: chart.Style{FillColor: parseColor(col), StrokeColor: drawing.ColorWhite},
			})
		}
	}
	if len(values) == 0 {
		return chart.PieChart{}, ErrNoData
	}
	size := opts.Width
	if opts.Height < size {
		size = opts.Height
	}
	return chart.PieChart{
		Title:  opts.Title,
		Width:  size,
		Height: size,
		Values: values,
	}, nil
}

// pointRanges 所有点的 X/Y 范围；单值时向两侧扩展，避免零跨度
func pointRanges(spec model.ChartSpec) (*chart.ContinuousRange, *chart.ContinuousRange) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range spec.Series {
		for _, p := range s.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	return padRange(minX, maxX), padRange(minY, maxY)
}

func padRange(lo, hi float64) *chart.ContinuousRange {
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return &chart.ContinuousRange{Min: 0, Max: 1}
	}
	if hi > lo {
		pad := (hi - lo) * 0.05
		return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}
	pad := math.Abs(lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func parseColor(hex string) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 && len(hex) != 3 {
		return chart.ColorBlue
	}
	return drawing.ColorFromHex(hex)
}

func yearFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.Itoa(int(math.Round(f)))
	}
	return fmt.Sprint(v)
}

func compactFormatter(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	av := math.Abs(f)
	switch {
	case av >= 1e9:
		return strconv.FormatFloat(f/1e9, 'f', 1, 64) + "B"
	case av >= 1e6:
		return strconv.FormatFloat(f/1e6, 'f', 1, 64) + "M"
	case av >= 1e3:
		return strconv.FormatFloat(f/1e3, 'f', 1, 64) + "k"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
