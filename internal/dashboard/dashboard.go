package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"

	"countrydash/internal/chart"
	"countrydash/internal/dataset"
	"countrydash/internal/model"
	"countrydash/internal/reactive"
)

var (
	// ErrBadInput 未知控件或无法解析的控件值
	ErrBadInput = errors.New("bad input")
	// ErrUnknownChart 未知图表 id
	ErrUnknownChart = errors.New("unknown chart")
)

// Controls 控件当前值
type Controls struct {
	Countries  []string     `json:"countries"`
	LineMetric model.Metric `json:"lineMetric"`
	BubbleX    model.Metric `json:"bubbleX"`
	BubbleY    model.Metric `json:"bubbleY"`
	BubbleSize model.Metric `json:"bubbleSize"`
}

// DefaultControls 页面初始控件值
func DefaultControls() Controls {
	return Controls{
		Countries:  []string{"Canada", "China"},
		LineMetric: model.MetricPopulation,
		BubbleX:    model.MetricGDPPerCapita,
		BubbleY:    model.MetricLifeExpectancy,
		BubbleSize: model.MetricLifeExpectancy,
	}
}

func (c Controls) validate() error {
	for name, m := range map[string]model.Metric{
		"lineMetric": c.LineMetric,
		"bubbleX":    c.BubbleX,
		"bubbleY":    c.BubbleY,
		"bubbleSize": c.BubbleSize,
	} {
		if !m.Valid() {
			return fmt.Errorf("%w: %s=%q", ErrBadInput, name, m)
		}
	}
	return nil
}

// resolve 以 defaults 补齐未提供的字段；指标名接受别名
func (c *Controls) resolve(defaults Controls) (Controls, error) {
	out := defaults
	out.Countries = append([]string{}, defaults.Countries...)
	if c == nil {
		return out, nil
	}
	if c.Countries != nil {
		out.Countries = append([]string{}, c.Countries...)
	}
	for _, f := range []struct {
		name string
		in   model.Metric
		dst  *model.Metric
	}{
		{"lineMetric", c.LineMetric, &out.LineMetric},
		{"bubbleX", c.BubbleX, &out.BubbleX},
		{"bubbleY", c.BubbleY, &out.BubbleY},
		{"bubbleSize", c.BubbleSize, &out.BubbleSize},
	} {
		if f.in == "" {
			continue
		}
		m, err := model.ParseMetric(string(f.in))
		if err != nil {
			return Controls{}, fmt.Errorf("%w: %s: %v", ErrBadInput, f.name, err)
		}
		*f.dst = m
	}
	return out, nil
}

func (c Controls) values() reactive.Values {
	return reactive.Values{
		InputLineCountries: c.Countries,
		InputLineMetric:    c.LineMetric,
		InputBubbleX:       c.BubbleX,
		InputBubbleY:       c.BubbleY,
		InputBubbleSize:    c.BubbleSize,
	}
}

// Options 构建参数
type Options struct {
	Controls    Controls
	TopN        int
	SizeMax     float64
	InitialYear int // 0 或数据集中不存在时使用最大年份
}

// Dashboard 仪表盘：持有数据集、选中年份与响应式依赖图。
// 控件值属于各个页面，每次求值由调用方随请求带入；进程内共享的只有选中年份。
type Dashboard struct {
	ds    *dataset.Dataset
	opts  Options
	year  *YearState
	graph *reactive.Graph
}

// New 构建仪表盘并计算全部输出
func New(ds *dataset.Dataset, opts Options) (*Dashboard, error) {
	if ds == nil {
		return nil, errors.New("dataset is required")
	}
	if err := opts.Controls.validate(); err != nil {
		return nil, err
	}
	if opts.TopN <= 0 {
		opts.TopN = chart.DefaultTopN
	}
	if opts.SizeMax <= 0 {
		opts.SizeMax = chart.DefaultSizeMax
	}

	year := ds.MaxYear()
	if opts.InitialYear != 0 && ds.HasYear(opts.InitialYear) {
		year = opts.InitialYear
	}

	d := &Dashboard{
		ds:    ds,
		opts:  opts,
		year:  newYearState(year),
		graph: reactive.New(),
	}
	if err := d.wire(); err != nil {
		return nil, err
	}
	if _, err := d.graph.Refresh(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dashboard) wire() error {
	c := d.opts.Controls
	inputs := []struct {
		id  string
		val any
	}{
		{InputLineCountries, append([]string(nil), c.Countries...)},
		{InputLineMetric, c.LineMetric},
		{InputLineClick, (*ClickData)(nil)},
		{InputBubbleX, c.BubbleX},
		{InputBubbleY, c.BubbleY},
		{InputBubbleSize, c.BubbleSize},
	}
	for _, in := range inputs {
		if err := d.graph.Input(in.id, in.val); err != nil {
			return err
		}
	}

	outputs := []struct {
		id   string
		deps []string
		fn   reactive.Func
	}{
		{OutputLineGraph, []string{InputLineCountries, InputLineMetric}, func(in reactive.Values) (any, error) {
			return d.LineChart(in[InputLineCountries].([]string), in[InputLineMetric].(model.Metric)), nil
		}},
		{OutputSelectedYear, []string{InputLineClick}, func(in reactive.Values) (any, error) {
			return d.OnLineClick(in[InputLineClick].(*ClickData)), nil
		}},
		// 年份文本只用于触发重算，年份本身从 YearState 读取
		{OutputBubbleGraph, []string{InputBubbleX, InputBubbleY, InputBubbleSize, OutputSelectedYear}, func(in reactive.Values) (any, error) {
			return d.BubbleChart(in[InputBubbleX].(model.Metric), in[InputBubbleY].(model.Metric), in[InputBubbleSize].(model.Metric)), nil
		}},
		{OutputTop15Graph, []string{OutputSelectedYear}, func(reactive.Values) (any, error) {
			return d.Top15Chart(), nil
		}},
		{OutputPieGraph, []string{OutputSelectedYear}, func(reactive.Values) (any, error) {
			return d.PieChart(), nil
		}},
	}
	for _, out := range outputs {
		if err := d.graph.Output(out.id, out.deps, out.fn); err != nil {
			return err
		}
	}
	return d.graph.Seal()
}

// LineChart 折线图（纯函数）
func (d *Dashboard) LineChart(countries []string, metric model.Metric) model.ChartSpec {
	return chart.Line(d.ds, countries, metric)
}

// OnLineClick 处理折线图点击：有点击数据时更新选中年份；始终返回当前年份文本
func (d *Dashboard) OnLineClick(click *ClickData) string {
	return d.year.apply(click)
}

// BubbleChart 当前选中年份的气泡图
func (d *Dashboard) BubbleChart(x, y, size model.Metric) model.ChartSpec {
	return chart.Bubble(d.ds, d.year.Get(), x, y, size, d.opts.SizeMax)
}

// Top15Chart 当前选中年份人口前 N 的国家
func (d *Dashboard) Top15Chart() model.ChartSpec {
	return chart.Top(d.ds, d.year.Get(), d.opts.TopN)
}

// PieChart 当前选中年份各大洲人口
func (d *Dashboard) PieChart() model.ChartSpec {
	return chart.Pie(d.ds, d.year.Get())
}

// Dispatch 某个控件值变化：解析值，在调用方的控件状态上按依赖顺序重算下游输出。
// current 为 nil 时使用默认控件值；控件值不在服务端保留。
func (d *Dashboard) Dispatch(input string, raw json.RawMessage, current *Controls) ([]reactive.Update, error) {
	value, err := decodeInput(input, raw)
	if err != nil {
		return nil, err
	}
	ctl, err := current.resolve(d.opts.Controls)
	if err != nil {
		return nil, err
	}
	return d.graph.Evaluate(reactive.Values{input: value}, ctl.values())
}

// Click 以默认控件值分发一次折线图点击
func (d *Dashboard) Click(year int) ([]reactive.Update, error) {
	click := &ClickData{Points: []ClickPoint{{X: float64(year)}}}
	return d.graph.Evaluate(reactive.Values{InputLineClick: click}, d.opts.Controls.values())
}

// Defaults 默认控件值的拷贝
func (d *Dashboard) Defaults() Controls {
	c, _ := (*Controls)(nil).resolve(d.opts.Controls)
	return c
}

func decodeInput(input string, raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	switch input {
	case InputLineCountries:
		var countries []string
		if err := json.Unmarshal(raw, &countries); err != nil {
			var single string
			if err2 := json.Unmarshal(raw, &single); err2 != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrBadInput, input, err)
			}
			countries = []string{single}
		}
		if countries == nil {
			countries = []string{}
		}
		return countries, nil
	case InputLineMetric, InputBubbleX, InputBubbleY, InputBubbleSize:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadInput, input, err)
		}
		m, err := model.ParseMetric(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadInput, input, err)
		}
		return m, nil
	case InputLineClick:
		var click *ClickData
		if err := json.Unmarshal(raw, &click); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadInput, input, err)
		}
		return click, nil
	default:
		return nil, fmt.Errorf("%w: unknown input %q", ErrBadInput, input)
	}
}

// OnYearChange 注册年份变化回调（在分发过程中同步调用，回调内不得再调用 Dashboard）
func (d *Dashboard) OnYearChange(fn func(year int)) {
	d.year.subscribe(fn)
}

// SelectedYear 当前选中年份
func (d *Dashboard) SelectedYear() int {
	return d.year.Get()
}

// Dataset 只读数据集
func (d *Dashboard) Dataset() *dataset.Dataset {
	return d.ds
}
