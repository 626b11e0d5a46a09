package model

// ChartKind 图表类型
type ChartKind string

const (
	ChartLine   ChartKind = "line"
	ChartBubble ChartKind = "bubble"
	ChartBar    ChartKind = "bar"
	ChartPie    ChartKind = "pie"
)

// ChartSpec 图表描述（交给前端 Plotly 或服务端 PNG 渲染，本身不做渲染）
type ChartSpec struct {
	Kind        ChartKind     `json:"kind"`
	Title       string        `json:"title"`
	XAxis       string        `json:"xAxis,omitempty"`
	YAxis       string        `json:"yAxis,omitempty"`
	Orientation string        `json:"orientation,omitempty"` // "h" 为水平条形图
	ClickMode   string        `json:"clickMode,omitempty"`
	SizeMax     float64       `json:"sizeMax,omitempty"`
	Categories  []string      `json:"categories,omitempty"` // 类别轴顺序（条形图自下而上升序）
	Series      []ChartSeries `json:"series"`
	Colors      []string      `json:"colors,omitempty"` // 饼图逐扇区颜色
	ShowLegend  bool          `json:"showLegend"`
}

// ChartSeries 一组数据（线 / 大洲分组 / 饼图）
type ChartSeries struct {
	Name   string       `json:"name"`
	Color  string       `json:"color,omitempty"`
	Points []ChartPoint `json:"points"`
}

// ChartPoint 单个数据点
//
// 折线/气泡图使用 X、Y；水平条形图 X 为数值、Label 为类别；饼图 Y 为数值、Label 为扇区名。
type ChartPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size,omitempty"`
	Label string  `json:"label,omitempty"`
}

// Empty 是否没有任何数据点
func (c ChartSpec) Empty() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// PointCount 数据点总数
func (c ChartSpec) PointCount() int {
	n := 0
	for _, s := range c.Series {
		n += len(s.Points)
	}
	return n
}
