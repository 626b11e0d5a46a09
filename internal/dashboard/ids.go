package dashboard

// 输入控件 id（与页面元素一致）
const (
	InputLineCountries = "line-dropdown-selection"
	InputLineMetric    = "line-y-axis"
	InputLineClick     = "line-graph.clickData"
	InputBubbleX       = "bubble-x-axis"
	InputBubbleY       = "bubble-y-axis"
	InputBubbleSize    = "bubble-size"
)

// 输出元素 id
const (
	OutputLineGraph    = "line-graph"
	OutputSelectedYear = "selected-year-display"
	OutputBubbleGraph  = "bubble-graph"
	OutputTop15Graph   = "top15-graph"
	OutputPieGraph     = "pie-graph"
)

// ChartIDs 四个图表输出，按页面网格顺序
var ChartIDs = []string{OutputLineGraph, OutputBubbleGraph, OutputTop15Graph, OutputPieGraph}
