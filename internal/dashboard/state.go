package dashboard

import (
	"math"
	"strconv"
	"sync"
)

// ClickData 折线图点击事件（Plotly clickData 的子集）
type ClickData struct {
	Points []ClickPoint `json:"points"`
}

// ClickPoint 被点击的点
type ClickPoint struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	CurveNumber int     `json:"curveNumber"`
	PointIndex  int     `json:"pointIndex"`
}

// YearState 进程内唯一的可变状态：当前选中年份。
// 唯一写入方是折线图点击节点，气泡/条形/饼图节点只读。
type YearState struct {
	mu       sync.RWMutex
	year     int
	onChange []func(int)
}

func newYearState(year int) *YearState {
	return &YearState{year: year}
}

// Get 当前年份
func (s *YearState) Get() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.year
}

// Label 年份的展示文本
func (s *YearState) Label() string {
	return strconv.Itoa(s.Get())
}

func (s *YearState) set(year int) {
	s.mu.Lock()
	changed := s.year != year
	s.year = year
	hooks := append([]func(int){}, s.onChange...)
	s.mu.Unlock()

	if changed {
		for _, fn := range hooks {
			fn(year)
		}
	}
}

func (s *YearState) subscribe(fn func(int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// apply 有点击数据时用第一个点的 x 覆盖年份，始终返回当前年份文本
func (s *YearState) apply(click *ClickData) string {
	if click != nil && len(click.Points) > 0 {
		s.set(int(math.Round(click.Points[0].X)))
	}
	return s.Label()
}
