package dashboard

import (
	"fmt"
	"slices"
	"strconv"

	"countrydash/internal/model"
)

// State 页面完整状态
type State struct {
	SelectedYear int                        `json:"selectedYear"`
	YearLabel    string                     `json:"yearLabel"`
	Controls     Controls                   `json:"controls"`
	Charts       map[string]model.ChartSpec `json:"charts"`
}

// Snapshot 在调用方控件状态下的全部输出（一次加锁求值，保证一致）
func (d *Dashboard) Snapshot(current *Controls) (State, error) {
	ctl, err := current.resolve(d.opts.Controls)
	if err != nil {
		return State{}, err
	}
	vals, err := d.graph.EvaluateAll(ctl.values())
	if err != nil {
		return State{}, err
	}

	label, _ := vals[OutputSelectedYear].(string)
	year, err := strconv.Atoi(label)
	if err != nil {
		year = d.year.Get()
		label = strconv.Itoa(year)
	}

	st := State{
		SelectedYear: year,
		YearLabel:    label,
		Controls:     ctl,
		Charts:       make(map[string]model.ChartSpec, len(ChartIDs)),
	}
	for _, id := range ChartIDs {
		if spec, ok := vals[id].(model.ChartSpec); ok {
			st.Charts[id] = spec
		}
	}
	return st, nil
}

// Chart 单个图表在调用方控件状态下的值
func (d *Dashboard) Chart(id string, current *Controls) (model.ChartSpec, error) {
	if !slices.Contains(ChartIDs, id) {
		return model.ChartSpec{}, fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
	st, err := d.Snapshot(current)
	if err != nil {
		return model.ChartSpec{}, err
	}
	spec, ok := st.Charts[id]
	if !ok {
		return model.ChartSpec{}, fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
	return spec, nil
}

// MetricOption 指标下拉项
type MetricOption struct {
	Value model.Metric `json:"value"`
	Label string       `json:"label"`
}

// DropdownOptions 下拉框选项
type DropdownOptions struct {
	Countries []string       `json:"countries"`
	Metrics   []MetricOption `json:"metrics"`
	Years     []int          `json:"years"`
}

// Options 下拉框选项：国家按数据集顺序，指标为固定集合
func (d *Dashboard) Options() DropdownOptions {
	metrics := make([]MetricOption, 0, len(model.Metrics))
	for _, m := range model.Metrics {
		metrics = append(metrics, MetricOption{Value: m, Label: m.Label()})
	}
	return DropdownOptions{
		Countries: d.ds.Countries(),
		Metrics:   metrics,
		Years:     d.ds.Years(),
	}
}
