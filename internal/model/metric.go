package model

import (
	"fmt"
	"strings"
)

// Metric 可选指标
type Metric string

const (
	MetricPopulation     Metric = "population"
	MetricGDPPerCapita   Metric = "gdp_per_capita"
	MetricLifeExpectancy Metric = "life_expectancy"
)

// Metrics 固定的指标集合（下拉框顺序）
var Metrics = []Metric{MetricPopulation, MetricGDPPerCapita, MetricLifeExpectancy}

var metricLabels = map[Metric]string{
	MetricPopulation:     "Population",
	MetricGDPPerCapita:   "GDP per capita",
	MetricLifeExpectancy: "Life expectancy",
}

// 原始 CSV 列名 -> 指标
var metricAliases = map[string]Metric{
	"population":      MetricPopulation,
	"pop":             MetricPopulation,
	"gdp_per_capita":  MetricGDPPerCapita,
	"gdppercap":       MetricGDPPerCapita,
	"life_expectancy": MetricLifeExpectancy,
	"lifeexp":         MetricLifeExpectancy,
}

// ParseMetric 解析指标名，兼容数据源列名
func ParseMetric(s string) (Metric, error) {
	if m, ok := metricAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("unknown metric: %q", s)
}

// Label 展示名
func (m Metric) Label() string {
	if l, ok := metricLabels[m]; ok {
		return l
	}
	return string(m)
}

// Valid 是否为已知指标
func (m Metric) Valid() bool {
	_, ok := metricLabels[m]
	return ok
}
