package model

// Row 数据集中的一行（按 country+year 唯一）
type Row struct {
	Country        string  `json:"country"`
	Continent      string  `json:"continent"`
	Year           int     `json:"year"`
	Population     float64 `json:"population"`
	GDPPerCapita   float64 `json:"gdpPerCapita"`
	LifeExpectancy float64 `json:"lifeExpectancy"`
}

// Value 按指标取值
func (r Row) Value(m Metric) float64 {
	switch m {
	case MetricPopulation:
		return r.Population
	case MetricGDPPerCapita:
		return r.GDPPerCapita
	case MetricLifeExpectancy:
		return r.LifeExpectancy
	default:
		return 0
	}
}
