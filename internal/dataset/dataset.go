package dataset

import (
	"errors"
	"fmt"
	"sort"

	"countrydash/internal/model"
)

var (
	// ErrDuplicateRow 同一 country+year 出现多次
	ErrDuplicateRow = errors.New("duplicate country/year row")
	// ErrEmptyDataset 数据集为空
	ErrEmptyDataset = errors.New("dataset has no rows")
)

// Dataset 只读的列式数据集，启动时构建一次，之后不再修改
type Dataset struct {
	countries  []string
	continents []string
	years      []int
	population []float64
	gdp        []float64
	life       []float64

	yearList      []int
	countryList   []string
	continentList []string
	yearIndex     map[int][]int
	countryIndex  map[string][]int
}

// New 由行构建数据集
func New(rows []model.Row) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	n := len(rows)
	d := &Dataset{
		countries:    make([]string, 0, n),
		continents:   make([]string, 0, n),
		years:        make([]int, 0, n),
		population:   make([]float64, 0, n),
		gdp:          make([]float64, 0, n),
		life:         make([]float64, 0, n),
		yearIndex:    make(map[int][]int),
		countryIndex: make(map[string][]int),
	}

	type key struct {
		country string
		year    int
	}
	seen := make(map[key]struct{}, n)
	continentSeen := make(map[string]struct{})

	for i, r := range rows {
		k := key{r.Country, r.Year}
		if _, ok := seen[k]; ok {
			return nil, fmt.Errorf("%w: %s %d", ErrDuplicateRow, r.Country, r.Year)
		}
		seen[k] = struct{}{}

		d.countries = append(d.countries, r.Country)
		d.continents = append(d.continents, r.Continent)
		d.years = append(d.years, r.Year)
		d.population = append(d.population, r.Population)
		d.gdp = append(d.gdp, r.GDPPerCapita)
		d.life = append(d.life, r.LifeExpectancy)

		if _, ok := d.yearIndex[r.Year]; !ok {
			d.yearList = append(d.yearList, r.Year)
		}
		d.yearIndex[r.Year] = append(d.yearIndex[r.Year], i)

		if _, ok := d.countryIndex[r.Country]; !ok {
			d.countryList = append(d.countryList, r.Country)
		}
		d.countryIndex[r.Country] = append(d.countryIndex[r.Country], i)

		if _, ok := continentSeen[r.Continent]; !ok {
			continentSeen[r.Continent] = struct{}{}
			d.continentList = append(d.continentList, r.Continent)
		}
	}
	sort.Ints(d.yearList)

	return d, nil
}

// Len 行数
func (d *Dataset) Len() int { return len(d.years) }

// Row 第 i 行
func (d *Dataset) Row(i int) model.Row {
	return model.Row{
		Country:        d.countries[i],
		Continent:      d.continents[i],
		Year:           d.years[i],
		Population:     d.population[i],
		GDPPerCapita:   d.gdp[i],
		LifeExpectancy: d.life[i],
	}
}

// Value 第 i 行的指标值
func (d *Dataset) Value(i int, m model.Metric) float64 {
	switch m {
	case model.MetricPopulation:
		return d.population[i]
	case model.MetricGDPPerCapita:
		return d.gdp[i]
	case model.MetricLifeExpectancy:
		return d.life[i]
	default:
		return 0
	}
}

// Years 去重后升序的年份
func (d *Dataset) Years() []int {
	return append([]int(nil), d.yearList...)
}

// MaxYear 最大年份
func (d *Dataset) MaxYear() int {
	return d.yearList[len(d.yearList)-1]
}

// MinYear 最小年份
func (d *Dataset) MinYear() int {
	return d.yearList[0]
}

// HasYear 数据集中是否存在该年份
func (d *Dataset) HasYear(year int) bool {
	_, ok := d.yearIndex[year]
	return ok
}

// Countries 国家列表（按首次出现顺序）
func (d *Dataset) Countries() []string {
	return append([]string(nil), d.countryList...)
}

// Continents 大洲列表（按首次出现顺序）
func (d *Dataset) Continents() []string {
	return append([]string(nil), d.continentList...)
}

// All 全量视图
func (d *Dataset) All() View {
	idx := make([]int, d.Len())
	for i := range idx {
		idx[i] = i
	}
	return View{ds: d, idx: idx}
}

// FilterYear year == y 的行；年份不存在时返回空视图
func (d *Dataset) FilterYear(year int) View {
	return View{ds: d, idx: d.yearIndex[year]}
}

// FilterCountries country ∈ countries 的行，保持数据集原有顺序
func (d *Dataset) FilterCountries(countries []string) View {
	if len(countries) == 0 {
		return View{ds: d}
	}
	set := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		set[c] = struct{}{}
	}
	idx := make([]int, 0)
	for i, c := range d.countries {
		if _, ok := set[c]; ok {
			idx = append(idx, i)
		}
	}
	return View{ds: d, idx: idx}
}

// Country 单个国家的全部行（数据集顺序）
func (d *Dataset) Country(country string) View {
	return View{ds: d, idx: d.countryIndex[country]}
}
