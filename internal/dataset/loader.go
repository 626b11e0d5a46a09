package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"k8s.io/klog/v2"

	"countrydash/internal/model"
)

// DefaultSourceURL gapminder 数据集
const DefaultSourceURL = "https://raw.githubusercontent.com/plotly/datasets/master/gapminder_unfiltered.csv"

// ErrMissingColumn 表头缺少必需列
var ErrMissingColumn = errors.New("missing required column")

// Source 数据来源：本地文件或 URL，二选一
type Source struct {
	FilePath string
	URL      string
}

// ParseSource 根据字符串判断来源类型
func ParseSource(s string) Source {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return Source{URL: s}
	case strings.HasPrefix(s, "file://"):
		return Source{FilePath: strings.TrimPrefix(s, "file://")}
	default:
		return Source{FilePath: s}
	}
}

func (s Source) String() string {
	if s.FilePath != "" {
		return s.FilePath
	}
	return s.URL
}

func (s Source) isXLSX() bool {
	name := s.FilePath
	if name == "" {
		name = s.URL
		if i := strings.IndexAny(name, "?#"); i >= 0 {
			name = name[:i]
		}
	}
	return strings.EqualFold(path.Ext(name), ".xlsx")
}

// Stats 加载统计
type Stats struct {
	Rows    int
	Skipped int
	Bytes   int
}

// Load 读取并解析数据源。失败即返回错误，不做重试。
func Load(ctx context.Context, src Source) (*Dataset, Stats, error) {
	logger := klog.FromContext(ctx)

	raw, err := readSource(ctx, src)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("load data source %s: %w", src, err)
	}

	var rows []model.Row
	var skipped int
	if src.isXLSX() {
		rows, skipped, err = ParseXLSX(bytes.NewReader(raw))
	} else {
		rows, skipped, err = ParseCSV(bytes.NewReader(raw))
	}
	if err != nil {
		return nil, Stats{}, fmt.Errorf("parse data source %s: %w", src, err)
	}

	ds, err := New(rows)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("build dataset: %w", err)
	}

	stats := Stats{Rows: ds.Len(), Skipped: skipped, Bytes: len(raw)}
	logger.Info("dataset loaded", "source", src.String(), "rows", stats.Rows, "skipped", stats.Skipped,
		"countries", len(ds.countryList), "minYear", ds.MinYear(), "maxYear", ds.MaxYear())
	return ds, stats, nil
}

func readSource(ctx context.Context, src Source) ([]byte, error) {
	switch {
	case src.FilePath != "":
		return os.ReadFile(src.FilePath)
	case src.URL != "":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	default:
		return nil, errors.New("either file or url must be provided")
	}
}

// ParseCSV 解析 CSV，返回行与跳过的坏行数
func ParseCSV(r io.Reader) ([]model.Row, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, 0, err
	}

	var rows []model.Row
	skipped := 0
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			klog.V(2).InfoS("skip malformed csv record", "line", line, "err", err)
			skipped++
			continue
		}
		row, err := cols.row(rec)
		if err != nil {
			klog.V(2).InfoS("skip invalid csv row", "line", line, "err", err)
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

// ParseXLSX 解析工作簿第一个 sheet，表头规则与 CSV 相同
func ParseXLSX(r io.Reader) ([]model.Row, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, errors.New("workbook has no sheets")
	}
	all, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(all) == 0 {
		return nil, 0, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	cols, err := mapColumns(all[0])
	if err != nil {
		return nil, 0, err
	}

	var rows []model.Row
	skipped := 0
	for i, rec := range all[1:] {
		if isBlank(rec) {
			continue
		}
		row, err := cols.row(rec)
		if err != nil {
			klog.V(2).InfoS("skip invalid sheet row", "sheet", sheets[0], "row", i+2, "err", err)
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

type columnMap struct {
	country, continent, year, pop, gdp, life int
}

var columnAliases = map[string]string{
	"country":         "country",
	"continent":       "continent",
	"year":            "year",
	"pop":             "pop",
	"population":      "pop",
	"gdppercap":       "gdp",
	"gdp_per_capita":  "gdp",
	"lifeexp":         "life",
	"life_expectancy": "life",
}

func mapColumns(header []string) (columnMap, error) {
	idx := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canon, ok := columnAliases[key]; ok {
			if _, dup := idx[canon]; !dup {
				idx[canon] = i
			}
		}
	}
	var missing []string
	for _, k := range []string{"country", "continent", "year", "pop", "gdp", "life"} {
		if _, ok := idx[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return columnMap{}, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return columnMap{
		country:   idx["country"],
		continent: idx["continent"],
		year:      idx["year"],
		pop:       idx["pop"],
		gdp:       idx["gdp"],
		life:      idx["life"],
	}, nil
}

func (c columnMap) row(rec []string) (model.Row, error) {
	get := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
		return ""
	}

	country := get(c.country)
	if country == "" {
		return model.Row{}, errors.New("empty country")
	}
	year, err := parseYear(get(c.year))
	if err != nil {
		return model.Row{}, err
	}
	pop, err := parseNumber(get(c.pop), "pop")
	if err != nil {
		return model.Row{}, err
	}
	gdp, err := parseNumber(get(c.gdp), "gdpPercap")
	if err != nil {
		return model.Row{}, err
	}
	life, err := parseNumber(get(c.life), "lifeExp")
	if err != nil {
		return model.Row{}, err
	}

	return model.Row{
		Country:        country,
		Continent:      get(c.continent),
		Year:           year,
		Population:     pop,
		GDPPerCapita:   gdp,
		LifeExpectancy: life,
	}, nil
}

func parseYear(s string) (int, error) {
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return int(f), nil
}

func parseNumber(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", field, s)
	}
	return v, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
