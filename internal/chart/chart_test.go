package chart

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"countrydash/internal/dataset"
	"countrydash/internal/model"
)

func loadSample(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, _, err := dataset.Load(context.Background(), dataset.Source{
		FilePath: filepath.Join("..", "..", "testdata", "gapminder_sample.csv"),
	})
	require.NoError(t, err)
	return ds
}

func TestLineEmptySelectionIsPlaceholder(t *testing.T) {
	ds := loadSample(t)
	for _, m := range model.Metrics {
		spec := Line(ds, nil, m)
		require.Equal(t, PlaceholderTitle, spec.Title)
		require.Empty(t, spec.Series)
		require.True(t, spec.Empty())
	}
}

func TestLineCanadaChina(t *testing.T) {
	ds := loadSample(t)
	spec := Line(ds, []string{"Canada", "China"}, model.MetricPopulation)

	require.Equal(t, model.ChartLine, spec.Kind)
	require.Equal(t, "event+select", spec.ClickMode)
	require.Len(t, spec.Series, 2)

	for _, s := range spec.Series {
		view := ds.Country(s.Name)
		require.Len(t, s.Points, view.Len(), s.Name)
		for i, p := range s.Points {
			row := view.Row(i)
			require.Equal(t, float64(row.Year), p.X)
			require.Equal(t, row.Population, p.Y)
		}
	}
	require.NotEqual(t, spec.Series[0].Color, spec.Series[1].Color)
}

func TestLineUnknownCountryHasNoSeries(t *testing.T) {
	ds := loadSample(t)
	spec := Line(ds, []string{"Atlantis"}, model.MetricGDPPerCapita)
	require.Empty(t, spec.Series)
	require.NotEqual(t, PlaceholderTitle, spec.Title)
}

func TestBubbleFiltersToYear(t *testing.T) {
	ds := loadSample(t)
	spec := Bubble(ds, 1987, model.MetricGDPPerCapita, model.MetricLifeExpectancy, model.MetricPopulation, 25)

	require.Equal(t, ds.FilterYear(1987).Len(), spec.PointCount())
	for _, s := range spec.Series {
		for _, p := range s.Points {
			row := findRow(t, ds, p.Label, 1987)
			require.Equal(t, s.Name, row.Continent)
			require.Equal(t, row.GDPPerCapita, p.X)
			require.Equal(t, row.LifeExpectancy, p.Y)
			require.LessOrEqual(t, p.Size, 25.0)
			require.Greater(t, p.Size, 0.0)
		}
	}
}

func TestBubbleMissingYearIsEmpty(t *testing.T) {
	ds := loadSample(t)
	spec := Bubble(ds, 1800, model.MetricGDPPerCapita, model.MetricLifeExpectancy, model.MetricLifeExpectancy, 0)
	require.True(t, spec.Empty())
	require.Equal(t, float64(DefaultSizeMax), spec.SizeMax)
}

func TestMarkerSize(t *testing.T) {
	require.Equal(t, 25.0, markerSize(100, 100, 25))
	require.InDelta(t, 12.5, markerSize(25, 100, 25), 1e-9)
	require.Zero(t, markerSize(0, 100, 25))
	require.Zero(t, markerSize(-1, 100, 25))
}

func TestTopCountAndOrder(t *testing.T) {
	ds := loadSample(t)
	for _, year := range ds.Years() {
		spec := Top(ds, year, DefaultTopN)
		want := ds.FilterYear(year).Len()
		if want > 15 {
			want = 15
		}
		require.Equal(t, want, spec.PointCount(), "year %d", year)
		require.Len(t, spec.Categories, want)

		prev := -1.0
		for _, country := range spec.Categories {
			pop := findRow(t, ds, country, year).Population
			require.GreaterOrEqual(t, pop, prev)
			prev = pop
		}
	}
}

func TestTopKeepsLargest(t *testing.T) {
	ds, err := dataset.New([]model.Row{
		{Country: "A", Continent: "Asia", Year: 2000, Population: 5},
		{Country: "B", Continent: "Europe", Year: 2000, Population: 9},
		{Country: "C", Continent: "Asia", Year: 2000, Population: 5},
		{Country: "D", Continent: "Africa", Year: 2000, Population: 1},
	})
	require.NoError(t, err)

	spec := Top(ds, 2000, 2)
	require.Equal(t, []string{"A", "B"}, spec.Categories)
	require.Equal(t, "Asia", spec.Series[0].Name)
	require.Equal(t, "Europe", spec.Series[1].Name)
}

func TestPieSumsByContinent(t *testing.T) {
	ds := loadSample(t)
	for _, year := range ds.Years() {
		spec := Pie(ds, year)
		require.Len(t, spec.Series, 1)

		want := map[string]float64{}
		total := 0.0
		view := ds.FilterYear(year)
		for i := 0; i < view.Len(); i++ {
			row := view.Row(i)
			want[row.Continent] += row.Population
			total += row.Population
		}

		got := map[string]float64{}
		sum := 0.0
		for _, p := range spec.Series[0].Points {
			got[p.Label] = p.Y
			sum += p.Y
		}
		require.Equal(t, want, got, "year %d", year)
		require.InDelta(t, total, sum, 1e-6)
		require.Len(t, spec.Colors, len(spec.Series[0].Points))
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	ds := loadSample(t)
	require.Equal(t, Line(ds, []string{"China", "India"}, model.MetricLifeExpectancy),
		Line(ds, []string{"China", "India"}, model.MetricLifeExpectancy))
	require.Equal(t, Bubble(ds, 2002, model.MetricPopulation, model.MetricGDPPerCapita, model.MetricLifeExpectancy, 25),
		Bubble(ds, 2002, model.MetricPopulation, model.MetricGDPPerCapita, model.MetricLifeExpectancy, 25))
	require.Equal(t, Top(ds, 1977, 15), Top(ds, 1977, 15))
	require.Equal(t, Pie(ds, 1977), Pie(ds, 1977))
}

func TestContinentColorsStable(t *testing.T) {
	ds := loadSample(t)
	colors := ContinentColors(ds)
	require.Len(t, colors, len(ds.Continents()))

	pie := Pie(ds, 2007)
	for i, p := range pie.Series[0].Points {
		require.Equal(t, colors[p.Label], pie.Colors[i])
	}
}

func findRow(t *testing.T, ds *dataset.Dataset, country string, year int) model.Row {
	t.Helper()
	view := ds.Country(country)
	for i := 0; i < view.Len(); i++ {
		if r := view.Row(i); r.Year == year {
			return r
		}
	}
	t.Fatalf("row %s/%d not found", country, year)
	return model.Row{}
}
