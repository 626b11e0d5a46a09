package render

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"

	"countrydash/internal/dashboard"
	"countrydash/internal/dataset"
	"countrydash/internal/model"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func sampleState(t *testing.T) dashboard.State {
	t.Helper()
	ds, _, err := dataset.Load(context.Background(), dataset.Source{
		FilePath: filepath.Join("..", "..", "testdata", "gapminder_sample.csv"),
	})
	require.NoError(t, err)
	d, err := dashboard.New(ds, dashboard.Options{Controls: dashboard.DefaultControls()})
	require.NoError(t, err)
	st, err := d.Snapshot(nil)
	require.NoError(t, err)
	return st
}

func TestPNGRendersEveryChart(t *testing.T) {
	st := sampleState(t)
	for _, id := range dashboard.ChartIDs {
		t.Run(id, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, PNG(&buf, st.Charts[id], Options{Width: 640, Height: 480}))
			require.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestPNGSinglePointLine(t *testing.T) {
	spec := model.ChartSpec{
		Kind:  model.ChartLine,
		Title: "one point",
		Series: []model.ChartSeries{{
			Name:   "Canada",
			Color:  "#636efa",
			Points: []model.ChartPoint{{X: 2007, Y: 33390141}},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, spec, Options{}))
	require.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func barSpec(values ...float64) model.ChartSpec {
	spec := model.ChartSpec{Kind: model.ChartBar, Series: []model.ChartSeries{{Name: "Asia", Color: "#636efa"}}}
	for i, v := range values {
		label := fmt.Sprintf("C%d", i)
		spec.Categories = append(spec.Categories, label)
		spec.Series[0].Points = append(spec.Series[0].Points, model.ChartPoint{X: v, Label: label})
	}
	return spec
}

func TestPNGSingleBar(t *testing.T) {
	for _, spec := range []model.ChartSpec{barSpec(1318683096), barSpec(5, 5, 5), barSpec(0)} {
		var buf bytes.Buffer
		require.NoError(t, PNG(&buf, spec, Options{Width: 640, Height: 480}))
		require.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
	}
}

func TestBarChartStartsAtZero(t *testing.T) {
	ch := barChart(barSpec(200, 50, 120), Options{Width: 640, Height: 480})
	r, ok := ch.YAxis.Range.(*chart.ContinuousRange)
	require.True(t, ok)
	require.Equal(t, 0.0, r.Min)
	require.Equal(t, 200.0, r.Max)

	ch = barChart(barSpec(0, 0), Options{})
	r = ch.YAxis.Range.(*chart.ContinuousRange)
	require.Equal(t, 0.0, r.Min)
	require.Equal(t, 1.0, r.Max)
}

func TestPNGEmptyChart(t *testing.T) {
	var buf bytes.Buffer
	err := PNG(&buf, model.ChartSpec{Kind: model.ChartLine, Title: "select countries of interest"}, Options{})
	require.ErrorIs(t, err, ErrNoData)
	require.Zero(t, buf.Len())
}

func TestPNGPieWithoutPositiveSlices(t *testing.T) {
	spec := model.ChartSpec{
		Kind: model.ChartPie,
		Series: []model.ChartSeries{{
			Points: []model.ChartPoint{{Label: "Asia", Y: 0}},
		}},
	}
	require.ErrorIs(t, PNG(&bytes.Buffer{}, spec, Options{}), ErrNoData)
}

func TestPNGUnknownKind(t *testing.T) {
	spec := model.ChartSpec{
		Kind:   "radar",
		Series: []model.ChartSeries{{Points: []model.ChartPoint{{X: 1, Y: 1}}}},
	}
	require.Error(t, PNG(&bytes.Buffer{}, spec, Options{}))
}

func TestPadRange(t *testing.T) {
	r := padRange(10, 10)
	require.Equal(t, 9.0, r.Min)
	require.Equal(t, 11.0, r.Max)

	r = padRange(0, 0)
	require.Equal(t, -1.0, r.Min)
	require.Equal(t, 1.0, r.Max)

	r = padRange(0, 100)
	require.InDelta(t, -5, r.Min, 1e-9)
	require.InDelta(t, 105, r.Max, 1e-9)
}

func TestCompactFormatter(t *testing.T) {
	require.Equal(t, "1.3B", compactFormatter(1.318683096e9))
	require.Equal(t, "33.4M", compactFormatter(33390141.0))
	require.Equal(t, "12.5k", compactFormatter(12451.0))
	require.Equal(t, "80.653", compactFormatter(80.653))
	require.Equal(t, "2007", yearFormatter(2006.9999))
}
