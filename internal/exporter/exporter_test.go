package exporter

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"countrydash/internal/dashboard"
	"countrydash/internal/dataset"
)

func newDashboard(t *testing.T) *dashboard.Dashboard {
	t.Helper()
	ds, _, err := dataset.Load(context.Background(), dataset.Source{
		FilePath: filepath.Join("..", "..", "testdata", "gapminder_sample.csv"),
	})
	require.NoError(t, err)
	d, err := dashboard.New(ds, dashboard.Options{Controls: dashboard.DefaultControls()})
	require.NoError(t, err)
	return d
}

func TestExportWritesOneSheetPerChart(t *testing.T) {
	d := newDashboard(t)

	var events []ProgressEvent
	f, st, err := NewExporter(d).Export(ExportOptions{
		Progress: func(e ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Line", "Bubble", "Top15", "Pie"}, f.GetSheetList())
	require.Equal(t, 2007, st.SelectedYear)
	require.Len(t, events, len(dashboard.ChartIDs)+1)

	total := 0
	for i, id := range dashboard.ChartIDs {
		rows, err := f.GetRows(SheetNames[id])
		require.NoError(t, err)
		require.Equal(t, header, rows[0])
		require.Len(t, rows, 1+st.Charts[id].PointCount(), id)

		e := events[i]
		require.Equal(t, SheetNames[id], e.Sheet)
		require.Equal(t, st.Charts[id].PointCount(), e.Rows, id)
		require.Contains(t, e.Stage, SheetNames[id])
		require.Less(t, e.Percent, 100)
		total += e.Rows
	}
	// 2007 年样本里有 24 个国家
	require.Equal(t, 24, events[1].Rows)

	last := events[len(events)-1]
	require.Equal(t, 100, last.Percent)
	require.Empty(t, last.Sheet)
	require.Equal(t, total, last.Rows)
}

func TestExportFollowsSelectedYear(t *testing.T) {
	d := newDashboard(t)
	_, err := d.Click(1987)
	require.NoError(t, err)

	f, st, err := NewExporter(d).Export(ExportOptions{})
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, 1987, st.SelectedYear)

	// 导出后重新读取，确认写入的是工作簿内容而不是内存引用
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	reopened, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer reopened.Close()

	rows, err := reopened.GetRows("Top15")
	require.NoError(t, err)
	require.Len(t, rows, 16)
}

func TestExportUsesGivenControls(t *testing.T) {
	d := newDashboard(t)

	f, st, err := NewExporter(d).Export(ExportOptions{Controls: &dashboard.Controls{Countries: []string{"India"}}})
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, []string{"India"}, st.Controls.Countries)

	rows, err := f.GetRows("Line")
	require.NoError(t, err)
	require.Equal(t, 1+st.Charts[dashboard.OutputLineGraph].PointCount(), len(rows))
	require.Equal(t, "India", rows[1][0])

	_, _, err = NewExporter(d).Export(ExportOptions{Controls: &dashboard.Controls{BubbleX: "height"}})
	require.ErrorIs(t, err, dashboard.ErrBadInput)
}

func TestWorkbookEmptyCharts(t *testing.T) {
	st := dashboard.State{}
	var events []ProgressEvent
	f, err := Workbook(st, func(e ProgressEvent) { events = append(events, e) })
	require.NoError(t, err)
	defer f.Close()

	require.Len(t, events, 5)
	for _, e := range events {
		require.Zero(t, e.Rows)
	}

	for _, name := range []string{"Line", "Bubble", "Top15", "Pie"} {
		rows, err := f.GetRows(name)
		require.NoError(t, err)
		require.Len(t, rows, 1)
	}
}

func TestFileName(t *testing.T) {
	require.Equal(t, "country-dashboard-1987.xlsx", FileName(1987))
}
