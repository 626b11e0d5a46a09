package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"countrydash/internal/config"
	"countrydash/internal/model"
)

var sample = filepath.Join("..", "..", "testdata", "gapminder_sample.csv")

func execute(t *testing.T, argv ...string) string {
	t.Helper()
	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetArgs(argv)
	require.NoError(t, Cmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "dash.xlsx")

	execute(t, "export",
		"--config", filepath.Join(dir, "config.toml"),
		"--source", sample,
		"--year", "1987",
		"--countries", "India,Japan",
		"--out", out,
	)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	require.Equal(t, []string{"Line", "Bubble", "Top15", "Pie"}, f.GetSheetList())

	rows, err := f.GetRows("Line")
	require.NoError(t, err)
	require.Greater(t, len(rows), 1)
	for _, r := range rows[1:] {
		require.Contains(t, []string{"India", "Japan"}, r[0])
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "pie.png")

	printed := execute(t, "render",
		"--config", filepath.Join(dir, "config.toml"),
		"--source", sample,
		"--chart", "pie",
		"--year", "0",
		"--out", out,
	)
	require.Contains(t, printed, out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestDashboardOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dashboard.LineMetric = "gdpPercap"
	cfg.Dashboard.TopN = 5

	opts, err := dashboardOptions(cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"Canada", "China"}, opts.Controls.Countries)
	require.Equal(t, model.MetricGDPPerCapita, opts.Controls.LineMetric)
	require.Equal(t, model.MetricLifeExpectancy, opts.Controls.BubbleSize)
	require.Equal(t, 5, opts.TopN)

	cfg.Dashboard.BubbleY = "height"
	_, err = dashboardOptions(cfg)
	require.ErrorContains(t, err, "dashboard.bubble_y")
}
