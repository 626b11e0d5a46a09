package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"countrydash/internal/dashboard"
	"countrydash/internal/layout"
	"countrydash/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one chart to a PNG file",
	RunE:  runRender,
}

var renderArgs struct {
	chart  string
	out    string
	year   int
	width  int
	height int
}

// 命令行使用面板 id，也接受图表元素 id
var chartByPanel = map[string]string{
	"line":   dashboard.OutputLineGraph,
	"bubble": dashboard.OutputBubbleGraph,
	"top15":  dashboard.OutputTop15Graph,
	"pie":    dashboard.OutputPieGraph,
}

func init() {
	flags := renderCmd.Flags()

	flags.StringVar(
		&renderArgs.chart,
		"chart",
		"line",
		"Chart to render: line, bubble, top15 or pie",
	)
	flags.StringVar(
		&renderArgs.out,
		"out",
		"",
		"Output file (default: <chart>-<year>.png)",
	)
	flags.IntVar(
		&renderArgs.year,
		"year",
		0,
		"Selected year (default: latest year in the dataset)",
	)
	flags.IntVar(&renderArgs.width, "width", 1024, "Image width")
	flags.IntVar(&renderArgs.height, "height", 600, "Image height")
}

func runRender(cmd *cobra.Command, argv []string) error {
	id, ok := chartByPanel[renderArgs.chart]
	if !ok {
		id = renderArgs.chart
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	dash, err := buildDashboard(cmd.Context(), cfg, renderArgs.year, nil)
	if err != nil {
		return err
	}
	spec, err := dash.Chart(id, nil)
	if err != nil {
		return err
	}

	opts := render.Options{Width: renderArgs.width, Height: renderArgs.height}
	if l, err := layout.Default(); err == nil {
		if p, ok := l.PanelByOutput(id); ok {
			opts.Title = p.Title
		}
	}

	out := renderArgs.out
	if out == "" {
		out = fmt.Sprintf("%s-%d.png", renderArgs.chart, dash.SelectedYear())
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := render.PNG(f, spec, opts); err != nil {
		_ = f.Close()
		_ = os.Remove(out)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
