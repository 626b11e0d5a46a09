package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"countrydash/internal/exporter"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the four charts' data to an Excel workbook",
	RunE:  runExport,
}

var exportArgs struct {
	out       string
	year      int
	countries []string
}

func init() {
	flags := exportCmd.Flags()

	flags.StringVar(
		&exportArgs.out,
		"out",
		"",
		"Output file (default: country-dashboard-<year>.xlsx)",
	)
	flags.IntVar(
		&exportArgs.year,
		"year",
		0,
		"Selected year (default: latest year in the dataset)",
	)
	flags.StringSliceVar(
		&exportArgs.countries,
		"countries",
		nil,
		"Countries for the line chart (default: config dashboard.default_countries)",
	)
}

func runExport(cmd *cobra.Command, argv []string) error {
	ctx := cmd.Context()
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	dash, err := buildDashboard(ctx, cfg, exportArgs.year, exportArgs.countries)
	if err != nil {
		return err
	}

	f, st, err := exporter.NewExporter(dash).Export(exporter.ExportOptions{
		Progress: func(e exporter.ProgressEvent) {
			klog.V(2).InfoS("export progress", "percent", e.Percent, "sheet", e.Sheet, "rows", e.Rows)
		},
	})
	if err != nil {
		return err
	}
	defer f.Close()

	out := exportArgs.out
	if out == "" {
		out = exporter.FileName(st.SelectedYear)
	}
	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
