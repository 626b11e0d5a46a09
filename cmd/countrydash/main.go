package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var Cmd = &cobra.Command{
	Use:           "countrydash",
	Long:          "Country Dashboard - interactive charts of the gapminder country indicators",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var args struct {
	configPath string
	source     string
	dataDir    string
}

func main() {
	defer klog.Flush()

	if err := Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		klog.Flush()
		os.Exit(1)
	}
}

func init() {
	flags := Cmd.PersistentFlags()

	flags.StringVar(
		&args.configPath,
		"config",
		"",
		"Path to config.toml (default: next to the executable)",
	)
	flags.StringVar(
		&args.source,
		"source",
		"",
		"Dataset URL or file path (overrides config and COUNTRYDASH_SOURCE)",
	)
	flags.StringVar(
		&args.dataDir,
		"data-dir",
		"",
		"Data directory for the SQLite store (overrides config)",
	)

	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	flags.AddGoFlagSet(klogFlags)

	Cmd.AddCommand(serveCmd, exportCmd, renderCmd)
}
