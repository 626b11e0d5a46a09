package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"countrydash/internal/config"
	"countrydash/internal/dashboard"
	"countrydash/internal/server"
	"countrydash/internal/store"
	"countrydash/internal/util"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard web server",
	Long:  "Load the dataset, start the HTTP server and open the dashboard in a browser",
	RunE:  runServe,
}

var serveArgs struct {
	port      int
	dev       bool
	devProxy  string
	noBrowser bool
}

func init() {
	flags := serveCmd.Flags()

	flags.IntVar(
		&serveArgs.port,
		"port",
		0,
		"Server port (only used when config.toml does not set server.port)",
	)
	flags.BoolVar(
		&serveArgs.dev,
		"dev",
		false,
		"Development mode (gin debug logging, no browser)",
	)
	flags.StringVar(
		&serveArgs.devProxy,
		"dev-proxy",
		"",
		"Frontend dev server to redirect page requests to (implies --dev)",
	)
	flags.BoolVar(
		&serveArgs.noBrowser,
		"no-browser",
		false,
		"Do not open a browser window",
	)
}

func runServe(cmd *cobra.Command, argv []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := klog.FromContext(ctx)

	cfg, info, err := loadConfig()
	if err != nil {
		return err
	}
	if serveArgs.port > 0 && !info.PortSpecified {
		cfg.Server.Port = serveArgs.port
	}
	if serveArgs.dev {
		cfg.Server.DevMode = true
	}
	if serveArgs.devProxy != "" {
		cfg.Server.DevMode = true
		cfg.Server.DevProxy = serveArgs.devProxy
	}
	if serveArgs.noBrowser {
		cfg.Server.OpenBrowser = false
	}
	if info.FileFound {
		log.Info("config loaded", "path", info.Path)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	log.Info("data directory", "path", dataDir)

	st, err := store.New(config.DBPath(cfg))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	opts, err := dashboardOptions(cfg)
	if err != nil {
		return err
	}
	ds, err := loadDataset(ctx, cfg, st)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if cfg.Dashboard.RestoreSelection {
		opts.InitialYear = restoredYear(st)
	}
	dash, err := dashboard.New(ds, opts)
	if err != nil {
		return err
	}

	// 未在配置文件中指定端口时，端口被占用则向后顺延
	if !info.PortSpecified {
		port, err := util.FindAvailablePort(cfg.Server.Port, 20)
		if err != nil {
			return err
		}
		cfg.Server.Port = port
	}

	srv := server.NewServer(dash, st, server.Options{
		Addr:     fmt.Sprintf(":%d", cfg.Server.Port),
		DevMode:  cfg.Server.DevMode,
		DevProxy: cfg.Server.DevProxy,
		Source:   cfg.Data.Source,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	if cfg.Server.OpenBrowser && !cfg.Server.DevMode {
		log.Info("opening browser", "url", url)
		if err := util.OpenBrowser(url); err != nil {
			fmt.Fprintf(os.Stderr, "无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("请访问 %s\n", url)
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
