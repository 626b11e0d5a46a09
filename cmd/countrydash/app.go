package main

import (
	"context"
	"errors"
	"fmt"

	"k8s.io/klog/v2"

	"countrydash/internal/config"
	"countrydash/internal/dashboard"
	"countrydash/internal/dataset"
	"countrydash/internal/model"
	"countrydash/internal/store"
)

// loadConfig 读取配置并应用公共命令行覆盖
func loadConfig() (*config.AppConfig, config.LoadConfigInfo, error) {
	cfg, info, err := config.LoadConfigWithInfo(args.configPath)
	if err != nil {
		return nil, info, fmt.Errorf("load config %s: %w", info.Path, err)
	}
	if args.source != "" {
		cfg.Data.Source = args.source
	}
	if args.dataDir != "" {
		cfg.Data.DataDir = args.dataDir
	}
	return cfg, info, nil
}

// dashboardOptions 把配置中的控件默认值转换成仪表盘参数
func dashboardOptions(cfg *config.AppConfig) (dashboard.Options, error) {
	d := cfg.Dashboard
	controls := dashboard.Controls{Countries: append([]string{}, d.DefaultCountries...)}

	var err error
	parse := func(key, raw string) model.Metric {
		if err != nil {
			return ""
		}
		m, perr := model.ParseMetric(raw)
		if perr != nil {
			err = fmt.Errorf("config dashboard.%s: %w", key, perr)
		}
		return m
	}
	controls.LineMetric = parse("line_metric", d.LineMetric)
	controls.BubbleX = parse("bubble_x", d.BubbleX)
	controls.BubbleY = parse("bubble_y", d.BubbleY)
	controls.BubbleSize = parse("bubble_size", d.BubbleSize)
	if err != nil {
		return dashboard.Options{}, err
	}

	return dashboard.Options{
		Controls: controls,
		TopN:     d.TopN,
		SizeMax:  d.BubbleSizeMax,
	}, nil
}

// loadDataset 在超时内加载数据集；st 非空时记录加载日志
func loadDataset(ctx context.Context, cfg *config.AppConfig, st *store.Store) (*dataset.Dataset, error) {
	log := klog.FromContext(ctx)
	src := dataset.ParseSource(cfg.Data.Source)

	if timeout := cfg.Data.LoadTimeout.Duration; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var logID string
	if st != nil {
		id, err := st.CreateLoadLog(src.String())
		if err != nil {
			log.Error(err, "create load log failed")
		}
		logID = id
	}

	ds, stats, err := dataset.Load(ctx, src)
	if err != nil {
		if logID != "" {
			if ferr := st.FailLoadLog(logID, err); ferr != nil {
				log.Error(ferr, "update load log failed")
			}
		}
		return nil, err
	}

	if logID != "" {
		if err := st.CompleteLoadLog(logID, stats.Rows, stats.Skipped, stats.Bytes); err != nil {
			log.Error(err, "update load log failed")
		}
	}
	log.Info("dataset ready", "source", src.String(), "rows", ds.Len(), "skipped", stats.Skipped,
		"years", fmt.Sprintf("%d-%d", ds.MinYear(), ds.MaxYear()))
	return ds, nil
}

// restoredYear 上次保存的选中年份；没有记录时返回 0
func restoredYear(st *store.Store) int {
	year, err := st.GetSelectedYear()
	if err != nil {
		if !errors.Is(err, store.ErrConfigNotFound) {
			klog.ErrorS(err, "read saved selected year failed")
		}
		return 0
	}
	return year
}

// buildDashboard 加载数据并构建仪表盘；year 非零时模拟一次折线图点击
func buildDashboard(ctx context.Context, cfg *config.AppConfig, year int, countries []string) (*dashboard.Dashboard, error) {
	opts, err := dashboardOptions(cfg)
	if err != nil {
		return nil, err
	}
	if countries != nil {
		opts.Controls.Countries = countries
	}

	ds, err := loadDataset(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}
	dash, err := dashboard.New(ds, opts)
	if err != nil {
		return nil, err
	}
	if year != 0 {
		if _, err := dash.Click(year); err != nil {
			return nil, err
		}
	}
	return dash, nil
}
