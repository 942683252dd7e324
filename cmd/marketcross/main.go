package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"MarketCross/internal/collector"
	"MarketCross/internal/config"
	"MarketCross/internal/logging"
	"MarketCross/internal/metrics"
	"MarketCross/internal/recorder"
)

// app holds the wired dependencies shared by all commands.
type app struct {
	cfg       *config.Config
	logger    zerolog.Logger
	promReg   *prometheus.Registry
	collector *collector.Collector
	recorder  recorder.Recorder
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		debug   bool
		a       = &app{}
	)

	root := &cobra.Command{
		Use:           "marketcross",
		Short:         "SMA crossover analysis for daily price history",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cfgPath == "" {
				cfgPath = "configs/config.yaml"
				if v := os.Getenv("CONFIG_PATH"); v != "" {
					cfgPath = v
				}
			}
			return a.init(cfgPath, debug)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.recorder != nil {
				return a.recorder.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default: configs/config.yaml or $CONFIG_PATH)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(newAnalyzeCmd(a), newServeCmd(a), newWatchCmd(a), newIndicesCmd(a), newRunsCmd(a))
	return root
}

func (a *app) init(cfgPath string, debug bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if debug {
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg
	a.logger = logging.New(logging.Options{Level: cfg.Log.Level, Console: os.Stderr, FilePath: cfg.Log.File})

	registry := buildRegistry(cfg)
	a.logger.Debug().Strs("providers", registry.Names()).Msg("providers registered")
	a.collector = collector.NewCollector(registry, cfg.Providers.FetchTimeout, a.logger)

	a.promReg = prometheus.NewRegistry()
	a.promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.collector.OnRun(metrics.NewMetrics(a.promReg).Observe)

	a.recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, a.logger)
		if err != nil {
			a.logger.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			a.recorder = sr
		}
	}
	a.collector.OnRun(recorder.Hook(a.recorder, a.logger))
	return nil
}

func buildRegistry(cfg *config.Config) *collector.Registry {
	reg := collector.NewRegistry()
	lookback := cfg.Providers.LookbackDays
	reg.Register(collector.NewYahooFetcher(cfg.Proxy, lookback), "")
	reg.Register(collector.NewAlphaVantageFetcher(cfg.Proxy, lookback), cfg.Providers.AlphaVantage.APIKey)
	if cfg.Providers.VsTrader.BaseURL != "" {
		reg.Register(collector.NewVsTraderFetcher(cfg.Providers.VsTrader.BaseURL, cfg.Proxy, lookback), cfg.Providers.VsTrader.APIKey)
	}
	if cfg.Providers.Mock.Enabled {
		reg.Register(&collector.MockFetcher{Price: cfg.Providers.Mock.Price}, "")
	}
	return reg
}
