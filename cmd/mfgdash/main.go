package main

import (
	"context"
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/HaPhanBaoMinh/mfgdash/help"
	"github.com/HaPhanBaoMinh/mfgdash/internal/alerting"
	"github.com/HaPhanBaoMinh/mfgdash/internal/app"
	"github.com/HaPhanBaoMinh/mfgdash/internal/config"
	"github.com/HaPhanBaoMinh/mfgdash/internal/infrastructure/mock"
	"github.com/HaPhanBaoMinh/mfgdash/internal/logger"
	"github.com/HaPhanBaoMinh/mfgdash/internal/metrics"
)

func main() {
	var configPath, logLevel, logFile, metricsAddr string
	var refresh int
	var seed int64
	flag.StringVar(&configPath, "config", help.DefaultConfigPath(), "path to config file")
	flag.IntVar(&refresh, "refresh", 0, "refresh interval in seconds (5, 10, 30, 60)")
	flag.Int64Var(&seed, "seed", 0, "seed for the simulated plant")
	flag.StringVar(&logLevel, "log-level", "", "log level")
	flag.StringVar(&logFile, "log-file", "", `log file, "-" disables logging`)
	flag.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	// flags win over the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "refresh":
			cfg.RefreshInterval = refresh
		case "seed":
			cfg.Seed = seed
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-file":
			cfg.LogFile = logFile
		case "metrics-addr":
			cfg.MetricsAddr = metricsAddr
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if cfg.LogFile == "" {
		cfg.LogFile = help.DefaultLogPath()
	}

	out, err := logger.OpenFile(cfg.LogFile)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()
	logger.Init(cfg.LogLevel, out)

	thresholds, err := alerting.ParseSet(cfg.Thresholds)
	if err != nil {
		log.Fatal(err)
	}

	repo := mock.New()
	if cfg.Seed != 0 {
		repo = mock.NewWithSeed(cfg.Seed)
	}

	opts := []alerting.Option{
		alerting.WithRecorder(metrics.NewRecorder()),
		alerting.WithLogger(logger.WithComponent("alerting")),
	}
	if cfg.Environment.Enabled {
		opts = append(opts, alerting.WithEnvironment(
			alerting.NewSimulatedEnvironment(cfg.Environment.Probability, cfg.Seed)))
	}
	monitor := alerting.NewMonitor(opts...)
	if err := monitor.UpdateThresholds(thresholds); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, logger.WithComponent("metrics")); err != nil {
				logger.Logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	logger.Logger.Info().
		Str("config", configPath).
		Int("refresh", cfg.RefreshInterval).
		Bool("environment", cfg.Environment.Enabled).
		Msg("starting dashboard")

	m := app.New(repo, monitor, cfg)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
