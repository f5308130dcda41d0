package main

import (
	"os"

	"github.com/rs/zerolog"

	"OpportunityScanner/internal/collector"
	"OpportunityScanner/internal/config"
	"OpportunityScanner/internal/logger"
	"OpportunityScanner/internal/recorder"
	"OpportunityScanner/internal/scanner"
)

// app bundles the components shared by the scan and serve commands.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	cache    *collector.Cache
	scanner  *scanner.Scanner
	recorder recorder.Recorder
}

func resolveConfigPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

func newApp() (*app, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "yfinance":
		fetcher = collector.NewYFinanceFetcher()
	case "vstrader":
		fetcher = collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "mock":
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Info().Str("provider", fetcher.Name()).Msg("data source selected")

	cache := collector.NewCache(cfg.DataSource.CacheTTL)
	sc := scanner.New(collector.NewCachedFetcher(fetcher, cache, log), log)
	sc.Delay = cfg.Scanner.Delay

	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}

	return &app{cfg: cfg, log: log, cache: cache, scanner: sc, recorder: rec}, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		a.log.Error().Err(err).Msg("close recorder")
	}
}
