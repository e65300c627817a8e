package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/reviewscout/enrich-cli/internal/config"
	"github.com/reviewscout/enrich-cli/internal/enrich"
	"github.com/reviewscout/enrich-cli/internal/fetch"
	"github.com/reviewscout/enrich-cli/internal/history"
	"github.com/reviewscout/enrich-cli/internal/source"
	"github.com/reviewscout/enrich-cli/pkg/anthropic"
	"github.com/reviewscout/enrich-cli/pkg/google"
)

// buildEnricher wires the source chain from configuration. Sources with
// missing credentials are skipped for the whole run.
func buildEnricher(cfg *config.Config) (*enrich.Enricher, enrich.Options) {
	var places google.Client
	if cfg.Google.Key != "" {
		places = google.NewClient(cfg.Google.Key)
	}

	var ai anthropic.Client
	if cfg.Anthropic.Key != "" {
		ai = anthropic.NewClient(cfg.Anthropic.Key)
	}

	fetcher := fetch.New(
		fetch.WithTimeout(time.Duration(cfg.Fetch.TimeoutSecs)*time.Second),
		fetch.WithRateLimit(cfg.Fetch.RatePerSecond),
	)

	chain := source.BuildChain(places, ai, cfg.Anthropic.Model, fetcher, cfg.Enrich.Region)

	opts := enrich.Options{
		MaxConcurrent: cfg.Enrich.MaxConcurrent,
		GroupDelay:    time.Duration(cfg.Enrich.GroupDelaySecs) * time.Second,
	}
	return enrich.New(chain...), opts
}

// openHistory opens the configured history store and runs migrations.
func openHistory(ctx context.Context, cfg *config.Config) (history.Store, error) {
	var (
		st  history.Store
		err error
	)
	switch cfg.History.Driver {
	case "postgres":
		st, err = history.NewPostgres(ctx, cfg.History.DatabaseURL)
	case "sqlite", "":
		st, err = history.NewSQLite(cfg.History.Path)
	default:
		return nil, eris.Errorf("unknown history driver %q", cfg.History.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}

	zap.L().Debug("history store ready", zap.String("driver", cfg.History.Driver))
	return st, nil
}
