package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/tournevent/cdek/internal/config"
	"github.com/tournevent/cdek/internal/migrate"
	"github.com/tournevent/cdek/internal/refdata"
	"github.com/tournevent/cdek/internal/refdata/memory"
	"github.com/tournevent/cdek/internal/refdata/postgres"
	"github.com/tournevent/cdek/internal/telemetry"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}
	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
}

// initMetrics registers sync metrics and, when configured, serves /metrics
// for the duration of the run.
func initMetrics(cfg *config.Config, logger *otelzap.Logger) (*telemetry.Metrics, func()) {
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(registry)

	if cfg.MetricsAddr == "" {
		return metrics, func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Metrics server error", zap.Error(err))
		}
	}()

	return metrics, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

// openStore connects to Postgres when a DSN is configured, applying pending
// migrations first. Without a DSN the sync runs against an in-memory store,
// useful for connectivity checks against the sandbox.
func openStore(ctx context.Context, cfg *config.Config, logger *otelzap.Logger) (refdata.Store, func(), error) {
	if cfg.DatabaseDSN == "" {
		logger.Warn("DATABASE_DSN is not set, syncing into an in-memory store")
		return memory.New(), func() {}, nil
	}

	if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
		return nil, nil, err
	}

	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewStore(db), db.Close, nil
}
