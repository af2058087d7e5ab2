package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tournevent/cdek/internal/refsync"
	"github.com/tournevent/cdek/pkg/cdek"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "cdek-bridge",
	Short:   "CDEK integration bridge - API client and reference data sync",
	Version: version,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize CDEK countries, regions, cities and delivery points",
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(ctx)
	}

	metrics, stopMetrics := initMetrics(cfg, logger)
	defer stopMetrics()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer closeStore()

	client, err := cdek.New(cdek.Config{
		ClientID:       cfg.CDEKClientID,
		ClientSecret:   cfg.CDEKClientSecret,
		Sandbox:        cfg.CDEKSandbox,
		Account:        cfg.CDEKAccount,
		SecurePassword: cfg.CDEKSecurePassword,
	}, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting CDEK reference data sync",
		zap.String("version", cfg.Version),
		zap.Bool("sandbox", cfg.CDEKSandbox),
	)

	syncer := refsync.New(client, store, logger, metrics, tracer)
	if err := syncer.SyncAll(ctx); err != nil {
		logger.Error("Reference data sync failed", zap.Error(err))
		return err
	}

	logger.Info("Reference data sync complete")
	return nil
}
