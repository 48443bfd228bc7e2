package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/degplus/brawl-collector/internal/app"
	"github.com/degplus/brawl-collector/internal/config"
	"github.com/degplus/brawl-collector/internal/observability"
	"github.com/degplus/brawl-collector/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.NewJSON(logging.LevelInfo).Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel).With(
		"service", cfg.ServiceName,
		"env", cfg.AppEnv,
	)
	logging.SetDefault(logger)

	os.Exit(runCollector(cfg, logger))
}

// runCollector is split out of main so deferred cleanups run before the
// process exits with a status code.
func runCollector(cfg config.Config, logger *logging.Logger) int {
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		if err := shutdownUptrace(context.Background()); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		return 1
	}
	defer func() {
		if err := stopPyroscope(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	}()

	collector, cleanup, err := app.NewCollector(ctx, cfg, logger)
	if err != nil {
		logger.Error("build collector", "error", err)
		return 1
	}
	defer func() {
		if err := cleanup(context.Background()); err != nil {
			logger.Warn("cleanup failed", "error", err)
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	result, err := collector.Service.Run(runCtx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("collection run interrupted", "error", err)
			return 1
		}
		logger.Error("collection run failed", "error", err)
		return 1
	}

	logger.Info("collection run finished",
		"players", result.Players,
		"fetch_failures", result.FetchFailures,
		"raw_rows", result.RawRows,
		"after_intra_run", result.AfterIntraRun,
		"already_stored", result.ExistingSkipped,
		"loaded_rows", result.LoadedRows,
	)

	return 0
}
