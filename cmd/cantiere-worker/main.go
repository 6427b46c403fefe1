package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"cantiere/internal/amqp"
	"cantiere/internal/cache"
	"cantiere/internal/config"
	"cantiere/internal/core"
	applog "cantiere/internal/log"
	"cantiere/internal/services"
	"cantiere/internal/storage"
	"cantiere/internal/storage/memory"
	"cantiere/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(slog.LevelInfo).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting cantiere-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	logger = logger.With("backend", cfg.DataBackend)

	var (
		reader     services.SnapshotReader
		closeStore func()
	)
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		reader = repo
		closeStore = func() { _ = repo.Close() }
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		reader = memory.New()
		closeStore = func() {}
		logger.Info("Initialized memory backend")
	}
	defer closeStore()

	overviewCache := cache.NewLRUCache[core.BudgetOverview](16, cfg.OverviewCacheTTL)
	reports := services.NewReportService(reader, overviewCache)
	reportWorker := worker.NewReportWorker(reports, cfg.ExportDir, cfg.ExportFormats)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Write a first set of exports before consuming changes.
	if err := reportWorker.Refresh(ctx); err != nil {
		logger.Error("Initial refresh failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqp.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
			func(msg *amqp.BudgetChangedMessage) error {
				return reportWorker.HandleChangeMessage(ctx, msg)
			})
	})

	g.Go(func() error {
		return reportWorker.RunPeriodicRefresh(ctx, cfg.RefreshInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
