package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

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

	logger := applog.New(slog.LevelInfo).WithComponent(applog.ComponentApp)
	applog.SetDefault(logger)

	paybackWorkItem := flag.String("payback", "", "print the subsidy payback report for a work item instead of the overview")
	writeExports := flag.Bool("export", false, "also write the configured export files")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	reader, closeStore, err := openStore(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer closeStore()

	reports := services.NewReportService(reader, nil)
	ctx := context.Background()

	if *paybackWorkItem != "" {
		report, err := reports.GetWorkItemSubsidyPayback(ctx, *paybackWorkItem)
		if errors.Is(err, core.ErrNotFound) {
			logger.Error("Work item not found", "work_item_id", *paybackWorkItem)
			os.Exit(1)
		}
		if err != nil {
			logger.Error("Failed to build payback report", "error", err, "work_item_id", *paybackWorkItem)
			os.Exit(1)
		}
		printJSON(logger, report)
		return
	}

	overview, err := reports.GetBudgetOverview(ctx)
	if err != nil {
		logger.Error("Failed to build budget overview", "error", err)
		os.Exit(1)
	}
	printJSON(logger, overview)

	if *writeExports {
		w := worker.NewReportWorker(reports, cfg.ExportDir, cfg.ExportFormats)
		if err := w.Refresh(ctx); err != nil {
			logger.Error("Failed to write exports", "error", err)
			os.Exit(1)
		}
	}
}

// openStore picks the snapshot backend from configuration. The returned
// close function is a no-op for the in-memory store.
func openStore(cfg *config.Config, logger *applog.Logger) (services.SnapshotReader, func(), error) {
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
		return repo, func() { _ = repo.Close() }, nil
	default:
		store := memory.New()
		logger.Info("Initialized memory backend")
		return store, func() {}, nil
	}
}

func printJSON(logger *applog.Logger, v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Error("Failed to encode report", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
