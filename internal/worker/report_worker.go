package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cantiere/internal/amqp"
	"cantiere/internal/export"
	"cantiere/internal/log"
	"cantiere/internal/services"
)

// ReportWorker keeps the exported budget reports current. It reacts to
// budget change messages by invalidating the cached overview and rewriting
// the export files, and refreshes them periodically as a safety net.
type ReportWorker struct {
	reports   *services.ReportService
	exportDir string
	formats   []string
}

func NewReportWorker(reports *services.ReportService, exportDir string, formats []string) *ReportWorker {
	return &ReportWorker{
		reports:   reports,
		exportDir: exportDir,
		formats:   formats,
	}
}

// HandleChangeMessage processes a single budget change message from AMQP.
// Any change to the underlying entities invalidates the aggregate view.
func (w *ReportWorker) HandleChangeMessage(ctx context.Context, msg *amqp.BudgetChangedMessage) error {
	slog.InfoContext(ctx, "Processing budget change",
		log.FieldEntity, msg.Entity,
		"id", msg.ID,
		log.FieldAction, msg.Action)

	w.reports.InvalidateOverview()

	if err := w.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh reports: %w", err)
	}
	return nil
}

// Refresh recomputes the budget overview and rewrites the export files.
func (w *ReportWorker) Refresh(ctx context.Context) error {
	overview, err := w.reports.GetBudgetOverview(ctx)
	if err != nil {
		return fmt.Errorf("get budget overview: %w", err)
	}
	sources, err := w.reports.ListBudgetSources(ctx)
	if err != nil {
		return fmt.Errorf("list budget sources: %w", err)
	}

	if err := os.MkdirAll(w.exportDir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	for _, format := range w.formats {
		var data []byte
		switch format {
		case "xlsx":
			data, err = export.BuildOverviewXLSX(overview, sources)
		case "pdf":
			data, err = export.BuildOverviewPDF(overview, sources)
		default:
			slog.WarnContext(ctx, "Skipping unknown export format", "format", format)
			continue
		}
		if err != nil {
			return fmt.Errorf("build %s export: %w", format, err)
		}

		path := filepath.Join(w.exportDir, "budget_overview."+format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s export: %w", format, err)
		}
		slog.InfoContext(ctx, "Wrote budget export", log.FieldExportPath, path, "bytes", len(data))
	}

	return nil
}

// RunPeriodicRefresh rewrites the exports on a fixed interval until the
// context is cancelled. Errors are logged and the loop keeps going.
func (w *ReportWorker) RunPeriodicRefresh(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Refresh(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic refresh failed", log.FieldError, err)
			}
		}
	}
}
