package services

import (
	"context"
	"fmt"
	"log/slog"

	"cantiere/internal/cache"
	"cantiere/internal/core"
	"cantiere/internal/log"
)

const overviewCacheKey = "budget_overview"

// ReportService exposes the budget engine's read operations. Each call
// reads one snapshot and aggregates in memory; the service keeps no state
// of its own beyond an optional cache of the assembled overview.
type ReportService struct {
	store         SnapshotReader
	overviewCache cache.Cache[core.BudgetOverview]
}

// NewReportService creates a report service. overviewCache may be nil to
// disable caching.
func NewReportService(store SnapshotReader, overviewCache cache.Cache[core.BudgetOverview]) *ReportService {
	return &ReportService{
		store:         store,
		overviewCache: overviewCache,
	}
}

// GetBudgetOverview assembles the project-wide report. An empty database
// yields an all-zero report that still carries the full category catalog.
func (s *ReportService) GetBudgetOverview(ctx context.Context) (core.BudgetOverview, error) {
	if s.overviewCache != nil {
		if cached, ok := s.overviewCache.Get(overviewCacheKey); ok {
			return cached, nil
		}
	}

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return core.BudgetOverview{}, fmt.Errorf("read budget snapshot: %w", err)
	}

	overview := BuildOverview(snap)

	if s.overviewCache != nil {
		s.overviewCache.Set(overviewCacheKey, overview)
	}

	slog.DebugContext(ctx, "Budget overview assembled",
		log.FieldOperation, log.OpOverview,
		"lines", len(snap.Lines),
		"sources", len(snap.Sources),
		"categories", len(snap.Categories),
		"total_reductions", overview.SubsidySummary.TotalReductions)

	return overview, nil
}

// InvalidateOverview drops the cached overview. Callers that write budget
// rows should invoke it (directly or via a change message) so the next
// read recomputes.
func (s *ReportService) InvalidateOverview() {
	if s.overviewCache != nil {
		s.overviewCache.Delete(overviewCacheKey)
	}
}

// ListBudgetSources reports usage for every funding source.
func (s *ReportService) ListBudgetSources(ctx context.Context) ([]core.BudgetSourceSummary, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read budget snapshot: %w", err)
	}
	projections := ProjectLines(snap.Lines, snap.Invoices)
	return SummarizeSources(snap.Sources, projections), nil
}

// GetBudgetSourceByID reports usage for one funding source, failing with
// core.ErrNotFound when the id is absent.
func (s *ReportService) GetBudgetSourceByID(ctx context.Context, id string) (core.BudgetSourceSummary, error) {
	summaries, err := s.ListBudgetSources(ctx)
	if err != nil {
		return core.BudgetSourceSummary{}, err
	}
	for _, summary := range summaries {
		if summary.SourceID == id {
			return summary, nil
		}
	}
	return core.BudgetSourceSummary{}, fmt.Errorf("budget source %q: %w", id, core.ErrNotFound)
}

// BuildOverview assembles the overview report from one snapshot. Pure.
func BuildOverview(snap *core.Snapshot) core.BudgetOverview {
	var overview core.BudgetOverview

	for _, src := range snap.Sources {
		if src.Status == core.SourceActive {
			overview.AvailableFunds += src.TotalAmount
			overview.SourceCount++
		}
	}

	projections := ProjectLines(snap.Lines, snap.Invoices)
	reductions := ComputeReductions(snap.Programs, snap.Links, projections)
	adjusted := ApplyReductions(projections, reductions)

	for _, p := range adjusted {
		overview.MinPlanned += p.MinPlanned
		overview.MaxPlanned += p.MaxPlanned
		overview.ProjectedMin += p.ProjectedMin
		overview.ProjectedMax += p.ProjectedMax
		// Actual spend is reported as recorded; subsidies never lower it.
		overview.ActualCost += p.ActualCost
		overview.ActualCostPaid += p.ActualCostPaid
		overview.ActualCostClaimed += p.ActualCostClaimed
	}

	overview.RemainingVsMinPlanned = overview.AvailableFunds - overview.MinPlanned
	overview.RemainingVsMaxPlanned = overview.AvailableFunds - overview.MaxPlanned
	overview.RemainingVsProjectedMin = overview.AvailableFunds - overview.ProjectedMin
	overview.RemainingVsProjectedMax = overview.AvailableFunds - overview.ProjectedMax
	overview.RemainingVsActualCost = overview.AvailableFunds - overview.ActualCost
	overview.RemainingVsActualCostPaid = overview.AvailableFunds - overview.ActualCostPaid
	overview.RemainingVsActualCostClaimed = overview.AvailableFunds - overview.ActualCostClaimed

	overview.SubsidySummary.TotalReductions = reductions.TotalReductions
	for _, program := range snap.Programs {
		if !program.Rejected() {
			overview.SubsidySummary.ActiveSubsidyCount++
		}
	}

	overview.CategorySummaries = AggregateCategories(snap.Categories, adjusted)
	return overview
}
