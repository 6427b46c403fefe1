package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"cantiere/internal/cache"
	"cantiere/internal/core"
)

type stubStore struct {
	snap  *core.Snapshot
	reads int
}

func (s *stubStore) Snapshot(ctx context.Context) (*core.Snapshot, error) {
	s.reads++
	return s.snap, nil
}

func seededCatalog() []core.BudgetCategory {
	return []core.BudgetCategory{
		{ID: "cat-demolition", Name: "Demolition", SortOrder: 1},
		{ID: "cat-structural", Name: "Structural", SortOrder: 2},
		{ID: "cat-electrical", Name: "Electrical", SortOrder: 3},
	}
}

func TestGetBudgetOverview_EmptyDatabase(t *testing.T) {
	store := &stubStore{snap: &core.Snapshot{Categories: seededCatalog()}}
	svc := NewReportService(store, nil)

	overview, err := svc.GetBudgetOverview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if overview.AvailableFunds != 0 || overview.SourceCount != 0 ||
		overview.MinPlanned != 0 || overview.MaxPlanned != 0 ||
		overview.ActualCost != 0 || overview.SubsidySummary.TotalReductions != 0 {
		t.Errorf("empty database should yield an all-zero report: %+v", overview)
	}
	if len(overview.CategorySummaries) != 3 {
		t.Fatalf("expected the full category catalog, got %d rows", len(overview.CategorySummaries))
	}
	for _, row := range overview.CategorySummaries {
		if row.BudgetLineCount != 0 || row.MinPlanned != 0 {
			t.Errorf("category %s should be all-zero: %+v", row.CategoryID, row)
		}
	}
}

func TestGetBudgetOverview_FullScenario(t *testing.T) {
	snap := &core.Snapshot{
		WorkItems:  []core.WorkItem{{ID: "wi-1", Name: "Kitchen"}},
		Categories: seededCatalog(),
		Sources: []core.BudgetSource{
			{ID: "src-1", Name: "Savings", TotalAmount: 30000, Status: core.SourceActive},
			{ID: "src-2", Name: "Old loan", TotalAmount: 10000, Status: core.SourceClosed},
		},
		Lines: []core.BudgetLine{
			// No invoices: own estimate band [8000, 12000].
			{ID: "bl-1", WorkItemID: "wi-1", PlannedAmount: 10000, Confidence: core.OwnEstimate, CategoryID: "cat-demolition", SourceID: "src-1"},
			// Collapsed to 6000 by a paid invoice.
			{ID: "bl-2", WorkItemID: "wi-1", PlannedAmount: 10000, Confidence: core.OwnEstimate, CategoryID: "cat-structural", SourceID: "src-1"},
		},
		Invoices: []core.Invoice{
			{ID: "inv-1", BudgetLineID: "bl-2", Amount: 6000, Status: core.InvoicePaid, Date: time.Now()},
		},
		Programs: []core.SubsidyProgram{
			// Fixed 2000 scoped to demolition: one match, full amount.
			{ID: "sub-1", Name: "Demo grant", ReductionType: core.ReductionFixed, ReductionValue: 2000, Status: core.SubsidyApproved, ApplicableCategories: []string{"cat-demolition"}},
			// Rejected: counts nowhere.
			{ID: "sub-2", Name: "Rejected grant", ReductionType: core.ReductionFixed, ReductionValue: 9999, Status: core.SubsidyRejected},
		},
		Links: []core.WorkItemSubsidyLink{
			{WorkItemID: "wi-1", SubsidyProgramID: "sub-1"},
			{WorkItemID: "wi-1", SubsidyProgramID: "sub-2"},
		},
	}
	svc := NewReportService(&stubStore{snap: snap}, nil)

	overview, err := svc.GetBudgetOverview(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only active sources fund the project.
	if !almostEqual(overview.AvailableFunds, 30000) || overview.SourceCount != 1 {
		t.Errorf("availableFunds = %v / sourceCount = %d, want 30000 / 1", overview.AvailableFunds, overview.SourceCount)
	}

	// bl-1 adjusted: [8000-2000, 12000-2000]; bl-2 stays 6000.
	if !almostEqual(overview.MinPlanned, 12000) {
		t.Errorf("MinPlanned = %v, want 12000", overview.MinPlanned)
	}
	if !almostEqual(overview.MaxPlanned, 16000) {
		t.Errorf("MaxPlanned = %v, want 16000", overview.MaxPlanned)
	}
	if !almostEqual(overview.ProjectedMin, 12000) || !almostEqual(overview.ProjectedMax, 16000) {
		t.Errorf("projected = [%v, %v], want [12000, 16000]", overview.ProjectedMin, overview.ProjectedMax)
	}

	// Actuals are never subsidy-adjusted.
	if !almostEqual(overview.ActualCost, 6000) || !almostEqual(overview.ActualCostPaid, 6000) || overview.ActualCostClaimed != 0 {
		t.Errorf("actuals = %v / %v / %v, want 6000 / 6000 / 0", overview.ActualCost, overview.ActualCostPaid, overview.ActualCostClaimed)
	}

	// Remaining perspectives are plain differences against available funds.
	if !almostEqual(overview.RemainingVsMinPlanned, 18000) ||
		!almostEqual(overview.RemainingVsMaxPlanned, 14000) ||
		!almostEqual(overview.RemainingVsActualCost, 24000) ||
		!almostEqual(overview.RemainingVsActualCostClaimed, 30000) {
		t.Errorf("remaining perspectives wrong: %+v", overview)
	}

	if !almostEqual(overview.SubsidySummary.TotalReductions, 2000) {
		t.Errorf("TotalReductions = %v, want 2000", overview.SubsidySummary.TotalReductions)
	}
	// Active count includes non-rejected programs even with no matches.
	if overview.SubsidySummary.ActiveSubsidyCount != 1 {
		t.Errorf("ActiveSubsidyCount = %d, want 1", overview.SubsidySummary.ActiveSubsidyCount)
	}

	// Category rows carry the adjusted sums and every catalog entry.
	if len(overview.CategorySummaries) != 3 {
		t.Fatalf("expected 3 category rows, got %d", len(overview.CategorySummaries))
	}
	demo := overview.CategorySummaries[0]
	if demo.CategoryID != "cat-demolition" || !almostEqual(demo.MinPlanned, 6000) || !almostEqual(demo.MaxPlanned, 10000) {
		t.Errorf("demolition row = %+v, want adjusted [6000, 10000]", demo)
	}
}

func TestGetBudgetOverview_Idempotent(t *testing.T) {
	snap := &core.Snapshot{
		WorkItems:  []core.WorkItem{{ID: "wi-1"}},
		Categories: seededCatalog(),
		Sources:    []core.BudgetSource{{ID: "src-1", Name: "Savings", TotalAmount: 1000, Status: core.SourceActive}},
		Lines: []core.BudgetLine{
			{ID: "bl-1", WorkItemID: "wi-1", PlannedAmount: 700, Confidence: core.Quote, CategoryID: "cat-electrical", SourceID: "src-1"},
		},
		Programs: []core.SubsidyProgram{{ID: "sub-1", Name: "Grant", ReductionType: core.ReductionPercentage, ReductionValue: 15, Status: core.SubsidyApplied}},
		Links:    []core.WorkItemSubsidyLink{{WorkItemID: "wi-1", SubsidyProgramID: "sub-1"}},
	}
	svc := NewReportService(&stubStore{snap: snap}, nil)

	first, err := svc.GetBudgetOverview(context.Background())
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.GetBudgetOverview(context.Background())
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("overview not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestGetBudgetOverview_CacheAndInvalidate(t *testing.T) {
	store := &stubStore{snap: &core.Snapshot{Categories: seededCatalog()}}
	svc := NewReportService(store, cache.NewLRUCache[core.BudgetOverview](4, time.Minute))

	if _, err := svc.GetBudgetOverview(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetBudgetOverview(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.reads != 1 {
		t.Errorf("expected 1 snapshot read with warm cache, got %d", store.reads)
	}

	svc.InvalidateOverview()
	if _, err := svc.GetBudgetOverview(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.reads != 2 {
		t.Errorf("expected a fresh read after invalidation, got %d reads", store.reads)
	}
}

func TestGetBudgetSourceByID(t *testing.T) {
	snap := &core.Snapshot{
		Sources: []core.BudgetSource{{ID: "src-1", Name: "Savings", TotalAmount: 5000, Status: core.SourceActive}},
	}
	svc := NewReportService(&stubStore{snap: snap}, nil)

	got, err := svc.GetBudgetSourceByID(context.Background(), "src-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Savings" || !almostEqual(got.TotalAmount, 5000) {
		t.Errorf("unexpected summary: %+v", got)
	}

	_, err = svc.GetBudgetSourceByID(context.Background(), "src-missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
