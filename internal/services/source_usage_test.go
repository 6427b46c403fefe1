package services

import (
	"testing"

	"cantiere/internal/core"
)

func TestSummarizeSources(t *testing.T) {
	sources := []core.BudgetSource{
		{ID: "src-1", Name: "Savings", TotalAmount: 20000, Status: core.SourceActive},
		{ID: "src-2", Name: "Loan", TotalAmount: 10000, Status: core.SourceClosed},
	}
	lines := []core.BudgetLine{
		{ID: "bl-1", WorkItemID: "wi-1", PlannedAmount: 5000, Confidence: core.Quote, SourceID: "src-1"},
		{ID: "bl-2", WorkItemID: "wi-1", PlannedAmount: 3000, Confidence: core.Quote, SourceID: "src-1"},
		{ID: "bl-3", WorkItemID: "wi-1", PlannedAmount: 1000, Confidence: core.Quote}, // no source
	}
	invoices := []core.Invoice{
		{ID: "inv-1", BudgetLineID: "bl-1", Amount: 4000, Status: core.InvoiceClaimed},
		{ID: "inv-2", BudgetLineID: "bl-1", Amount: 1000, Status: core.InvoicePaid},
		{ID: "inv-3", BudgetLineID: "bl-2", Amount: 500, Status: core.InvoicePending},
	}

	summaries := SummarizeSources(sources, ProjectLines(lines, invoices))
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	s := summaries[0]
	if !almostEqual(s.UsedAmount, 5500) {
		t.Errorf("UsedAmount = %v, want 5500 (all invoice amounts on src-1 lines)", s.UsedAmount)
	}
	if !almostEqual(s.AvailableAmount, 14500) {
		t.Errorf("AvailableAmount = %v, want 14500", s.AvailableAmount)
	}
	if !almostEqual(s.ClaimedAmount, 4000) {
		t.Errorf("ClaimedAmount = %v, want 4000", s.ClaimedAmount)
	}
	if !almostEqual(s.UnclaimedAmount, 1000) {
		t.Errorf("UnclaimedAmount = %v, want 1000 (paid but not claimed)", s.UnclaimedAmount)
	}
	if !almostEqual(s.ActualAvailableAmount, 16000) {
		t.Errorf("ActualAvailableAmount = %v, want 16000", s.ActualAvailableAmount)
	}

	// A source no line references reports zero usage.
	z := summaries[1]
	if z.UsedAmount != 0 || z.ClaimedAmount != 0 || z.UnclaimedAmount != 0 {
		t.Errorf("unused source should report zero usage: %+v", z)
	}
	if !almostEqual(z.AvailableAmount, 10000) || !almostEqual(z.ActualAvailableAmount, 10000) {
		t.Errorf("unused source availability should equal its total: %+v", z)
	}
}

func TestSummarizeSources_OverClaimedGoesNegative(t *testing.T) {
	// Source of 5000 with a claimed invoice of 7000: actual availability
	// is -2000, reported as-is.
	sources := []core.BudgetSource{{ID: "src-1", Name: "Grant pot", TotalAmount: 5000, Status: core.SourceActive}}
	lines := []core.BudgetLine{{ID: "bl-1", WorkItemID: "wi-1", PlannedAmount: 7000, Confidence: core.InvoiceConfidence, SourceID: "src-1"}}
	invoices := []core.Invoice{{ID: "inv-1", BudgetLineID: "bl-1", Amount: 7000, Status: core.InvoiceClaimed}}

	summaries := SummarizeSources(sources, ProjectLines(lines, invoices))
	s := summaries[0]
	if !almostEqual(s.ClaimedAmount, 7000) {
		t.Errorf("ClaimedAmount = %v, want 7000", s.ClaimedAmount)
	}
	if !almostEqual(s.ActualAvailableAmount, -2000) {
		t.Errorf("ActualAvailableAmount = %v, want -2000 (not clamped)", s.ActualAvailableAmount)
	}
}
