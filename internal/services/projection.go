// Package services implements the budget aggregation and projection engine:
// per-line cost projections, subsidy reduction apportionment, category and
// funding-source rollups, and the assembled project overview. Everything
// here is a pure computation over a snapshot; nothing mutates stored rows.
package services

import (
	"cantiere/internal/core"
)

// ProjectLine combines one budget line with its invoices.
//
// Without invoices the planned range is the confidence-margin band around
// the planned amount and the projected range equals it. The moment any
// invoice exists against the line, even a single pending one, the whole
// range collapses to the invoiced actual cost: a known figure beats an
// estimate band.
func ProjectLine(line core.BudgetLine, invoices []core.Invoice) core.LineProjection {
	p := core.LineProjection{
		BudgetLineID: line.ID,
		WorkItemID:   line.WorkItemID,
		CategoryID:   line.CategoryID,
		SourceID:     line.SourceID,
	}

	for _, inv := range invoices {
		if inv.BudgetLineID != line.ID {
			continue
		}
		p.HasInvoices = true
		p.ActualCost += inv.Amount
		switch inv.Status {
		case core.InvoicePaid:
			p.ActualCostPaid += inv.Amount
		case core.InvoiceClaimed:
			p.ActualCostPaid += inv.Amount
			p.ActualCostClaimed += inv.Amount
		}
	}

	if p.HasInvoices {
		p.MinPlanned = p.ActualCost
		p.MaxPlanned = p.ActualCost
		p.ProjectedMin = p.ActualCost
		p.ProjectedMax = p.ActualCost
		return p
	}

	planned := line.PlannedAmount
	if planned < 0 {
		planned = 0
	}
	margin := line.Confidence.Margin()
	p.MinPlanned = planned * (1 - margin)
	p.MaxPlanned = planned * (1 + margin)
	p.ProjectedMin = p.MinPlanned
	p.ProjectedMax = p.MaxPlanned
	return p
}

// ProjectLines projects every budget line against the full invoice set.
// Invoices without a budget line reference are ignored. Output order
// follows line order, which keeps downstream sums deterministic.
func ProjectLines(lines []core.BudgetLine, invoices []core.Invoice) []core.LineProjection {
	byLine := make(map[string][]core.Invoice, len(lines))
	for _, inv := range invoices {
		if inv.BudgetLineID == "" {
			continue
		}
		byLine[inv.BudgetLineID] = append(byLine[inv.BudgetLineID], inv)
	}

	projections := make([]core.LineProjection, len(lines))
	for i, line := range lines {
		projections[i] = ProjectLine(line, byLine[line.ID])
	}
	return projections
}
