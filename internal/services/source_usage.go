package services

import (
	"cantiere/internal/core"
)

// SummarizeSources computes per-source usage from the pre-reduction line
// projections. Sources no line references report zero usage. Availability
// figures are differences, never clamped: an over-claimed source shows a
// negative ActualAvailableAmount, which is a reportable state, not an
// error. Summaries come back in source order.
func SummarizeSources(sources []core.BudgetSource, projections []core.LineProjection) []core.BudgetSourceSummary {
	summaries := make([]core.BudgetSourceSummary, len(sources))
	byID := make(map[string]*core.BudgetSourceSummary, len(sources))
	for i, s := range sources {
		summaries[i] = core.BudgetSourceSummary{
			SourceID:    s.ID,
			Name:        s.Name,
			Status:      s.Status,
			TotalAmount: s.TotalAmount,
		}
		byID[s.ID] = &summaries[i]
	}

	for _, p := range projections {
		s, ok := byID[p.SourceID]
		if !ok {
			continue
		}
		s.UsedAmount += p.ActualCost
		s.ClaimedAmount += p.ActualCostClaimed
		s.UnclaimedAmount += p.ActualCostPaid - p.ActualCostClaimed
	}

	for i := range summaries {
		summaries[i].AvailableAmount = summaries[i].TotalAmount - summaries[i].UsedAmount
		summaries[i].ActualAvailableAmount = summaries[i].TotalAmount - summaries[i].ClaimedAmount
	}
	return summaries
}
