package services

import (
	"sort"

	"cantiere/internal/core"
)

// AggregateCategories produces one summary row per catalog category,
// summing the subsidy-adjusted projections of the lines in each. Every
// category appears exactly once, all-zero when nothing references it.
// Lines without a category, or with a dangling category id, contribute to
// no row. Rows come back in catalog sort order.
func AggregateCategories(categories []core.BudgetCategory, projections []core.LineProjection) []core.CategorySummary {
	byID := make(map[string]*core.CategorySummary, len(categories))
	summaries := make([]core.CategorySummary, len(categories))
	for i, c := range categories {
		summaries[i] = core.CategorySummary{
			CategoryID: c.ID,
			Name:       c.Name,
			Color:      c.Color,
		}
	}
	for i := range summaries {
		byID[summaries[i].CategoryID] = &summaries[i]
	}

	for _, p := range projections {
		s, ok := byID[p.CategoryID]
		if !ok {
			continue
		}
		s.BudgetLineCount++
		s.MinPlanned += p.MinPlanned
		s.MaxPlanned += p.MaxPlanned
		s.ProjectedMin += p.ProjectedMin
		s.ProjectedMax += p.ProjectedMax
		s.ActualCost += p.ActualCost
		s.ActualCostPaid += p.ActualCostPaid
		s.ActualCostClaimed += p.ActualCostClaimed
	}

	order := make(map[string]int, len(categories))
	for _, c := range categories {
		order[c.ID] = c.SortOrder
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return order[summaries[i].CategoryID] < order[summaries[j].CategoryID]
	})
	return summaries
}
