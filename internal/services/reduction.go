package services

import (
	"cantiere/internal/core"
)

// ProgramReduction is the total reduction one subsidy program contributes,
// tracked separately for the min and max planned tracks. The tracks differ
// only for percentage programs over non-collapsed lines.
type ProgramReduction struct {
	ProgramID  string
	MinTotal   float64
	MaxTotal   float64
	MatchCount int
}

// Reductions is the outcome of matching subsidy programs against projected
// budget lines: accumulated per-line reductions plus per-program totals.
type Reductions struct {
	MinByLine map[string]float64
	MaxByLine map[string]float64
	ByProgram map[string]ProgramReduction

	// TotalReductions sums the max-track reduction over every
	// (program, line) match; for fixed programs and invoiced lines the
	// tracks coincide.
	TotalReductions float64
}

// ComputeReductions matches every non-rejected program against the given
// projections and apportions its reduction value.
//
// A program matches a line when the program is linked to the line's work
// item and its category scope covers the line (empty scope is universal).
// Percentage programs reduce each matching line independently, per track.
// Fixed programs split their value equally across all matching lines; with
// zero matches they contribute nothing. Lines matched by several programs
// accumulate reductions additively; flooring at zero happens later, in
// ApplyReductions.
func ComputeReductions(programs []core.SubsidyProgram, links []core.WorkItemSubsidyLink, projections []core.LineProjection) Reductions {
	linked := make(map[string]map[string]bool, len(programs))
	for _, l := range links {
		m, ok := linked[l.SubsidyProgramID]
		if !ok {
			m = make(map[string]bool)
			linked[l.SubsidyProgramID] = m
		}
		m[l.WorkItemID] = true
	}

	r := Reductions{
		MinByLine: make(map[string]float64),
		MaxByLine: make(map[string]float64),
		ByProgram: make(map[string]ProgramReduction, len(programs)),
	}

	for _, program := range programs {
		if program.Rejected() {
			continue
		}

		var matches []core.LineProjection
		for _, p := range projections {
			if !linked[program.ID][p.WorkItemID] {
				continue
			}
			if !program.AppliesToCategory(p.CategoryID) {
				continue
			}
			matches = append(matches, p)
		}

		pr := ProgramReduction{ProgramID: program.ID, MatchCount: len(matches)}
		if len(matches) > 0 {
			switch program.ReductionType {
			case core.ReductionPercentage:
				rate := program.ReductionValue / 100
				for _, m := range matches {
					minRed := m.MinPlanned * rate
					maxRed := m.MaxPlanned * rate
					r.MinByLine[m.BudgetLineID] += minRed
					r.MaxByLine[m.BudgetLineID] += maxRed
					pr.MinTotal += minRed
					pr.MaxTotal += maxRed
				}
			case core.ReductionFixed:
				share := program.ReductionValue / float64(len(matches))
				for _, m := range matches {
					r.MinByLine[m.BudgetLineID] += share
					r.MaxByLine[m.BudgetLineID] += share
					pr.MinTotal += share
					pr.MaxTotal += share
				}
			}
		}

		r.ByProgram[program.ID] = pr
		r.TotalReductions += pr.MaxTotal
	}

	return r
}

// ApplyReductions returns the projections with their accumulated subsidy
// reductions subtracted from the planned and projected ranges, floored at
// zero. Actual-cost figures are never reduced: subsidies lower what the
// project is expected to cost, not what was already paid.
func ApplyReductions(projections []core.LineProjection, r Reductions) []core.LineProjection {
	adjusted := make([]core.LineProjection, len(projections))
	for i, p := range projections {
		p.MinPlanned = floorZero(p.MinPlanned - r.MinByLine[p.BudgetLineID])
		p.MaxPlanned = floorZero(p.MaxPlanned - r.MaxByLine[p.BudgetLineID])
		p.ProjectedMin = p.MinPlanned
		p.ProjectedMax = p.MaxPlanned
		adjusted[i] = p
	}
	return adjusted
}

func floorZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
