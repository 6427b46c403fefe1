package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"cantiere/internal/core"
	"cantiere/internal/log"
)

// GetWorkItemSubsidyPayback computes the monetary benefit range of every
// non-rejected subsidy program linked to one work item. Fails with
// core.ErrNotFound when the work item does not exist.
func (s *ReportService) GetWorkItemSubsidyPayback(ctx context.Context, workItemID string) (core.SubsidyPaybackReport, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return core.SubsidyPaybackReport{}, fmt.Errorf("read budget snapshot: %w", err)
	}
	report, err := BuildWorkItemPayback(snap, workItemID)
	if err != nil {
		return core.SubsidyPaybackReport{}, err
	}

	slog.DebugContext(ctx, "Payback report assembled",
		log.FieldOperation, log.OpPayback,
		log.FieldWorkItemID, workItemID,
		"subsidies", len(report.Subsidies))

	return report, nil
}

// BuildWorkItemPayback assembles the payback report from one snapshot.
// Reductions are recomputed with the same matching and apportionment rules
// as the overview, but scoped to this work item: a fixed program's value
// splits only across this work item's matching lines.
func BuildWorkItemPayback(snap *core.Snapshot, workItemID string) (core.SubsidyPaybackReport, error) {
	found := false
	for _, wi := range snap.WorkItems {
		if wi.ID == workItemID {
			found = true
			break
		}
	}
	if !found {
		return core.SubsidyPaybackReport{}, fmt.Errorf("work item %q: %w", workItemID, core.ErrNotFound)
	}

	var lines []core.BudgetLine
	for _, line := range snap.Lines {
		if line.WorkItemID == workItemID {
			lines = append(lines, line)
		}
	}
	projections := ProjectLines(lines, snap.Invoices)

	var links []core.WorkItemSubsidyLink
	linkedPrograms := make(map[string]bool)
	for _, link := range snap.Links {
		if link.WorkItemID == workItemID {
			links = append(links, link)
			linkedPrograms[link.SubsidyProgramID] = true
		}
	}

	var programs []core.SubsidyProgram
	for _, program := range snap.Programs {
		if linkedPrograms[program.ID] && !program.Rejected() {
			programs = append(programs, program)
		}
	}
	sort.Slice(programs, func(i, j int) bool { return programs[i].Name < programs[j].Name })

	reductions := ComputeReductions(programs, links, projections)

	report := core.SubsidyPaybackReport{
		WorkItemID: workItemID,
		Subsidies:  make([]core.SubsidyPayback, 0, len(programs)),
	}
	for _, program := range programs {
		pr := reductions.ByProgram[program.ID]
		report.Subsidies = append(report.Subsidies, core.SubsidyPayback{
			SubsidyProgramID: program.ID,
			Name:             program.Name,
			ReductionType:    program.ReductionType,
			ReductionValue:   program.ReductionValue,
			MinPayback:       pr.MinTotal,
			MaxPayback:       pr.MaxTotal,
		})
		report.MinTotalPayback += pr.MinTotal
		report.MaxTotalPayback += pr.MaxTotal
	}
	return report, nil
}
