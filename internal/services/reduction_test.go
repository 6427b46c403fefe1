package services

import (
	"testing"

	"cantiere/internal/core"
)

func link(workItemID, programID string) core.WorkItemSubsidyLink {
	return core.WorkItemSubsidyLink{WorkItemID: workItemID, SubsidyProgramID: programID}
}

func TestComputeReductions_FixedSingleMatch(t *testing.T) {
	// Scenario: one line of 8000, one approved fixed subsidy of 2000.
	lines := []core.BudgetLine{{ID: "bl-1", WorkItemID: "wi-1", PlannedAmount: 8000, Confidence: core.InvoiceConfidence, CategoryID: "cat-1"}}
	programs := []core.SubsidyProgram{{
		ID: "sub-1", Name: "Insulation grant",
		ReductionType: core.ReductionFixed, ReductionValue: 2000,
		Status: core.SubsidyApproved, ApplicableCategories: []string{"cat-1"},
	}}
	links := []core.WorkItemSubsidyLink{link("wi-1", "sub-1")}

	projections := ProjectLines(lines, nil)
	r := ComputeReductions(programs, links, projections)
	adjusted := ApplyReductions(projections, r)

	if !almostEqual(adjusted[0].MinPlanned, 6000) || !almostEqual(adjusted[0].MaxPlanned, 6000) {
		t.Errorf("adjusted range = [%v, %v], want [6000, 6000]", adjusted[0].MinPlanned, adjusted[0].MaxPlanned)
	}
	if !almostEqual(r.TotalReductions, 2000) {
		t.Errorf("TotalReductions = %v, want 2000", r.TotalReductions)
	}
}

func TestComputeReductions_FloorAtZero(t *testing.T) {
	// A 10000 fixed subsidy against a 500 line floors at zero.
	lines := []core.BudgetLine{{ID: "bl-1", WorkItemID: "wi-1", PlannedAmount: 500, Confidence: core.InvoiceConfidence}}
	programs := []core.SubsidyProgram{{ID: "sub-1", Name: "Big grant", ReductionType: core.ReductionFixed, ReductionValue: 10000, Status: core.SubsidyReceived}}
	links := []core.WorkItemSubsidyLink{link("wi-1", "sub-1")}

	projections := ProjectLines(lines, nil)
	adjusted := ApplyReductions(projections, ComputeReductions(programs, links, projections))

	if adjusted[0].MinPlanned != 0 || adjusted[0].MaxPlanned != 0 {
		t.Errorf("adjusted range = [%v, %v], want [0, 0]", adjusted[0].MinPlanned, adjusted[0].MaxPlanned)
	}
	if adjusted[0].ProjectedMin != 0 || adjusted[0].ProjectedMax != 0 {
		t.Errorf("projected range must floor at zero too")
	}
}

func TestComputeReductions_FixedSplitsEqually(t *testing.T) {
	// Two matching lines, fixed 3000: each gets 1500.
	lines := []core.BudgetLine{
		{ID: "bl-1", WorkItemID: "wi-1", PlannedAmount: 10000, Confidence: core.InvoiceConfidence, CategoryID: "cat-1"},
		{ID: "bl-2", WorkItemID: "wi-1", PlannedAmount: 5000, Confidence: core.InvoiceConfidence, CategoryID: "cat-1"},
	}
	programs := []core.SubsidyProgram{{ID: "sub-1", Name: "Grant", ReductionType: core.ReductionFixed, ReductionValue: 3000, Status: core.SubsidyApproved}}
	links := []core.WorkItemSubsidyLink{link("wi-1", "sub-1")}

	projections := ProjectLines(lines, nil)
	r := ComputeReductions(programs, links, projections)
	adjusted := ApplyReductions(projections, r)

	if !almostEqual(r.MinByLine["bl-1"], 1500) || !almostEqual(r.MinByLine["bl-2"], 1500) {
		t.Errorf("per-line shares = %v / %v, want 1500 each", r.MinByLine["bl-1"], r.MinByLine["bl-2"])
	}
	sum := adjusted[0].MinPlanned + adjusted[1].MinPlanned
	if !almostEqual(sum, 12000) {
		t.Errorf("summed adjusted min = %v, want 12000", sum)
	}
}

func TestComputeReductions_FixedZeroMatches(t *testing.T) {
	// No matching lines: a fixed program contributes 0, no division error.
	programs := []core.SubsidyProgram{{ID: "sub-1", Name: "Grant", ReductionType: core.ReductionFixed, ReductionValue: 5000, Status: core.SubsidyApproved}}

	r := ComputeReductions(programs, nil, nil)
	if r.TotalReductions != 0 {
		t.Errorf("TotalReductions = %v, want 0", r.TotalReductions)
	}
	if pr := r.ByProgram["sub-1"]; pr.MatchCount != 0 || pr.MinTotal != 0 || pr.MaxTotal != 0 {
		t.Errorf("program reduction = %+v, want all zero", pr)
	}
}

func TestComputeReductions_PercentagePerTrack(t *testing.T) {
	// A 10 percent program over a non-collapsed line reduces each track
	// against its own pre-reduction value.
	lines := []core.BudgetLine{{ID: "bl-1", WorkItemID: "wi-1", PlannedAmount: 10000, Confidence: core.OwnEstimate}}
	programs := []core.SubsidyProgram{{ID: "sub-1", Name: "Rebate", ReductionType: core.ReductionPercentage, ReductionValue: 10, Status: core.SubsidyApplied}}
	links := []core.WorkItemSubsidyLink{link("wi-1", "sub-1")}

	projections := ProjectLines(lines, nil) // range [8000, 12000]
	r := ComputeReductions(programs, links, projections)
	adjusted := ApplyReductions(projections, r)

	if !almostEqual(r.MinByLine["bl-1"], 800) || !almostEqual(r.MaxByLine["bl-1"], 1200) {
		t.Errorf("track reductions = %v / %v, want 800 / 1200", r.MinByLine["bl-1"], r.MaxByLine["bl-1"])
	}
	if !almostEqual(adjusted[0].MinPlanned, 7200) || !almostEqual(adjusted[0].MaxPlanned, 10800) {
		t.Errorf("adjusted range = [%v, %v], want [7200, 10800]", adjusted[0].MinPlanned, adjusted[0].MaxPlanned)
	}
	if !almostEqual(r.TotalReductions, 1200) {
		t.Errorf("TotalReductions = %v, want 1200 (max track)", r.TotalReductions)
	}
}

func TestComputeReductions_MatchingRules(t *testing.T) {
	lines := []core.BudgetLine{
		{ID: "bl-1", WorkItemID: "wi-1", PlannedAmount: 1000, Confidence: core.InvoiceConfidence, CategoryID: "cat-1"},
		{ID: "bl-2", WorkItemID: "wi-1", PlannedAmount: 1000, Confidence: core.InvoiceConfidence, CategoryID: "cat-2"},
		{ID: "bl-3", WorkItemID: "wi-2", PlannedAmount: 1000, Confidence: core.InvoiceConfidence, CategoryID: "cat-1"},
		{ID: "bl-4", WorkItemID: "wi-1", PlannedAmount: 1000, Confidence: core.InvoiceConfidence}, // no category
	}
	projections := ProjectLines(lines, nil)

	t.Run("category scope excludes other categories and uncategorized lines", func(t *testing.T) {
		programs := []core.SubsidyProgram{{ID: "sub-1", Name: "Scoped", ReductionType: core.ReductionFixed, ReductionValue: 100, Status: core.SubsidyApproved, ApplicableCategories: []string{"cat-1"}}}
		links := []core.WorkItemSubsidyLink{link("wi-1", "sub-1")}

		r := ComputeReductions(programs, links, projections)
		if pr := r.ByProgram["sub-1"]; pr.MatchCount != 1 {
			t.Errorf("MatchCount = %d, want 1 (only bl-1)", pr.MatchCount)
		}
		if r.MinByLine["bl-2"] != 0 || r.MinByLine["bl-3"] != 0 || r.MinByLine["bl-4"] != 0 {
			t.Error("only bl-1 should be reduced")
		}
	})

	t.Run("universal program matches every line of linked work items", func(t *testing.T) {
		programs := []core.SubsidyProgram{{ID: "sub-1", Name: "Universal", ReductionType: core.ReductionFixed, ReductionValue: 300, Status: core.SubsidyApproved}}
		links := []core.WorkItemSubsidyLink{link("wi-1", "sub-1")}

		r := ComputeReductions(programs, links, projections)
		if pr := r.ByProgram["sub-1"]; pr.MatchCount != 3 {
			t.Errorf("MatchCount = %d, want 3 (wi-1 lines incl. uncategorized)", pr.MatchCount)
		}
		if r.MinByLine["bl-3"] != 0 {
			t.Error("unlinked work item must not be reduced")
		}
		if !almostEqual(r.MinByLine["bl-4"], 100) {
			t.Errorf("uncategorized line share = %v, want 100", r.MinByLine["bl-4"])
		}
	})

	t.Run("rejected programs never match", func(t *testing.T) {
		programs := []core.SubsidyProgram{{ID: "sub-1", Name: "Rejected", ReductionType: core.ReductionFixed, ReductionValue: 100, Status: core.SubsidyRejected}}
		links := []core.WorkItemSubsidyLink{link("wi-1", "sub-1")}

		r := ComputeReductions(programs, links, projections)
		if r.TotalReductions != 0 || len(r.MinByLine) != 0 {
			t.Errorf("rejected program reduced something: %+v", r)
		}
	})

	t.Run("multiple programs accumulate additively", func(t *testing.T) {
		programs := []core.SubsidyProgram{
			{ID: "sub-1", Name: "A", ReductionType: core.ReductionFixed, ReductionValue: 100, Status: core.SubsidyApproved, ApplicableCategories: []string{"cat-1"}},
			{ID: "sub-2", Name: "B", ReductionType: core.ReductionPercentage, ReductionValue: 50, Status: core.SubsidyApproved, ApplicableCategories: []string{"cat-1"}},
		}
		links := []core.WorkItemSubsidyLink{link("wi-1", "sub-1"), link("wi-1", "sub-2")}

		r := ComputeReductions(programs, links, projections)
		if !almostEqual(r.MinByLine["bl-1"], 100+500) {
			t.Errorf("accumulated reduction = %v, want 600", r.MinByLine["bl-1"])
		}
	})
}
