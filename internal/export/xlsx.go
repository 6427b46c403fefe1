package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"cantiere/internal/core"
)

// BuildOverviewXLSX renders the budget overview as a workbook with a
// summary sheet plus per-category and per-source tables.
func BuildOverviewXLSX(overview core.BudgetOverview, sources []core.BudgetSourceSummary) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "overview"
	categorySheet := "categories"
	sourceSheet := "sources"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(categorySheet)
	f.NewSheet(sourceSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Budget Overview")
	_ = f.SetCellValue(summarySheet, "A2", "Generated")
	_ = f.SetCellValue(summarySheet, "B2", time.Now().Format(time.RFC3339))

	summaryRows := []struct {
		label string
		value any
	}{
		{"Available Funds", overview.AvailableFunds},
		{"Active Sources", overview.SourceCount},
		{"Total Planned (min)", overview.MinPlanned},
		{"Total Planned (max)", overview.MaxPlanned},
		{"Total Projected (min)", overview.ProjectedMin},
		{"Total Projected (max)", overview.ProjectedMax},
		{"Actual Cost", overview.ActualCost},
		{"Actual Cost Paid", overview.ActualCostPaid},
		{"Actual Cost Claimed", overview.ActualCostClaimed},
		{"Remaining (min planned)", overview.RemainingVsMinPlanned},
		{"Remaining (max planned)", overview.RemainingVsMaxPlanned},
		{"Remaining (projected min)", overview.RemainingVsProjectedMin},
		{"Remaining (projected max)", overview.RemainingVsProjectedMax},
		{"Remaining after actual", overview.RemainingVsActualCost},
		{"Remaining after paid", overview.RemainingVsActualCostPaid},
		{"Remaining after claimed", overview.RemainingVsActualCostClaimed},
		{"Subsidy Reductions", overview.SubsidySummary.TotalReductions},
		{"Active Subsidies", overview.SubsidySummary.ActiveSubsidyCount},
	}
	for i, row := range summaryRows {
		r := i + 4
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", r), row.label)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", r), row.value)
	}

	categoryHeaders := []string{
		"Category", "Lines", "Min Planned", "Max Planned",
		"Projected Min", "Projected Max", "Actual", "Paid", "Claimed",
	}
	for i, h := range categoryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(categorySheet, cell, h)
	}
	for i, cat := range overview.CategorySummaries {
		row := i + 2
		_ = f.SetCellValue(categorySheet, fmt.Sprintf("A%d", row), cat.Name)
		_ = f.SetCellValue(categorySheet, fmt.Sprintf("B%d", row), cat.BudgetLineCount)
		_ = f.SetCellValue(categorySheet, fmt.Sprintf("C%d", row), cat.MinPlanned)
		_ = f.SetCellValue(categorySheet, fmt.Sprintf("D%d", row), cat.MaxPlanned)
		_ = f.SetCellValue(categorySheet, fmt.Sprintf("E%d", row), cat.ProjectedMin)
		_ = f.SetCellValue(categorySheet, fmt.Sprintf("F%d", row), cat.ProjectedMax)
		_ = f.SetCellValue(categorySheet, fmt.Sprintf("G%d", row), cat.ActualCost)
		_ = f.SetCellValue(categorySheet, fmt.Sprintf("H%d", row), cat.ActualCostPaid)
		_ = f.SetCellValue(categorySheet, fmt.Sprintf("I%d", row), cat.ActualCostClaimed)
	}

	sourceHeaders := []string{
		"Source", "Status", "Total", "Used", "Available",
		"Claimed", "Unclaimed", "Actual Available",
	}
	for i, h := range sourceHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sourceSheet, cell, h)
	}
	for i, src := range sources {
		row := i + 2
		_ = f.SetCellValue(sourceSheet, fmt.Sprintf("A%d", row), src.Name)
		_ = f.SetCellValue(sourceSheet, fmt.Sprintf("B%d", row), string(src.Status))
		_ = f.SetCellValue(sourceSheet, fmt.Sprintf("C%d", row), src.TotalAmount)
		_ = f.SetCellValue(sourceSheet, fmt.Sprintf("D%d", row), src.UsedAmount)
		_ = f.SetCellValue(sourceSheet, fmt.Sprintf("E%d", row), src.AvailableAmount)
		_ = f.SetCellValue(sourceSheet, fmt.Sprintf("F%d", row), src.ClaimedAmount)
		_ = f.SetCellValue(sourceSheet, fmt.Sprintf("G%d", row), src.UnclaimedAmount)
		_ = f.SetCellValue(sourceSheet, fmt.Sprintf("H%d", row), src.ActualAvailableAmount)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
