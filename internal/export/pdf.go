package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"cantiere/internal/core"
)

// BuildOverviewPDF renders the budget overview as a single-document PDF:
// a summary block followed by the category and source tables.
func BuildOverviewPDF(overview core.BudgetOverview, sources []core.BudgetSourceSummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Budget Overview")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().Format(time.RFC3339)))
	pdf.Ln(8)

	summaryRows := []struct {
		label string
		value string
	}{
		{"Available Funds", fmt.Sprintf("%.2f", overview.AvailableFunds)},
		{"Active Sources", fmt.Sprintf("%d", overview.SourceCount)},
		{"Planned (min / max)", fmt.Sprintf("%.2f / %.2f", overview.MinPlanned, overview.MaxPlanned)},
		{"Projected (min / max)", fmt.Sprintf("%.2f / %.2f", overview.ProjectedMin, overview.ProjectedMax)},
		{"Actual Cost", fmt.Sprintf("%.2f", overview.ActualCost)},
		{"Actual Cost Paid", fmt.Sprintf("%.2f", overview.ActualCostPaid)},
		{"Actual Cost Claimed", fmt.Sprintf("%.2f", overview.ActualCostClaimed)},
		{"Remaining (projected min / max)", fmt.Sprintf("%.2f / %.2f", overview.RemainingVsProjectedMin, overview.RemainingVsProjectedMax)},
		{"Remaining after actual", fmt.Sprintf("%.2f", overview.RemainingVsActualCost)},
		{"Subsidy Reductions", fmt.Sprintf("%.2f", overview.SubsidySummary.TotalReductions)},
		{"Active Subsidies", fmt.Sprintf("%d", overview.SubsidySummary.ActiveSubsidyCount)},
	}
	for _, row := range summaryRows {
		pdf.CellFormat(70, 6, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row.value, "", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Categories")
	pdf.Ln(7)
	pdf.CellFormat(50, 6, "Category", "1", 0, "C", false, 0, "")
	pdf.CellFormat(15, 6, "Lines", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Min", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Max", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Actual", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Paid", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, cat := range overview.CategorySummaries {
		pdf.CellFormat(50, 6, cat.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(15, 6, fmt.Sprintf("%d", cat.BudgetLineCount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", cat.ProjectedMin), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", cat.ProjectedMax), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", cat.ActualCost), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", cat.ActualCostPaid), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 6, "Funding Sources")
	pdf.Ln(7)
	pdf.CellFormat(50, 6, "Source", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Status", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Total", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Used", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Available", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Claimed", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, src := range sources {
		pdf.CellFormat(50, 6, src.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, string(src.Status), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", src.TotalAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", src.UsedAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", src.AvailableAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", src.ClaimedAmount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
