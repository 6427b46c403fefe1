package core

// LineProjection is the per-line output of the cost projector: the planned
// range, the projected range after blending with invoices, and the actual
// cost figures. Once any invoice exists against the line, the planned and
// projected ranges collapse to the actual cost.
type LineProjection struct {
	BudgetLineID string `json:"budgetLineId"`
	WorkItemID   string `json:"workItemId"`
	CategoryID   string `json:"categoryId,omitempty"`
	SourceID     string `json:"sourceId,omitempty"`
	HasInvoices  bool   `json:"hasInvoices"`

	MinPlanned        float64 `json:"minPlanned"`
	MaxPlanned        float64 `json:"maxPlanned"`
	ProjectedMin      float64 `json:"projectedMin"`
	ProjectedMax      float64 `json:"projectedMax"`
	ActualCost        float64 `json:"actualCost"`
	ActualCostPaid    float64 `json:"actualCostPaid"`
	ActualCostClaimed float64 `json:"actualCostClaimed"`
}

// CategorySummary is one category row of the overview, summed over the
// subsidy-adjusted projections of the lines in that category. Categories
// with no lines still appear, all-zero.
type CategorySummary struct {
	CategoryID      string `json:"categoryId"`
	Name            string `json:"name"`
	Color           string `json:"color,omitempty"`
	BudgetLineCount int    `json:"budgetLineCount"`

	MinPlanned        float64 `json:"minPlanned"`
	MaxPlanned        float64 `json:"maxPlanned"`
	ProjectedMin      float64 `json:"projectedMin"`
	ProjectedMax      float64 `json:"projectedMax"`
	ActualCost        float64 `json:"actualCost"`
	ActualCostPaid    float64 `json:"actualCostPaid"`
	ActualCostClaimed float64 `json:"actualCostClaimed"`
}

// BudgetSourceSummary reports how much of a funding source has been used,
// claimed and is still available. ActualAvailableAmount is not clamped and
// goes negative when the source is over-claimed.
type BudgetSourceSummary struct {
	SourceID              string       `json:"sourceId"`
	Name                  string       `json:"name"`
	Status                SourceStatus `json:"status"`
	TotalAmount           float64      `json:"totalAmount"`
	UsedAmount            float64      `json:"usedAmount"`
	AvailableAmount       float64      `json:"availableAmount"`
	ClaimedAmount         float64      `json:"claimedAmount"`
	UnclaimedAmount       float64      `json:"unclaimedAmount"`
	ActualAvailableAmount float64      `json:"actualAvailableAmount"`
}

// SubsidySummary aggregates subsidy effects across the whole project.
type SubsidySummary struct {
	TotalReductions    float64 `json:"totalReductions"`
	ActiveSubsidyCount int     `json:"activeSubsidyCount"`
}

// BudgetOverview is the project-wide report. Planned and projected totals
// are subsidy-adjusted; the actual-cost totals are not, since subsidies
// never change recorded spend. Every "remaining" figure may be negative.
type BudgetOverview struct {
	AvailableFunds float64 `json:"availableFunds"`
	SourceCount    int     `json:"sourceCount"`

	MinPlanned        float64 `json:"minPlanned"`
	MaxPlanned        float64 `json:"maxPlanned"`
	ProjectedMin      float64 `json:"projectedMin"`
	ProjectedMax      float64 `json:"projectedMax"`
	ActualCost        float64 `json:"actualCost"`
	ActualCostPaid    float64 `json:"actualCostPaid"`
	ActualCostClaimed float64 `json:"actualCostClaimed"`

	RemainingVsMinPlanned        float64 `json:"remainingVsMinPlanned"`
	RemainingVsMaxPlanned        float64 `json:"remainingVsMaxPlanned"`
	RemainingVsProjectedMin      float64 `json:"remainingVsProjectedMin"`
	RemainingVsProjectedMax      float64 `json:"remainingVsProjectedMax"`
	RemainingVsActualCost        float64 `json:"remainingVsActualCost"`
	RemainingVsActualCostPaid    float64 `json:"remainingVsActualCostPaid"`
	RemainingVsActualCostClaimed float64 `json:"remainingVsActualCostClaimed"`

	SubsidySummary    SubsidySummary    `json:"subsidySummary"`
	CategorySummaries []CategorySummary `json:"categorySummaries"`
}

// SubsidyPayback is the benefit range one linked program yields for a
// single work item.
type SubsidyPayback struct {
	SubsidyProgramID string        `json:"subsidyProgramId"`
	Name             string        `json:"name"`
	ReductionType    ReductionType `json:"reductionType"`
	ReductionValue   float64       `json:"reductionValue"`
	MinPayback       float64       `json:"minPayback"`
	MaxPayback       float64       `json:"maxPayback"`
}

// SubsidyPaybackReport sums the payback ranges of every non-rejected
// program linked to one work item.
type SubsidyPaybackReport struct {
	WorkItemID      string           `json:"workItemId"`
	MinTotalPayback float64          `json:"minTotalPayback"`
	MaxTotalPayback float64          `json:"maxTotalPayback"`
	Subsidies       []SubsidyPayback `json:"subsidies"`
}
