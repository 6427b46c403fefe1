package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// Confidence levels for budget line estimates, from roughest to exact.
	OwnEstimate          ConfidenceLevel = "own_estimate"
	ProfessionalEstimate ConfidenceLevel = "professional_estimate"
	Quote                ConfidenceLevel = "quote"
	InvoiceConfidence    ConfidenceLevel = "invoice"
)

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceClaimed InvoiceStatus = "claimed"
)

const (
	SourceActive    SourceStatus = "active"
	SourceExhausted SourceStatus = "exhausted"
	SourceClosed    SourceStatus = "closed"
)

const (
	ReductionPercentage ReductionType = "percentage"
	ReductionFixed      ReductionType = "fixed"
)

const (
	SubsidyEligible SubsidyStatus = "eligible"
	SubsidyApplied  SubsidyStatus = "applied"
	SubsidyApproved SubsidyStatus = "approved"
	SubsidyReceived SubsidyStatus = "received"
	SubsidyRejected SubsidyStatus = "rejected"
)

type (
	ConfidenceLevel string
	InvoiceStatus   string
	SourceStatus    string
	ReductionType   string
	SubsidyStatus   string

	// WorkItem is one unit of renovation work owning budget lines.
	WorkItem struct {
		ID          string
		Name        string
		Description string
	}

	// BudgetLine is a planned cost entry on a work item. CategoryID and
	// SourceID are weak references; empty means unset, and a dangling id
	// simply excludes the line from that dimension's rollups.
	BudgetLine struct {
		ID            string
		WorkItemID    string
		Description   string
		PlannedAmount float64
		Confidence    ConfidenceLevel
		CategoryID    string
		SourceID      string
	}

	// Invoice is a recorded cost against a budget line. BudgetLineID may
	// be empty for unlinked invoices, which no computation counts.
	Invoice struct {
		ID           string
		BudgetLineID string
		VendorID     string
		Amount       float64
		Status       InvoiceStatus
		Date         time.Time
	}

	BudgetCategory struct {
		ID        string
		Name      string
		Color     string
		SortOrder int
	}

	BudgetSource struct {
		ID          string
		Name        string
		TotalAmount float64
		Status      SourceStatus
	}

	// SubsidyProgram reduces the planned cost of the budget lines of the
	// work items it is linked to. An empty ApplicableCategories set means
	// the program is universal and matches every category.
	SubsidyProgram struct {
		ID                   string
		Name                 string
		ReductionType        ReductionType
		ReductionValue       float64
		Status               SubsidyStatus
		ApplicableCategories []string
	}

	// WorkItemSubsidyLink joins a work item to a subsidy program.
	WorkItemSubsidyLink struct {
		WorkItemID       string
		SubsidyProgramID string
	}

	// Snapshot is one consistent point-in-time read of everything the
	// budget engine aggregates over.
	Snapshot struct {
		WorkItems  []WorkItem
		Lines      []BudgetLine
		Invoices   []Invoice
		Categories []BudgetCategory
		Sources    []BudgetSource
		Programs   []SubsidyProgram
		Links      []WorkItemSubsidyLink
	}
)

var (
	ErrNotFound          = errors.New("not found")
	ErrSourceInUse       = errors.New("budget source is referenced by budget lines")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyName         = errors.New("empty name")
	ErrInvalidConfidence = errors.New("invalid confidence level")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidReduction  = errors.New("invalid reduction")
	ErrMissingWorkItem   = errors.New("missing work item reference")
)

// Margin returns the symmetric ± fraction applied to a planned amount to
// derive its min/max range. Unknown levels fall back to the widest margin.
func (c ConfidenceLevel) Margin() float64 {
	switch c {
	case OwnEstimate:
		return 0.20
	case ProfessionalEstimate:
		return 0.10
	case Quote:
		return 0.05
	case InvoiceConfidence:
		return 0.0
	default:
		return 0.20
	}
}

func (c ConfidenceLevel) Valid() bool {
	switch c {
	case OwnEstimate, ProfessionalEstimate, Quote, InvoiceConfidence:
		return true
	}
	return false
}

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePending, InvoicePaid, InvoiceClaimed:
		return true
	}
	return false
}

func (s SourceStatus) Valid() bool {
	switch s {
	case SourceActive, SourceExhausted, SourceClosed:
		return true
	}
	return false
}

func (s SubsidyStatus) Valid() bool {
	switch s {
	case SubsidyEligible, SubsidyApplied, SubsidyApproved, SubsidyReceived, SubsidyRejected:
		return true
	}
	return false
}

func (l BudgetLine) Validate() error {
	if strings.TrimSpace(l.WorkItemID) == "" {
		return ErrMissingWorkItem
	}
	if l.PlannedAmount < 0 {
		return ErrInvalidAmount
	}
	if !l.Confidence.Valid() {
		return ErrInvalidConfidence
	}
	return nil
}

func (i Invoice) Validate() error {
	if i.Amount < 0 {
		return ErrInvalidAmount
	}
	if !i.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (s BudgetSource) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if s.TotalAmount <= 0 {
		return ErrInvalidAmount
	}
	if !s.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (p SubsidyProgram) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	switch p.ReductionType {
	case ReductionPercentage:
		if p.ReductionValue < 0 || p.ReductionValue > 100 {
			return ErrInvalidReduction
		}
	case ReductionFixed:
		if p.ReductionValue < 0 {
			return ErrInvalidReduction
		}
	default:
		return ErrInvalidReduction
	}
	return nil
}

// Rejected reports whether the program is excluded from every reduction
// and payback computation.
func (p SubsidyProgram) Rejected() bool {
	return p.Status == SubsidyRejected
}

// AppliesToCategory reports whether the program's category scope covers a
// line with the given category id. An empty scope is universal.
func (p SubsidyProgram) AppliesToCategory(categoryID string) bool {
	if len(p.ApplicableCategories) == 0 {
		return true
	}
	for _, id := range p.ApplicableCategories {
		if id == categoryID {
			return true
		}
	}
	return false
}
