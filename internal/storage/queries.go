package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cantiere/internal/core"
)

// Row readers used by Snapshot. Each reads a whole table within the
// caller's transaction; result order follows insertion (rowid) so repeated
// snapshots of unchanged data are identical.

func readWorkItems(ctx context.Context, tx *sql.Tx) ([]core.WorkItem, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name, description FROM work_items ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("read work items: %w", err)
	}
	defer rows.Close()

	var items []core.WorkItem
	for rows.Next() {
		var wi core.WorkItem
		if err := rows.Scan(&wi.ID, &wi.Name, &wi.Description); err != nil {
			return nil, fmt.Errorf("scan work item: %w", err)
		}
		items = append(items, wi)
	}
	return items, rows.Err()
}

func readCategories(ctx context.Context, tx *sql.Tx) ([]core.BudgetCategory, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name, color, sort_order FROM budget_categories ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("read budget categories: %w", err)
	}
	defer rows.Close()

	var categories []core.BudgetCategory
	for rows.Next() {
		var c core.BudgetCategory
		var color sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &color, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("scan budget category: %w", err)
		}
		c.Color = color.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func readSources(ctx context.Context, tx *sql.Tx) ([]core.BudgetSource, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, name, total_amount, status FROM budget_sources ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("read budget sources: %w", err)
	}
	defer rows.Close()

	var sources []core.BudgetSource
	for rows.Next() {
		var s core.BudgetSource
		var status string
		if err := rows.Scan(&s.ID, &s.Name, &s.TotalAmount, &status); err != nil {
			return nil, fmt.Errorf("scan budget source: %w", err)
		}
		s.Status = core.SourceStatus(status)
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func readBudgetLines(ctx context.Context, tx *sql.Tx) ([]core.BudgetLine, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, work_item_id, description, planned_amount, confidence_level, category_id, source_id
		 FROM budget_lines ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("read budget lines: %w", err)
	}
	defer rows.Close()

	var lines []core.BudgetLine
	for rows.Next() {
		var l core.BudgetLine
		var confidence string
		var categoryID, sourceID sql.NullString
		if err := rows.Scan(&l.ID, &l.WorkItemID, &l.Description, &l.PlannedAmount, &confidence, &categoryID, &sourceID); err != nil {
			return nil, fmt.Errorf("scan budget line: %w", err)
		}
		l.Confidence = core.ConfidenceLevel(confidence)
		l.CategoryID = categoryID.String
		l.SourceID = sourceID.String
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func readInvoices(ctx context.Context, tx *sql.Tx) ([]core.Invoice, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, budget_line_id, vendor_id, amount, status, invoice_date FROM invoices ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("read invoices: %w", err)
	}
	defer rows.Close()

	var invoices []core.Invoice
	for rows.Next() {
		var inv core.Invoice
		var status string
		var budgetLineID, vendorID sql.NullString
		var date sql.NullTime
		if err := rows.Scan(&inv.ID, &budgetLineID, &vendorID, &inv.Amount, &status, &date); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		inv.BudgetLineID = budgetLineID.String
		inv.VendorID = vendorID.String
		inv.Status = core.InvoiceStatus(status)
		if date.Valid {
			inv.Date = date.Time
		} else {
			inv.Date = time.Time{}
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func readPrograms(ctx context.Context, tx *sql.Tx) ([]core.SubsidyProgram, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, name, reduction_type, reduction_value, application_status FROM subsidy_programs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("read subsidy programs: %w", err)
	}

	var programs []core.SubsidyProgram
	index := make(map[string]int)
	for rows.Next() {
		var p core.SubsidyProgram
		var rtype, status string
		if err := rows.Scan(&p.ID, &p.Name, &rtype, &p.ReductionValue, &status); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan subsidy program: %w", err)
		}
		p.ReductionType = core.ReductionType(rtype)
		p.Status = core.SubsidyStatus(status)
		index[p.ID] = len(programs)
		programs = append(programs, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	catRows, err := tx.QueryContext(ctx,
		`SELECT subsidy_program_id, category_id FROM subsidy_program_categories ORDER BY subsidy_program_id, category_id`)
	if err != nil {
		return nil, fmt.Errorf("read subsidy program categories: %w", err)
	}
	defer catRows.Close()

	for catRows.Next() {
		var programID, categoryID string
		if err := catRows.Scan(&programID, &categoryID); err != nil {
			return nil, fmt.Errorf("scan subsidy program category: %w", err)
		}
		if i, ok := index[programID]; ok {
			programs[i].ApplicableCategories = append(programs[i].ApplicableCategories, categoryID)
		}
	}
	return programs, catRows.Err()
}

func readLinks(ctx context.Context, tx *sql.Tx) ([]core.WorkItemSubsidyLink, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT work_item_id, subsidy_program_id FROM work_item_subsidies ORDER BY work_item_id, subsidy_program_id`)
	if err != nil {
		return nil, fmt.Errorf("read work item subsidies: %w", err)
	}
	defer rows.Close()

	var links []core.WorkItemSubsidyLink
	for rows.Next() {
		var l core.WorkItemSubsidyLink
		if err := rows.Scan(&l.WorkItemID, &l.SubsidyProgramID); err != nil {
			return nil, fmt.Errorf("scan work item subsidy: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
