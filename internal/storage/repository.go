package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"cantiere/internal/core"
	"cantiere/internal/log"
)

// SQLiteRepository persists the budget graph and serves the engine's
// consistent snapshot reads. Row ids come from an injected generator,
// UUIDs by default; the engine itself never creates ids.
type SQLiteRepository struct {
	db    *sql.DB
	newID func() string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:    db,
		newID: uuid.NewString,
	}, nil
}

// WithIDGenerator replaces the id generator. Tests inject deterministic
// sequences here.
func (r *SQLiteRepository) WithIDGenerator(gen func() string) *SQLiteRepository {
	r.newID = gen
	return r
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Snapshot implements services.SnapshotReader. All tables are read inside
// one read-only transaction so concurrent writes cannot produce a report
// whose dimensions disagree.
func (r *SQLiteRepository) Snapshot(ctx context.Context) (*core.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	snap := &core.Snapshot{}

	if snap.WorkItems, err = readWorkItems(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Categories, err = readCategories(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Sources, err = readSources(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Lines, err = readBudgetLines(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Invoices, err = readInvoices(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Programs, err = readPrograms(ctx, tx); err != nil {
		return nil, err
	}
	if snap.Links, err = readLinks(ctx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot transaction: %w", err)
	}
	return snap, nil
}

func (r *SQLiteRepository) CreateWorkItem(ctx context.Context, wi core.WorkItem) (core.WorkItem, error) {
	if wi.ID == "" {
		wi.ID = r.newID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO work_items (id, name, description) VALUES (?, ?, ?)`,
		wi.ID, wi.Name, wi.Description)
	if err != nil {
		return core.WorkItem{}, fmt.Errorf("create work item: %w", err)
	}
	return wi, nil
}

func (r *SQLiteRepository) CreateBudgetLine(ctx context.Context, line core.BudgetLine) (core.BudgetLine, error) {
	if err := line.Validate(); err != nil {
		return core.BudgetLine{}, fmt.Errorf("validate budget line: %w", err)
	}
	if line.ID == "" {
		line.ID = r.newID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_lines (id, work_item_id, description, planned_amount, confidence_level, category_id, source_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		line.ID, line.WorkItemID, line.Description, line.PlannedAmount,
		string(line.Confidence), nullable(line.CategoryID), nullable(line.SourceID))
	if err != nil {
		return core.BudgetLine{}, fmt.Errorf("create budget line: %w", err)
	}

	slog.InfoContext(ctx, "Budget line saved",
		log.FieldBudgetLine, line.ID,
		log.FieldWorkItemID, line.WorkItemID,
		log.FieldAmount, line.PlannedAmount,
		"confidence", string(line.Confidence))
	return line, nil
}

func (r *SQLiteRepository) CreateInvoice(ctx context.Context, inv core.Invoice) (core.Invoice, error) {
	if err := inv.Validate(); err != nil {
		return core.Invoice{}, fmt.Errorf("validate invoice: %w", err)
	}
	if inv.ID == "" {
		inv.ID = r.newID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (id, budget_line_id, vendor_id, amount, status, invoice_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.ID, nullable(inv.BudgetLineID), nullable(inv.VendorID), inv.Amount, string(inv.Status), inv.Date)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}
	return inv, nil
}

func (r *SQLiteRepository) CreateBudgetSource(ctx context.Context, src core.BudgetSource) (core.BudgetSource, error) {
	if err := src.Validate(); err != nil {
		return core.BudgetSource{}, fmt.Errorf("validate budget source: %w", err)
	}
	if src.ID == "" {
		src.ID = r.newID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_sources (id, name, total_amount, status) VALUES (?, ?, ?, ?)`,
		src.ID, src.Name, src.TotalAmount, string(src.Status))
	if err != nil {
		return core.BudgetSource{}, fmt.Errorf("create budget source: %w", err)
	}
	return src, nil
}

func (r *SQLiteRepository) CreateSubsidyProgram(ctx context.Context, p core.SubsidyProgram) (core.SubsidyProgram, error) {
	if err := p.Validate(); err != nil {
		return core.SubsidyProgram{}, fmt.Errorf("validate subsidy program: %w", err)
	}
	if p.ID == "" {
		p.ID = r.newID()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.SubsidyProgram{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO subsidy_programs (id, name, reduction_type, reduction_value, application_status)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, string(p.ReductionType), p.ReductionValue, string(p.Status))
	if err != nil {
		return core.SubsidyProgram{}, fmt.Errorf("create subsidy program: %w", err)
	}

	for _, categoryID := range p.ApplicableCategories {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO subsidy_program_categories (subsidy_program_id, category_id) VALUES (?, ?)`,
			p.ID, categoryID)
		if err != nil {
			return core.SubsidyProgram{}, fmt.Errorf("link subsidy category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.SubsidyProgram{}, fmt.Errorf("commit subsidy program: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) LinkWorkItemSubsidy(ctx context.Context, workItemID, programID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO work_item_subsidies (work_item_id, subsidy_program_id) VALUES (?, ?)`,
		workItemID, programID)
	if err != nil {
		return fmt.Errorf("link work item subsidy: %w", err)
	}
	return nil
}

// CountBudgetLinesBySource reports how many budget lines reference a
// source. The CRUD layer uses it to refuse deleting a source in use.
func (r *SQLiteRepository) CountBudgetLinesBySource(ctx context.Context, sourceID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM budget_lines WHERE source_id = ?`, sourceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count budget lines by source: %w", err)
	}
	return count, nil
}

// DeleteBudgetSource removes a source, failing with core.ErrSourceInUse
// when budget lines still reference it and core.ErrNotFound when absent.
// The in-use check and the delete run in one transaction.
func (r *SQLiteRepository) DeleteBudgetSource(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete budget source: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM budget_lines WHERE source_id = ?`, id).Scan(&count)
	if err != nil {
		return fmt.Errorf("count budget lines by source: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("budget source %q has %d budget lines: %w", id, count, core.ErrSourceInUse)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM budget_sources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget source: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget source: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("budget source %q: %w", id, core.ErrNotFound)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete budget source: %w", err)
	}

	slog.InfoContext(ctx, "Budget source deleted", log.FieldSourceID, id)
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
