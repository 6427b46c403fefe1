// Package memory holds the budget graph in process memory. It backs local
// development and tests where SQLite is not wanted, and serves the same
// snapshot contract: every read is a copy taken under one lock hold.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"cantiere/internal/core"
)

type Store struct {
	mu    sync.RWMutex
	newID func() string

	workItems  []core.WorkItem
	lines      []core.BudgetLine
	invoices   []core.Invoice
	categories []core.BudgetCategory
	sources    []core.BudgetSource
	programs   []core.SubsidyProgram
	links      []core.WorkItemSubsidyLink
}

// New creates a store pre-seeded with the default category catalog, the
// same rows the SQLite migrations seed.
func New() *Store {
	return &Store{
		newID:      uuid.NewString,
		categories: core.DefaultCategories(),
	}
}

// WithIDGenerator replaces the id generator, mirroring the SQLite
// repository's hook for deterministic test ids.
func (s *Store) WithIDGenerator(gen func() string) *Store {
	s.newID = gen
	return s
}

// Snapshot implements services.SnapshotReader.
func (s *Store) Snapshot(_ context.Context) (*core.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &core.Snapshot{
		WorkItems:  append([]core.WorkItem(nil), s.workItems...),
		Lines:      append([]core.BudgetLine(nil), s.lines...),
		Invoices:   append([]core.Invoice(nil), s.invoices...),
		Categories: append([]core.BudgetCategory(nil), s.categories...),
		Sources:    append([]core.BudgetSource(nil), s.sources...),
		Links:      append([]core.WorkItemSubsidyLink(nil), s.links...),
	}
	snap.Programs = make([]core.SubsidyProgram, len(s.programs))
	for i, p := range s.programs {
		p.ApplicableCategories = append([]string(nil), p.ApplicableCategories...)
		snap.Programs[i] = p
	}
	return snap, nil
}

func (s *Store) CreateWorkItem(_ context.Context, wi core.WorkItem) (core.WorkItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wi.ID == "" {
		wi.ID = s.newID()
	}
	s.workItems = append(s.workItems, wi)
	return wi, nil
}

func (s *Store) CreateBudgetLine(_ context.Context, line core.BudgetLine) (core.BudgetLine, error) {
	if err := line.Validate(); err != nil {
		return core.BudgetLine{}, fmt.Errorf("validate budget line: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if line.ID == "" {
		line.ID = s.newID()
	}
	s.lines = append(s.lines, line)
	return line, nil
}

func (s *Store) CreateInvoice(_ context.Context, inv core.Invoice) (core.Invoice, error) {
	if err := inv.Validate(); err != nil {
		return core.Invoice{}, fmt.Errorf("validate invoice: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.ID == "" {
		inv.ID = s.newID()
	}
	s.invoices = append(s.invoices, inv)
	return inv, nil
}

func (s *Store) CreateBudgetSource(_ context.Context, src core.BudgetSource) (core.BudgetSource, error) {
	if err := src.Validate(); err != nil {
		return core.BudgetSource{}, fmt.Errorf("validate budget source: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if src.ID == "" {
		src.ID = s.newID()
	}
	s.sources = append(s.sources, src)
	return src, nil
}

func (s *Store) CreateSubsidyProgram(_ context.Context, p core.SubsidyProgram) (core.SubsidyProgram, error) {
	if err := p.Validate(); err != nil {
		return core.SubsidyProgram{}, fmt.Errorf("validate subsidy program: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = s.newID()
	}
	p.ApplicableCategories = append([]string(nil), p.ApplicableCategories...)
	s.programs = append(s.programs, p)
	return p, nil
}

func (s *Store) LinkWorkItemSubsidy(_ context.Context, workItemID, programID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.WorkItemID == workItemID && l.SubsidyProgramID == programID {
			return nil
		}
	}
	s.links = append(s.links, core.WorkItemSubsidyLink{WorkItemID: workItemID, SubsidyProgramID: programID})
	return nil
}

func (s *Store) CountBudgetLinesBySource(_ context.Context, sourceID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, l := range s.lines {
		if l.SourceID == sourceID {
			count++
		}
	}
	return count, nil
}

// DeleteBudgetSource holds the write lock across the in-use check and the
// delete, so a concurrent CreateBudgetLine cannot slip in between.
func (s *Store) DeleteBudgetSource(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, l := range s.lines {
		if l.SourceID == id {
			count++
		}
	}
	if count > 0 {
		return fmt.Errorf("budget source %q has %d budget lines: %w", id, count, core.ErrSourceInUse)
	}

	for i, src := range s.sources {
		if src.ID == id {
			s.sources = append(s.sources[:i], s.sources[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("budget source %q: %w", id, core.ErrNotFound)
}
