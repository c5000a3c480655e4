// Package store holds a ledger book in memory and applies realization results to it
// atomically.
package store

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/uFincs/uFincs-sub004/calendar"
	"github.com/uFincs/uFincs-sub004/model"
	"github.com/uFincs/uFincs-sub004/realize"
	"github.com/uFincs/uFincs-sub004/recurrence"
)

// Snapshot is a point-in-time copy of everything the store holds.
type Snapshot struct {
	Accounts     []model.Account
	Transactions []model.Transaction
	Templates    []model.RecurringTemplate
}

// TransactionFilter narrows Transactions. Zero fields match everything.
type TransactionFilter struct {
	AccountID  string
	TemplateID string
	From       calendar.Date
	To         calendar.Date
}

func (f TransactionFilter) matches(tx model.Transaction) bool {
	if f.AccountID != "" && !tx.Touches(f.AccountID) {
		return false
	}
	if f.TemplateID != "" && tx.RecurringTemplateID != f.TemplateID {
		return false
	}
	if !f.From.IsZero() && tx.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && tx.Date.After(f.To) {
		return false
	}
	return true
}

type occurrenceKey struct {
	templateID string
	date       calendar.Date
}

// Memory is an in-memory ledger store. It is safe for concurrent use. Every insert is
// validated against the account compatibility table, and at most one transaction may
// exist per template occurrence.
type Memory struct {
	mu sync.RWMutex

	accounts     map[string]model.Account
	accountOrder []string

	transactions map[string]model.Transaction
	txOrder      []string
	occurrences  map[occurrenceKey]string

	templates     map[string]model.RecurringTemplate
	templateOrder []string
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		accounts:     make(map[string]model.Account),
		transactions: make(map[string]model.Transaction),
		occurrences:  make(map[occurrenceKey]string),
		templates:    make(map[string]model.RecurringTemplate),
	}
}

// FromSnapshot creates a store holding snap. Accounts are inserted first so that
// transactions and templates can be validated against them.
func FromSnapshot(ctx context.Context, snap Snapshot) (*Memory, error) {
	m := NewMemory()
	for _, acc := range snap.Accounts {
		if err := m.AddAccount(ctx, acc); err != nil {
			return nil, err
		}
	}
	for _, tx := range snap.Transactions {
		if err := m.AddTransaction(ctx, tx); err != nil {
			return nil, err
		}
	}
	for _, tmpl := range snap.Templates {
		if err := m.AddTemplate(ctx, tmpl); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddAccount inserts an account.
func (m *Memory) AddAccount(ctx context.Context, acc model.Account) error {
	if err := acc.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[acc.ID]; exists {
		return &DuplicateError{Kind: "account", ID: acc.ID}
	}
	m.accounts[acc.ID] = acc
	m.accountOrder = append(m.accountOrder, acc.ID)
	return nil
}

// Account returns the account with the given ID.
func (m *Memory) Account(ctx context.Context, id string) (model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[id]
	if !ok {
		return model.Account{}, &NotFoundError{Kind: "account", ID: id}
	}
	return acc, nil
}

// Accounts returns every account in insertion order.
func (m *Memory) Accounts(ctx context.Context) []model.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Account, 0, len(m.accountOrder))
	for _, id := range m.accountOrder {
		out = append(out, m.accounts[id])
	}
	return out
}

// AddTransaction validates and inserts a transaction.
func (m *Memory) AddTransaction(ctx context.Context, tx model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkTransaction(tx, nil); err != nil {
		return err
	}
	m.insertTransaction(tx)
	return nil
}

// Transactions returns the transactions matching filter, ordered by date and then by
// insertion.
func (m *Memory) Transactions(ctx context.Context, filter TransactionFilter) []model.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Transaction, 0, len(m.txOrder))
	for _, id := range m.txOrder {
		tx := m.transactions[id]
		if filter.matches(tx) {
			out = append(out, tx)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Transaction) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// AddTemplate validates and inserts a recurring template.
func (m *Memory) AddTemplate(ctx context.Context, tmpl model.RecurringTemplate) error {
	if err := recurrence.Validate(tmpl); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.templates[tmpl.ID]; exists {
		return &DuplicateError{Kind: "template", ID: tmpl.ID}
	}
	if err := model.ValidateTemplateAccounts(tmpl, m.lookup); err != nil {
		return err
	}
	m.templates[tmpl.ID] = tmpl
	m.templateOrder = append(m.templateOrder, tmpl.ID)
	return nil
}

// UpdateTemplate replaces a template's rule and transaction fields. The stored
// checkpoint is kept, and transactions already realized from the template are left as
// they are.
func (m *Memory) UpdateTemplate(ctx context.Context, tmpl model.RecurringTemplate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.templates[tmpl.ID]
	if !ok {
		return &NotFoundError{Kind: "template", ID: tmpl.ID}
	}
	updated := tmpl.WithCheckpoint(current.LastRealizedDate)
	if err := recurrence.Validate(updated); err != nil {
		return err
	}
	if err := model.ValidateTemplateAccounts(updated, m.lookup); err != nil {
		return err
	}
	m.templates[tmpl.ID] = updated
	return nil
}

// Template returns the template with the given ID.
func (m *Memory) Template(ctx context.Context, id string) (model.RecurringTemplate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tmpl, ok := m.templates[id]
	if !ok {
		return model.RecurringTemplate{}, &NotFoundError{Kind: "template", ID: id}
	}
	return tmpl, nil
}

// Templates returns every template in insertion order.
func (m *Memory) Templates(ctx context.Context) []model.RecurringTemplate {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.RecurringTemplate, 0, len(m.templateOrder))
	for _, id := range m.templateOrder {
		out = append(out, m.templates[id])
	}
	return out
}

// HasOccurrence reports whether a transaction was already realized for the template on
// date.
func (m *Memory) HasOccurrence(ctx context.Context, templateID string, date calendar.Date) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.occurrences[occurrenceKey{templateID, date}]
	return ok, nil
}

// Commit applies a realization result: it inserts every created transaction and moves
// the template's checkpoint, or changes nothing if any part is rejected.
func (m *Memory) Commit(ctx context.Context, result *realize.Result) error {
	if result == nil {
		return fmt.Errorf("nothing to commit")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := result.Template.ID
	current, ok := m.templates[id]
	if !ok {
		return &NotFoundError{Kind: "template", ID: id}
	}
	if err := checkCheckpoint(current, result.Checkpoint); err != nil {
		return err
	}

	pending := make(map[occurrenceKey]string, len(result.Created))
	for _, tx := range result.Created {
		if tx.RecurringTemplateID != id {
			return fmt.Errorf("transaction %s belongs to template %q, not %s", tx.ID, tx.RecurringTemplateID, id)
		}
		if err := m.checkTransaction(tx, pending); err != nil {
			return err
		}
		pending[occurrenceKey{id, tx.Date}] = tx.ID
	}

	for _, tx := range result.Created {
		m.insertTransaction(tx)
	}
	m.templates[id] = current.WithCheckpoint(result.Checkpoint)
	return nil
}

// Snapshot returns a copy of everything in the store.
func (m *Memory) Snapshot(ctx context.Context) Snapshot {
	return Snapshot{
		Accounts:     m.Accounts(ctx),
		Transactions: m.Transactions(ctx, TransactionFilter{}),
		Templates:    m.Templates(ctx),
	}
}

func checkCheckpoint(current model.RecurringTemplate, proposed *calendar.Date) error {
	if current.LastRealizedDate == nil {
		return nil
	}
	if proposed == nil || proposed.Before(*current.LastRealizedDate) {
		return &CheckpointRegressionError{
			TemplateID: current.ID,
			Current:    *current.LastRealizedDate,
			Proposed:   proposed,
		}
	}
	return nil
}

// checkTransaction validates tx against the stored state plus the occurrences already
// claimed by the same commit. Callers hold the write lock.
func (m *Memory) checkTransaction(tx model.Transaction, pending map[occurrenceKey]string) error {
	if tx.ID == "" {
		return fmt.Errorf("transaction ID is required")
	}
	if _, exists := m.transactions[tx.ID]; exists {
		return &DuplicateError{Kind: "transaction", ID: tx.ID}
	}
	if err := model.ValidateTransaction(tx, m.lookup); err != nil {
		return err
	}
	if !tx.IsRecurring() {
		return nil
	}

	key := occurrenceKey{tx.RecurringTemplateID, tx.Date}
	existing, ok := m.occurrences[key]
	if !ok {
		existing, ok = pending[key]
	}
	if ok {
		return &DuplicateOccurrenceError{TemplateID: tx.RecurringTemplateID, Date: tx.Date, ExistingID: existing}
	}
	return nil
}

func (m *Memory) insertTransaction(tx model.Transaction) {
	m.transactions[tx.ID] = tx
	m.txOrder = append(m.txOrder, tx.ID)
	if tx.IsRecurring() {
		m.occurrences[occurrenceKey{tx.RecurringTemplateID, tx.Date}] = tx.ID
	}
}

func (m *Memory) lookup(id string) (model.Account, bool) {
	acc, ok := m.accounts[id]
	return acc, ok
}

// Ensure Memory satisfies the occurrence index realization consults.
var _ realize.OccurrenceIndex = (*Memory)(nil)
