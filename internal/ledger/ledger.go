// Package ledger holds the authoritative collection of transactions and
// categories. It is the single source of truth: aggregation results are
// always recomputed from it and never cached.
//
// The ledger is synchronous and performs no internal locking; callers that
// mutate it from multiple goroutines must serialize access.
package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"tracker/internal/core"
)

var errDuplicateID = errors.New("duplicate or invalid transaction id")

// Patch updates a subset of transaction fields. Nil pointers leave the
// field unchanged.
type Patch struct {
	Date        *core.Date
	Amount      *core.Money
	Category    *string
	Description *string
	Account     *string
}

// Filter selects transactions for Query. Absent (zero / nil) options
// impose no constraint; present options are ANDed.
type Filter struct {
	From       *core.Date
	To         *core.Date
	Categories []string // matched case-insensitively
	Account    string
	MinAmount  *core.Money
	MaxAmount  *core.Money
}

type Ledger struct {
	nextID int64
	txs    map[int64]core.Transaction
	// cats is keyed by lowercased name; the value keeps display casing.
	cats    map[string]core.Category
	budgets map[string]core.Money
}

func New() *Ledger {
	return &Ledger{
		nextID:  1,
		txs:     make(map[int64]core.Transaction),
		cats:    make(map[string]core.Category),
		budgets: make(map[string]core.Money),
	}
}

// Add inserts a transaction, assigning a fresh id and auto-creating the
// category if unseen. Category creation and insertion are one atomic step:
// a validation failure leaves the ledger untouched.
func (l *Ledger) Add(tx core.Transaction) (int64, error) {
	tx = withDefaults(tx)
	if err := tx.Validate(); err != nil {
		return 0, err
	}
	l.ensureCategory(tx.Category)
	tx.ID = l.nextID
	l.nextID++
	l.txs[tx.ID] = tx
	return tx.ID, nil
}

// Update applies a patch to an existing transaction. The id and insertion
// order are preserved. Validation happens before any mutation.
func (l *Ledger) Update(id int64, p Patch) (core.Transaction, error) {
	tx, ok := l.txs[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	if p.Date != nil {
		tx.Date = *p.Date
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.Account != nil {
		tx.Account = *p.Account
	}
	tx = withDefaults(tx)
	tx.ID = id
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	l.ensureCategory(tx.Category)
	l.txs[id] = tx
	return tx, nil
}

// Remove deletes a transaction. A second removal of the same id fails
// with ErrNotFound.
func (l *Ledger) Remove(id int64) error {
	if _, ok := l.txs[id]; !ok {
		return core.ErrNotFound
	}
	delete(l.txs, id)
	return nil
}

// Get returns a single transaction by id.
func (l *Ledger) Get(id int64) (core.Transaction, error) {
	tx, ok := l.txs[id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return tx, nil
}

// Query returns a snapshot of matching transactions, ascending by date
// with ties broken by insertion order (id ascending). The returned slice
// is a copy and stays stable under later ledger mutations.
func (l *Ledger) Query(f Filter) []core.Transaction {
	var catSet map[string]bool
	if len(f.Categories) > 0 {
		catSet = make(map[string]bool, len(f.Categories))
		for _, name := range f.Categories {
			catSet[strings.ToLower(name)] = true
		}
	}

	out := make([]core.Transaction, 0)
	for _, tx := range l.txs {
		if f.From != nil && tx.Date.Before(f.From.Time) {
			continue
		}
		if f.To != nil && tx.Date.After(f.To.Time) {
			continue
		}
		if catSet != nil && !catSet[strings.ToLower(tx.Category)] {
			continue
		}
		if f.Account != "" && !strings.EqualFold(tx.Account, f.Account) {
			continue
		}
		if f.MinAmount != nil && tx.Amount.Cents < f.MinAmount.Cents {
			continue
		}
		if f.MaxAmount != nil && tx.Amount.Cents > f.MaxAmount.Cents {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// All returns every transaction in (date, id) order.
func (l *Ledger) All() []core.Transaction {
	return l.Query(Filter{})
}

// Len returns the number of transactions.
func (l *Ledger) Len() int {
	return len(l.txs)
}

// Restore seeds the ledger from persisted transactions, keeping their
// ids. It is meant for the persistence collaborator at startup. All rows
// are validated before any insert, so a bad row leaves the ledger
// unchanged.
func (l *Ledger) Restore(txs []core.Transaction) error {
	seen := make(map[int64]bool, len(txs))
	for _, tx := range txs {
		if tx.ID <= 0 || seen[tx.ID] {
			return fmt.Errorf("restore transaction %d: %w", tx.ID, errDuplicateID)
		}
		seen[tx.ID] = true
		if err := withDefaults(tx).Validate(); err != nil {
			return err
		}
	}
	for _, tx := range txs {
		tx = withDefaults(tx)
		l.ensureCategory(tx.Category)
		l.txs[tx.ID] = tx
		if tx.ID >= l.nextID {
			l.nextID = tx.ID + 1
		}
	}
	return nil
}

func withDefaults(tx core.Transaction) core.Transaction {
	tx.Category = strings.TrimSpace(tx.Category)
	if tx.Category == "" {
		tx.Category = core.Uncategorized
	}
	tx.Account = strings.TrimSpace(tx.Account)
	if tx.Account == "" {
		tx.Account = core.DefaultAccount
	}
	return tx
}

func (l *Ledger) ensureCategory(name string) {
	key := strings.ToLower(name)
	if _, ok := l.cats[key]; !ok {
		l.cats[key] = core.Category{Name: name}
	}
}
