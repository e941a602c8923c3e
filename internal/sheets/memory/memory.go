// Package memory is an in-process sheet adapter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tracker/internal/core"

	ports "tracker/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows map[int64]core.Transaction
}

var (
	_ ports.RowAppender = (*Store)(nil)
	_ ports.RowRemover  = (*Store)(nil)
)

func New() *Store {
	return &Store{rows: make(map[int64]core.Transaction)}
}

// Append stores the transaction keyed by id and returns a synthetic row
// reference. Appending the same id twice overwrites the stored row, the
// same way the spreadsheet adapter updates in place.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[tx.ID] = tx
	return fmt.Sprintf("mem:%d", tx.ID), nil
}

func (s *Store) Remove(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

// Rows returns a copy of the stored rows for inspection in tests.
func (s *Store) Rows() map[int64]core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]core.Transaction, len(s.rows))
	for id, tx := range s.rows {
		out[id] = tx
	}
	return out
}
