package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tracker/internal/core"
	"tracker/internal/ledger"
)

func newRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	in := core.Transaction{
		ID:          4,
		Date:        core.NewDate(2024, 6, 1),
		Amount:      core.Money{Cents: -1234},
		Category:    "Groceries",
		Description: "market",
		Account:     "checking",
	}
	if err := repo.SaveTransaction(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetTransaction(ctx, 4)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != in {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", in, got)
	}

	// Upsert keeps the id.
	in.Description = "supermarket"
	if err := repo.SaveTransaction(ctx, in); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _ = repo.GetTransaction(ctx, 4)
	if got.Description != "supermarket" {
		t.Fatalf("upsert not applied: %+v", got)
	}

	if err := repo.DeleteTransaction(ctx, 4); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, 4); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
}

func TestRestoreRebuildsLedger(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	source := ledger.New()
	txs := []core.Transaction{
		{Date: core.NewDate(2024, 1, 2), Amount: core.Money{Cents: -500}, Category: "Food", Account: "cash"},
		{Date: core.NewDate(2024, 1, 1), Amount: core.Money{Cents: 9000}, Category: "Salary"},
	}
	for _, tx := range txs {
		id, err := source.Add(tx)
		if err != nil {
			t.Fatalf("seed add: %v", err)
		}
		saved, _ := source.Get(id)
		if err := repo.SaveTransaction(ctx, saved); err != nil {
			t.Fatalf("seed save: %v", err)
		}
	}
	for _, c := range source.Categories() {
		if err := repo.SaveCategory(ctx, c); err != nil {
			t.Fatalf("seed category: %v", err)
		}
	}
	if err := source.SetBudget("Food", core.Money{Cents: 20000}); err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	if err := repo.SaveBudget(ctx, "Food", core.Money{Cents: 20000}); err != nil {
		t.Fatalf("save budget: %v", err)
	}

	restored := ledger.New()
	if err := repo.Restore(ctx, restored); err != nil {
		t.Fatalf("restore: %v", err)
	}

	if got, want := restored.All(), source.All(); len(got) != len(want) {
		t.Fatalf("restored %d transactions, want %d", len(got), len(want))
	} else {
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("transaction %d mismatch:\nwant %+v\ngot  %+v", i, want[i], got[i])
			}
		}
	}
	if len(restored.Categories()) != len(source.Categories()) {
		t.Fatalf("categories mismatch: %v vs %v", restored.Categories(), source.Categories())
	}
	if _, err := restored.Progress("Food", 2024, 1); err != nil {
		t.Fatalf("budget not restored: %v", err)
	}

	// Fresh ids continue above the restored ones.
	id, err := restored.Add(core.Transaction{Date: core.NewDate(2024, 2, 1), Amount: core.Money{Cents: -1}, Category: "Food"})
	if err != nil {
		t.Fatalf("add after restore: %v", err)
	}
	if id != 3 {
		t.Fatalf("expected id 3 after restoring ids 1 and 2, got %d", id)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracker.db")
	for i := 0; i < 2; i++ {
		repo, err := NewSQLiteRepository(path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		repo.Close()
	}
}
