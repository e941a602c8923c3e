package ledger

import (
	"errors"
	"testing"

	"tracker/internal/core"
)

func tx(y, m, d int, cents int64, category string) core.Transaction {
	return core.Transaction{
		Date:     core.NewDate(y, m, d),
		Amount:   core.Money{Cents: cents},
		Category: category,
	}
}

func mustAdd(t *testing.T, l *Ledger, transaction core.Transaction) int64 {
	t.Helper()
	id, err := l.Add(transaction)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	return id
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	l := New()
	seen := map[int64]bool{}
	for i := 0; i < 10; i++ {
		id := mustAdd(t, l, tx(2024, 1, 1+i, -100, "Food"))
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if l.Len() != 10 {
		t.Fatalf("expected 10 transactions, got %d", l.Len())
	}
}

func TestAddRoundTrip(t *testing.T) {
	l := New()
	in := core.Transaction{
		Date:        core.NewDate(2024, 2, 10),
		Amount:      core.Money{Cents: -4200},
		Category:    "Groceries",
		Description: "market",
		Account:     "checking",
	}
	id := mustAdd(t, l, in)

	got := l.Query(Filter{Categories: []string{"groceries"}})
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	want := in
	want.ID = id
	if got[0] != want {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", want, got[0])
	}
}

func TestAddDefaults(t *testing.T) {
	l := New()
	id := mustAdd(t, l, core.Transaction{
		Date:   core.NewDate(2024, 1, 1),
		Amount: core.Money{Cents: 100},
	})
	got, err := l.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Category != core.Uncategorized {
		t.Fatalf("expected sentinel category, got %q", got.Category)
	}
	if got.Account != core.DefaultAccount {
		t.Fatalf("expected default account, got %q", got.Account)
	}
}

func TestAddInvalidDate(t *testing.T) {
	l := New()
	if _, err := l.Add(core.Transaction{Amount: core.Money{Cents: 1}, Category: "x"}); err == nil {
		t.Fatal("expected error for zero date")
	}
	if l.Len() != 0 {
		t.Fatal("failed add must leave no side effect")
	}
	if len(l.Categories()) != 0 {
		t.Fatal("failed add must not create the category")
	}
}

func TestUpdate(t *testing.T) {
	l := New()
	id := mustAdd(t, l, tx(2024, 1, 1, -100, "Food"))

	newAmount := core.Money{Cents: -250}
	newCat := "Dining"
	got, err := l.Update(id, Patch{Amount: &newAmount, Category: &newCat})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.ID != id || got.Amount != newAmount || got.Category != "Dining" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.Date != core.NewDate(2024, 1, 1) {
		t.Fatalf("unpatched field changed: %s", got.Date)
	}

	if _, err := l.Update(999, Patch{}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestUpdateInvalidPatchLeavesStateUntouched(t *testing.T) {
	l := New()
	id := mustAdd(t, l, tx(2024, 1, 1, -100, "Food"))

	bad := core.Date{}
	if _, err := l.Update(id, Patch{Date: &bad}); err == nil {
		t.Fatal("expected validation error")
	}
	got, _ := l.Get(id)
	if got.Date != core.NewDate(2024, 1, 1) {
		t.Fatalf("failed update mutated the transaction: %+v", got)
	}
}

func TestRemove(t *testing.T) {
	l := New()
	id := mustAdd(t, l, tx(2024, 1, 1, -100, "Food"))

	if err := l.Remove(id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := l.Remove(id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second remove should be NotFound, got %v", err)
	}

	// Removed ids are never reused.
	next := mustAdd(t, l, tx(2024, 1, 2, -100, "Food"))
	if next == id {
		t.Fatalf("id %d was reused", id)
	}
}

func TestQueryOrderAndFilters(t *testing.T) {
	l := New()
	mustAdd(t, l, tx(2024, 2, 5, -300, "Groceries"))
	mustAdd(t, l, tx(2024, 1, 20, -100, "Groceries"))
	mustAdd(t, l, tx(2024, 2, 5, 5000, "Salary"))
	mustAdd(t, l, tx(2024, 3, 1, -50, "Transport"))

	all := l.Query(Filter{})
	for i := 1; i < len(all); i++ {
		prev, cur := all[i-1], all[i]
		if cur.Date.Before(prev.Date.Time) {
			t.Fatalf("not date-ordered: %s before %s", cur.Date, prev.Date)
		}
		if cur.Date.Equal(prev.Date.Time) && cur.ID < prev.ID {
			t.Fatalf("tie not broken by id: %d after %d", cur.ID, prev.ID)
		}
	}

	from := core.NewDate(2024, 2, 1)
	got := l.Query(Filter{From: &from, Categories: []string{"Groceries"}})
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].Date != core.NewDate(2024, 2, 5) || got[0].Category != "Groceries" {
		t.Fatalf("wrong result: %+v", got[0])
	}

	min := core.Money{Cents: 0}
	if got := l.Query(Filter{MinAmount: &min}); len(got) != 1 || got[0].Category != "Salary" {
		t.Fatalf("min-amount filter wrong: %+v", got)
	}
}

func TestQuerySnapshotIsStable(t *testing.T) {
	l := New()
	id := mustAdd(t, l, tx(2024, 1, 1, -100, "Food"))
	snap := l.Query(Filter{})

	if err := l.Remove(id); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(snap) != 1 || snap[0].ID != id {
		t.Fatalf("snapshot changed after mutation: %+v", snap)
	}
}

func TestCategoriesAutoCreateCaseInsensitive(t *testing.T) {
	l := New()
	mustAdd(t, l, tx(2024, 1, 1, -100, "Groceries"))
	mustAdd(t, l, tx(2024, 1, 2, -100, "GROCERIES"))
	mustAdd(t, l, tx(2024, 1, 3, -100, "transport"))

	cats := l.Categories()
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %v", cats)
	}
	// First-seen casing wins.
	if cats[0].Name != "Groceries" || cats[1].Name != "transport" {
		t.Fatalf("unexpected names: %v", cats)
	}
}

func TestDeleteCategoryGuard(t *testing.T) {
	l := New()
	mustAdd(t, l, tx(2024, 1, 1, -100, "Groceries"))

	if err := l.DeleteCategory("groceries", ""); !errors.Is(err, core.ErrCategoryInUse) {
		t.Fatalf("expected CategoryInUse, got %v", err)
	}

	if err := l.DeleteCategory("Groceries", "Food"); err != nil {
		t.Fatalf("delete with reassign: %v", err)
	}
	for _, tr := range l.All() {
		if tr.Category != "Food" {
			t.Fatalf("transaction not reassigned: %+v", tr)
		}
	}
	for _, c := range l.Categories() {
		if c.Name == "Groceries" {
			t.Fatal("deleted category still present")
		}
	}
}

func TestDeleteUnreferencedCategory(t *testing.T) {
	l := New()
	if err := l.AddCategory(core.Category{Name: "Hobby"}); err != nil {
		t.Fatalf("add category: %v", err)
	}
	if err := l.DeleteCategory("hobby", ""); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := l.DeleteCategory("hobby", ""); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestRenameCategory(t *testing.T) {
	l := New()
	mustAdd(t, l, tx(2024, 1, 1, -100, "Grocerys"))
	if err := l.RenameCategory("grocerys", "Groceries"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if got := l.All()[0].Category; got != "Groceries" {
		t.Fatalf("transaction kept old name: %q", got)
	}

	mustAdd(t, l, tx(2024, 1, 2, -100, "Transport"))
	if err := l.RenameCategory("Transport", "Groceries"); !errors.Is(err, core.ErrCategoryInUse) {
		t.Fatalf("rename onto existing should fail, got %v", err)
	}
}

func TestRestore(t *testing.T) {
	l := New()
	rows := []core.Transaction{
		{ID: 3, Date: core.NewDate(2024, 1, 2), Amount: core.Money{Cents: -10}, Category: "A", Account: "default"},
		{ID: 7, Date: core.NewDate(2024, 1, 1), Amount: core.Money{Cents: 20}, Category: "B", Account: "default"},
	}
	if err := l.Restore(rows); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if l.Len() != 2 {
		t.Fatalf("expected 2 transactions, got %d", l.Len())
	}
	// Fresh ids continue above the highest restored one.
	id := mustAdd(t, l, tx(2024, 1, 3, -5, "A"))
	if id != 8 {
		t.Fatalf("expected next id 8, got %d", id)
	}

	if err := New().Restore([]core.Transaction{rows[0], rows[0]}); err == nil {
		t.Fatal("expected error for duplicate restored id")
	}
}
