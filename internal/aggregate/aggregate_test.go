package aggregate

import (
	"math/rand"
	"reflect"
	"testing"

	"tracker/internal/core"
)

func tx(id int64, y, m, d int, cents int64, category string) core.Transaction {
	return core.Transaction{
		ID:       id,
		Date:     core.NewDate(y, m, d),
		Amount:   core.Money{Cents: cents},
		Category: category,
	}
}

func TestRunningBalance(t *testing.T) {
	// Out-of-order input must sort to Jan 1, Jan 2, Jan 3 and yield
	// balances 100, 110, 70.
	txs := []core.Transaction{
		tx(1, 2024, 1, 1, 10000, "Salary"),
		tx(3, 2024, 1, 3, -4000, "Food"),
		tx(2, 2024, 1, 2, 1000, "Gift"),
	}
	got := RunningBalance(txs, core.Money{})
	want := []BalancePoint{
		{Date: core.NewDate(2024, 1, 1), Balance: core.Money{Cents: 10000}},
		{Date: core.NewDate(2024, 1, 2), Balance: core.Money{Cents: 11000}},
		{Date: core.NewDate(2024, 1, 3), Balance: core.Money{Cents: 7000}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %+v\ngot  %+v", want, got)
	}
}

func TestRunningBalanceStartingBalanceAndTies(t *testing.T) {
	txs := []core.Transaction{
		tx(2, 2024, 1, 1, -500, "A"),
		tx(1, 2024, 1, 1, 2000, "B"),
	}
	got := RunningBalance(txs, core.Money{Cents: 1000})
	// Same date: id 1 first.
	if got[0].Balance.Cents != 3000 || got[1].Balance.Cents != 2500 {
		t.Fatalf("unexpected balances: %+v", got)
	}
}

func TestByCategory(t *testing.T) {
	txs := []core.Transaction{
		tx(1, 2024, 1, 1, -3000, "Groceries"),
		tx(2, 2024, 1, 2, -1000, "groceries"),
		tx(3, 2024, 1, 3, 5000, "Salary"),
		tx(4, 2024, 1, 4, -200, "Transport"),
		tx(5, 2024, 1, 5, -200, "Coffee"),
	}
	got := ByCategory(txs)
	if len(got) != 4 {
		t.Fatalf("expected 4 categories, got %+v", got)
	}
	// Sorted by absolute total descending; Coffee before Transport
	// alphabetically on the tie.
	wantOrder := []string{"Salary", "Groceries", "Coffee", "Transport"}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Fatalf("position %d: want %s, got %s (%+v)", i, name, got[i].Name, got)
		}
	}
	g := got[1]
	if g.Count != 2 || g.Expense.Cents != 4000 || g.Income.Cents != 0 {
		t.Fatalf("groceries totals wrong: %+v", g)
	}
}

func TestTotalsByPeriodMonth(t *testing.T) {
	txs := []core.Transaction{
		tx(1, 2024, 1, 5, -1000, "A"),
		tx(2, 2024, 1, 28, 3000, "B"),
		tx(3, 2024, 3, 2, -500, "A"),
	}
	got := TotalsByPeriod(txs, Month)
	// No explicit range: only populated months appear.
	if len(got) != 2 {
		t.Fatalf("expected 2 periods, got %+v", got)
	}
	jan := got[0]
	if jan.Start != core.NewDate(2024, 1, 1) || jan.Income.Cents != 3000 || jan.Expense.Cents != 1000 || jan.Net.Cents != 2000 {
		t.Fatalf("january wrong: %+v", jan)
	}
	if got[1].Start != core.NewDate(2024, 3, 1) {
		t.Fatalf("expected march second, got %+v", got[1])
	}
}

func TestTotalsByPeriodExplicitRangeFillsGaps(t *testing.T) {
	txs := []core.Transaction{
		tx(1, 2024, 1, 5, -1000, "A"),
		tx(2, 2024, 3, 2, -500, "A"),
	}
	got := TotalsByPeriod(txs, Month, WithRange(core.NewDate(2024, 1, 1), core.NewDate(2024, 4, 30)))
	if len(got) != 4 {
		t.Fatalf("expected 4 periods (Jan..Apr), got %+v", got)
	}
	feb := got[1]
	if feb.Start != core.NewDate(2024, 2, 1) || feb.Income.Cents != 0 || feb.Expense.Cents != 0 || feb.Net.Cents != 0 {
		t.Fatalf("february should be a zero point: %+v", feb)
	}
	apr := got[3]
	if apr.Start != core.NewDate(2024, 4, 1) || apr.Net.Cents != 0 {
		t.Fatalf("april should be a zero point: %+v", apr)
	}
}

func TestTotalsByPeriodRangeExcludesBeforeFrom(t *testing.T) {
	txs := []core.Transaction{
		tx(1, 2024, 1, 5, -1000, "A"),
		tx(2, 2024, 1, 20, -500, "A"),
	}
	// A mid-month lower bound must drop transactions earlier in the same
	// bucket, not everything before the bucket start.
	got := TotalsByPeriod(txs, Month, WithRange(core.NewDate(2024, 1, 15), core.NewDate(2024, 1, 31)))
	if len(got) != 1 {
		t.Fatalf("expected 1 period, got %+v", got)
	}
	if got[0].Expense.Cents != 500 {
		t.Fatalf("expected only the Jan 20 expense counted, got %+v", got[0])
	}
}

func TestTotalsByPeriodWeekStartsMonday(t *testing.T) {
	// 2024-03-06 is a Wednesday; its week starts Monday 2024-03-04.
	got := TotalsByPeriod([]core.Transaction{tx(1, 2024, 3, 6, -100, "A")}, Week)
	if len(got) != 1 || got[0].Start != core.NewDate(2024, 3, 4) {
		t.Fatalf("expected week start 2024-03-04, got %+v", got)
	}
	// A Monday maps to itself; a Sunday to the previous Monday.
	got = TotalsByPeriod([]core.Transaction{tx(1, 2024, 3, 4, -100, "A")}, Week)
	if got[0].Start != core.NewDate(2024, 3, 4) {
		t.Fatalf("monday should keep its date, got %+v", got)
	}
	got = TotalsByPeriod([]core.Transaction{tx(1, 2024, 3, 10, -100, "A")}, Week)
	if got[0].Start != core.NewDate(2024, 3, 4) {
		t.Fatalf("sunday should map back to monday, got %+v", got)
	}
}

func TestTotalsByPeriodDayAndYear(t *testing.T) {
	txs := []core.Transaction{
		tx(1, 2023, 12, 31, -100, "A"),
		tx(2, 2024, 1, 1, -100, "A"),
	}
	if got := TotalsByPeriod(txs, Day); len(got) != 2 || got[0].Start != core.NewDate(2023, 12, 31) {
		t.Fatalf("day buckets wrong: %+v", got)
	}
	got := TotalsByPeriod(txs, Year)
	if len(got) != 2 || got[0].Start != core.NewDate(2023, 1, 1) || got[1].Start != core.NewDate(2024, 1, 1) {
		t.Fatalf("year buckets wrong: %+v", got)
	}
}

func TestAggregationOrderIndependence(t *testing.T) {
	txs := []core.Transaction{
		tx(1, 2024, 1, 1, -100, "A"),
		tx(2, 2024, 1, 2, 300, "B"),
		tx(3, 2024, 2, 1, -50, "A"),
		tx(4, 2024, 2, 10, -75, "C"),
		tx(5, 2024, 3, 5, 900, "B"),
	}
	wantPeriods := TotalsByPeriod(txs, Month)
	wantCats := ByCategory(txs)
	wantBalance := RunningBalance(txs, core.Money{Cents: 123})

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]core.Transaction, len(txs))
		copy(shuffled, txs)
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := TotalsByPeriod(shuffled, Month); !reflect.DeepEqual(got, wantPeriods) {
			t.Fatalf("TotalsByPeriod depends on input order: %+v", got)
		}
		if got := ByCategory(shuffled); !reflect.DeepEqual(got, wantCats) {
			t.Fatalf("ByCategory depends on input order: %+v", got)
		}
		if got := RunningBalance(shuffled, core.Money{Cents: 123}); !reflect.DeepEqual(got, wantBalance) {
			t.Fatalf("RunningBalance depends on input order: %+v", got)
		}
	}
}

func TestAggregationEmptyInput(t *testing.T) {
	if got := TotalsByPeriod(nil, Month); len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
	if got := ByCategory(nil); len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
	if got := RunningBalance(nil, core.Money{Cents: 5}); len(got) != 0 {
		t.Fatalf("expected empty, got %+v", got)
	}
}
