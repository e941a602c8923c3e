package report

import (
	"testing"

	"tracker/internal/aggregate"
	"tracker/internal/core"
)

func snapshot() []core.Transaction {
	return []core.Transaction{
		{ID: 1, Date: core.NewDate(2024, 1, 5), Amount: core.Money{Cents: 500000}, Category: "Salary", Account: "checking"},
		{ID: 2, Date: core.NewDate(2024, 1, 8), Amount: core.Money{Cents: -12345}, Category: "Groceries", Account: "checking"},
		{ID: 3, Date: core.NewDate(2024, 2, 2), Amount: core.Money{Cents: -999}, Category: "Coffee", Account: "cash"},
	}
}

func TestAssembleSummary(t *testing.T) {
	m := Assemble(snapshot(), Config{Title: "January"})
	if m.Title != "January" {
		t.Fatalf("title: %q", m.Title)
	}
	if m.Summary.Count != 3 {
		t.Fatalf("count: %d", m.Summary.Count)
	}
	if got := m.Summary.Income.String(); got != "5000" {
		t.Fatalf("income: %s", got)
	}
	if got := m.Summary.Expense.String(); got != "133.44" {
		t.Fatalf("expense: %s", got)
	}
	if got := m.Summary.Net.String(); got != "4866.56" {
		t.Fatalf("net: %s", got)
	}
}

func TestAssembleExactDecimals(t *testing.T) {
	// Values carry full precision; no pre-rounding to display strings.
	m := Assemble(snapshot(), Config{IncludeListing: true})
	if got := m.Listing[1].Amount.String(); got != "-123.45" {
		t.Fatalf("listing amount: %s", got)
	}
	if m.Listing[1].Amount.Exponent() != -2 {
		t.Fatalf("exponent: %d", m.Listing[1].Amount.Exponent())
	}
}

func TestAssembleSections(t *testing.T) {
	m := Assemble(snapshot(), Config{})
	if m.Trend != nil || m.Balance != nil || m.Listing != nil {
		t.Fatalf("optional sections should be nil by default: %+v", m)
	}
	if len(m.Categories) != 3 {
		t.Fatalf("categories: %+v", m.Categories)
	}

	m = Assemble(snapshot(), Config{
		Bucket:          aggregate.Month,
		StartingBalance: core.Money{Cents: 1000},
		IncludeTrend:    true,
		IncludeBalance:  true,
		IncludeListing:  true,
	})
	if len(m.Trend) != 2 {
		t.Fatalf("expected 2 trend points, got %+v", m.Trend)
	}
	if len(m.Balance) != 3 {
		t.Fatalf("expected 3 balance points, got %+v", m.Balance)
	}
	// 10.00 starting + 5000.00 - 123.45 - 9.99
	if got := m.Balance[2].Balance.String(); got != "4876.56" {
		t.Fatalf("final balance: %s", got)
	}
	if len(m.Listing) != 3 {
		t.Fatalf("expected 3 listing rows, got %+v", m.Listing)
	}
}

func TestAssembleEmptySnapshot(t *testing.T) {
	m := Assemble(nil, Config{IncludeTrend: true, IncludeBalance: true, IncludeListing: true})
	if m.Summary.Count != 0 {
		t.Fatalf("count: %d", m.Summary.Count)
	}
	if !m.Summary.Net.IsZero() {
		t.Fatalf("net: %s", m.Summary.Net)
	}
	if len(m.Categories) != 0 || len(m.Trend) != 0 || len(m.Balance) != 0 || len(m.Listing) != 0 {
		t.Fatalf("empty ledger must yield empty sections: %+v", m)
	}
}
