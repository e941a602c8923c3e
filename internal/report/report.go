// Package report shapes aggregation output plus raw ledger slices into a
// format-neutral model. Exporters (CSV, Excel, PDF) and chart widgets
// consume the model read-only and own all byte-level formatting; values
// here are exact decimals, never pre-rounded strings.
package report

import (
	"github.com/shopspring/decimal"

	"tracker/internal/aggregate"
	"tracker/internal/core"
)

// Config selects the sections to assemble.
type Config struct {
	Title           string
	Bucket          aggregate.Bucket
	StartingBalance core.Money
	IncludeTrend    bool
	IncludeBalance  bool
	IncludeListing  bool
}

type Summary struct {
	Count   int
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

type CategoryRow struct {
	Name    string
	Count   int
	Income  decimal.Decimal
	Expense decimal.Decimal
}

type TrendPoint struct {
	Start   core.Date
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

type BalancePoint struct {
	Date    core.Date
	Balance decimal.Decimal
}

type ListingRow struct {
	ID          int64
	Date        core.Date
	Amount      decimal.Decimal
	Category    string
	Description string
	Account     string
}

// Model is the assembled report: a tree of sections with no rendering
// logic. Optional sections are nil when not requested.
type Model struct {
	Title      string
	Summary    Summary
	Categories []CategoryRow
	Trend      []TrendPoint
	Balance    []BalancePoint
	Listing    []ListingRow
}

// Assemble builds a report model from a ledger snapshot. An empty
// snapshot produces a valid empty model, never an error.
func Assemble(txs []core.Transaction, cfg Config) Model {
	if cfg.Bucket == "" {
		cfg.Bucket = aggregate.Month
	}

	m := Model{Title: cfg.Title}

	var income, expense int64
	for _, tx := range txs {
		if tx.Amount.IsExpense() {
			expense += -tx.Amount.Cents
		} else {
			income += tx.Amount.Cents
		}
	}
	m.Summary = Summary{
		Count:   len(txs),
		Income:  decimal.New(income, -2),
		Expense: decimal.New(expense, -2),
		Net:     decimal.New(income-expense, -2),
	}

	for _, c := range aggregate.ByCategory(txs) {
		m.Categories = append(m.Categories, CategoryRow{
			Name:    c.Name,
			Count:   c.Count,
			Income:  c.Income.Decimal(),
			Expense: c.Expense.Decimal(),
		})
	}

	if cfg.IncludeTrend {
		for _, p := range aggregate.TotalsByPeriod(txs, cfg.Bucket) {
			m.Trend = append(m.Trend, TrendPoint{
				Start:   p.Start,
				Income:  p.Income.Decimal(),
				Expense: p.Expense.Decimal(),
				Net:     p.Net.Decimal(),
			})
		}
	}

	if cfg.IncludeBalance {
		for _, p := range aggregate.RunningBalance(txs, cfg.StartingBalance) {
			m.Balance = append(m.Balance, BalancePoint{
				Date:    p.Date,
				Balance: p.Balance.Decimal(),
			})
		}
	}

	if cfg.IncludeListing {
		for _, tx := range txs {
			m.Listing = append(m.Listing, ListingRow{
				ID:          tx.ID,
				Date:        tx.Date,
				Amount:      tx.Amount.Decimal(),
				Category:    tx.Category,
				Description: tx.Description,
				Account:     tx.Account,
			})
		}
	}

	return m
}
