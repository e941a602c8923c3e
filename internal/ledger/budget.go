package ledger

import (
	"sort"
	"strings"

	"tracker/internal/core"
)

// Budget thresholds, as fractions of the monthly budget.
const (
	budgetWarnRatio = 0.8
)

// BudgetProgress reports spending against a category's monthly budget.
// Spent is the magnitude of the month's expenses in that category.
type BudgetProgress struct {
	Category  string
	Spent     core.Money
	Budget    core.Money
	Remaining core.Money
	Ratio     float64
}

// BudgetAlert flags a category near or over its monthly budget.
type BudgetAlert struct {
	Category string
	Progress BudgetProgress
	Exceeded bool
}

// SetBudget sets the monthly budget for a category, creating the category
// if unseen. Budgets are advisory: they flag overspend, never block Add.
func (l *Ledger) SetBudget(category string, monthly core.Money) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return core.ErrEmptyCategory
	}
	if monthly.Cents < 0 {
		return core.ErrNegativeBudget
	}
	l.ensureCategory(category)
	l.budgets[strings.ToLower(category)] = monthly
	return nil
}

// RemoveBudget clears the budget for a category.
func (l *Ledger) RemoveBudget(category string) error {
	key := strings.ToLower(strings.TrimSpace(category))
	if _, ok := l.budgets[key]; !ok {
		return core.ErrNotFound
	}
	delete(l.budgets, key)
	return nil
}

// Progress returns budget progress for one category in a given month.
func (l *Ledger) Progress(category string, year, month int) (BudgetProgress, error) {
	key := strings.ToLower(strings.TrimSpace(category))
	budget, ok := l.budgets[key]
	if !ok {
		return BudgetProgress{}, core.ErrNotFound
	}
	return l.progressFor(key, budget, year, month), nil
}

// Alerts returns categories at or above the warning threshold for the
// month, exceeded ones first, then by ratio descending.
func (l *Ledger) Alerts(year, month int) []BudgetAlert {
	var out []BudgetAlert
	for key, budget := range l.budgets {
		if budget.Cents == 0 {
			continue
		}
		p := l.progressFor(key, budget, year, month)
		if p.Ratio >= budgetWarnRatio {
			out = append(out, BudgetAlert{
				Category: p.Category,
				Progress: p,
				Exceeded: p.Spent.Cents > budget.Cents,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Exceeded != out[j].Exceeded {
			return out[i].Exceeded
		}
		if out[i].Progress.Ratio != out[j].Progress.Ratio {
			return out[i].Progress.Ratio > out[j].Progress.Ratio
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func (l *Ledger) progressFor(key string, budget core.Money, year, month int) BudgetProgress {
	var spent int64
	for _, tx := range l.txs {
		if strings.ToLower(tx.Category) != key {
			continue
		}
		if tx.Date.Year() != year || tx.Date.Month() != month {
			continue
		}
		if tx.Amount.IsExpense() {
			spent += -tx.Amount.Cents
		}
	}
	p := BudgetProgress{
		Category: l.cats[key].Name,
		Spent:    core.Money{Cents: spent},
		Budget:   budget,
	}
	if remaining := budget.Cents - spent; remaining > 0 {
		p.Remaining = core.Money{Cents: remaining}
	}
	if budget.Cents > 0 {
		p.Ratio = float64(spent) / float64(budget.Cents)
	}
	return p
}
