// Package aggregate computes derived views over a ledger snapshot: period
// totals, category breakdowns and running balances. All functions are pure
// and order-independent in their input; sorting happens internally.
package aggregate

import (
	"sort"
	"strings"
	"time"

	"tracker/internal/core"
)

// Bucket is a fixed-width calendar period for trend grouping.
type Bucket string

const (
	Day   Bucket = "day"
	Week  Bucket = "week" // weeks start Monday
	Month Bucket = "month"
	Year  Bucket = "year"
)

// PeriodTotal holds the totals of one bucket. Expense is a magnitude
// (positive cents); Net is income minus expense.
type PeriodTotal struct {
	Start   core.Date
	Income  core.Money
	Expense core.Money
	Net     core.Money
}

// CategoryTotal summarizes one category across the snapshot.
type CategoryTotal struct {
	Name    string
	Count   int
	Income  core.Money
	Expense core.Money
}

// BalancePoint is the running balance after one transaction.
type BalancePoint struct {
	Date    core.Date
	Balance core.Money
}

type options struct {
	from, to *core.Date
}

type Option func(*options)

// WithRange requests explicit period bounds: buckets inside the range with
// no transactions appear as zeros, so trend charts show gaps instead of
// missing points.
func WithRange(from, to core.Date) Option {
	return func(o *options) {
		o.from = &from
		o.to = &to
	}
}

// TotalsByPeriod groups the snapshot into calendar buckets and returns
// them in chronological order. Without an explicit range only populated
// buckets appear.
func TotalsByPeriod(txs []core.Transaction, bucket Bucket, opts ...Option) []PeriodTotal {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	byStart := make(map[time.Time]*PeriodTotal)
	add := func(start core.Date) *PeriodTotal {
		if p, ok := byStart[start.Time]; ok {
			return p
		}
		p := &PeriodTotal{Start: start}
		byStart[start.Time] = p
		return p
	}

	for _, tx := range txs {
		if o.from != nil && tx.Date.Before(o.from.Time) {
			continue
		}
		if o.to != nil && tx.Date.After(o.to.Time) {
			continue
		}
		p := add(truncate(tx.Date, bucket))
		if tx.Amount.IsExpense() {
			p.Expense.Cents += -tx.Amount.Cents
		} else {
			p.Income.Cents += tx.Amount.Cents
		}
	}

	if o.from != nil && o.to != nil {
		for cur := truncate(*o.from, bucket); !cur.After(o.to.Time); cur = next(cur, bucket) {
			add(cur)
		}
	}

	out := make([]PeriodTotal, 0, len(byStart))
	for _, p := range byStart {
		p.Net = core.Money{Cents: p.Income.Cents - p.Expense.Cents}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start.Time)
	})
	return out
}

// ByCategory returns one entry per category present in the snapshot,
// sorted by absolute total descending, ties broken alphabetically.
func ByCategory(txs []core.Transaction) []CategoryTotal {
	// Iterate in (date, id) order so the display casing picked for a
	// category does not depend on input order.
	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date.Time) {
			return sorted[i].Date.Before(sorted[j].Date.Time)
		}
		return sorted[i].ID < sorted[j].ID
	})

	byName := make(map[string]*CategoryTotal)
	for _, tx := range sorted {
		key := strings.ToLower(tx.Category)
		c, ok := byName[key]
		if !ok {
			c = &CategoryTotal{Name: tx.Category}
			byName[key] = c
		}
		c.Count++
		if tx.Amount.IsExpense() {
			c.Expense.Cents += -tx.Amount.Cents
		} else {
			c.Income.Cents += tx.Amount.Cents
		}
	}

	out := make([]CategoryTotal, 0, len(byName))
	for _, c := range byName {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		ti := out[i].Income.Cents + out[i].Expense.Cents
		tj := out[j].Income.Cents + out[j].Expense.Cents
		if ti != tj {
			return ti > tj
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// RunningBalance sorts the snapshot by (date, id) and accumulates amounts
// on top of startingBalance, one point per transaction.
func RunningBalance(txs []core.Transaction, startingBalance core.Money) []BalancePoint {
	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date.Time) {
			return sorted[i].Date.Before(sorted[j].Date.Time)
		}
		return sorted[i].ID < sorted[j].ID
	})

	out := make([]BalancePoint, 0, len(sorted))
	balance := startingBalance
	for _, tx := range sorted {
		balance = balance.Add(tx.Amount)
		out = append(out, BalancePoint{Date: tx.Date, Balance: balance})
	}
	return out
}

// truncate snaps a date to its bucket boundary: same day, the preceding
// Monday, the first of the month, or January 1st.
func truncate(d core.Date, bucket Bucket) core.Date {
	switch bucket {
	case Week:
		offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
		return core.DateOf(d.AddDate(0, 0, -offset))
	case Month:
		return core.NewDate(d.Year(), d.Month(), 1)
	case Year:
		return core.NewDate(d.Year(), 1, 1)
	default:
		return d
	}
}

func next(d core.Date, bucket Bucket) core.Date {
	switch bucket {
	case Week:
		return core.DateOf(d.AddDate(0, 0, 7))
	case Month:
		return core.DateOf(d.AddDate(0, 1, 0))
	case Year:
		return core.DateOf(d.AddDate(1, 0, 0))
	default:
		return core.DateOf(d.AddDate(0, 0, 1))
	}
}
