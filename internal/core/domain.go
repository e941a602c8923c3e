package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindIncome   CategoryKind = "income"
	KindExpense  CategoryKind = "expense"
	KindTransfer CategoryKind = "transfer"
)

// Uncategorized is the sentinel category assigned to transactions that
// arrive without one.
const Uncategorized = "Uncategorized"

// DefaultAccount is the implicit account used when none is given.
const DefaultAccount = "default"

type (
	CategoryKind string

	// Date is a calendar date; the time-of-day part is always UTC midnight.
	Date struct {
		time.Time
	}

	// Money is a signed amount in currency minor units.
	// Negative cents are expenses, positive cents income.
	Money struct {
		Cents int64
	}

	// Transaction is a single ledger entry. ID is assigned by the ledger
	// on insert and never reused.
	Transaction struct {
		ID          int64
		Date        Date
		Amount      Money
		Category    string
		Description string
		Account     string
	}

	// Category groups transactions by name. Names are unique
	// case-insensitively; the casing of the first reference is kept for
	// display. Kind is advisory and never enforced against amount signs.
	Category struct {
		Name string
		Kind CategoryKind
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrInvalidDate    = errors.New("invalid date")
	ErrNotFound       = errors.New("not found")
	ErrCategoryInUse  = errors.New("category in use")
	ErrEmptyCategory  = errors.New("empty category name")
	ErrInvalidKind    = errors.New("invalid category kind")
	ErrNegativeBudget = errors.New("budget must not be negative")
)

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (k CategoryKind) Validate() error {
	switch k {
	case KindIncome, KindExpense, KindTransfer, "":
		return nil
	default:
		return ErrInvalidKind
	}
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 500 {
		return errors.New("description too long (max 500 characters)")
	}
	return nil
}
