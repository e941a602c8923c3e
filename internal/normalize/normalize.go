// Package normalize converts raw imported spreadsheet rows into canonical
// transactions. It is pure: candidate transactions are returned for the
// caller to insert, and a malformed row never discards the batch.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"tracker/internal/core"
)

// Row is a single imported record: column label -> raw cell value.
// Import adapters (CSV, Excel) are responsible for producing rows from
// file bytes before calling in.
type Row map[string]string

// Canonical field names used by the alias table.
const (
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldAccount     = "account"
)

type ErrorKind string

const (
	MissingField      ErrorKind = "missing_field"
	UnparseableDate   ErrorKind = "unparseable_date"
	UnparseableAmount ErrorKind = "unparseable_amount"
	// ZeroAmount marks rows that import fine but carry a zero amount.
	// These land in Result.Warnings, not Result.Errors.
	ZeroAmount ErrorKind = "zero_amount"
)

// RowError describes why a single row failed (or was flagged) during
// normalization. Row is the 0-based index into the input slice.
type RowError struct {
	Row   int
	Field string
	Kind  ErrorKind
	Value string
}

func (e RowError) String() string {
	if e.Value != "" {
		return fmt.Sprintf("row %d: %s %s (%q)", e.Row, e.Field, e.Kind, e.Value)
	}
	return fmt.Sprintf("row %d: %s %s", e.Row, e.Field, e.Kind)
}

// Result separates successes from per-row failures so the caller can
// report "imported N of M rows" with exact indices and reasons.
type Result struct {
	Transactions []core.Transaction
	Errors       []RowError
	Warnings     []RowError
}

// Normalizer maps loosely-labelled rows onto the canonical schema.
type Normalizer struct {
	aliases map[string][]string
	formats []string
}

type Option func(*Normalizer)

// WithAlias adds accepted column labels for a canonical field.
func WithAlias(field string, labels ...string) Option {
	return func(n *Normalizer) {
		n.aliases[field] = append(n.aliases[field], labels...)
	}
}

// WithDateFormats replaces the ordered list of accepted date layouts.
func WithDateFormats(formats ...string) Option {
	return func(n *Normalizer) {
		n.formats = append([]string(nil), formats...)
	}
}

func defaultAliases() map[string][]string {
	return map[string][]string{
		FieldDate:        {"date", "transaction date", "posted date", "when"},
		FieldAmount:      {"amount", "value", "debit/credit", "sum"},
		FieldCategory:    {"category", "cat", "type"},
		FieldDescription: {"description", "desc", "memo", "note", "details"},
		FieldAccount:     {"account", "account name", "source"},
	}
}

var defaultFormats = []string{
	time.DateOnly,
	"02/01/2006",
	"01/02/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		aliases: defaultAliases(),
		formats: defaultFormats,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts rows into candidate transactions plus per-row errors.
// It never mutates any ledger and is idempotent: the same input yields the
// same transactions (IDs unassigned) and the same error set.
func (n *Normalizer) Normalize(rows []Row) Result {
	// The alias table is resolved once per import, not per row.
	lookup := n.labelIndex()

	var res Result
	for i, row := range rows {
		fields := map[string]string{}
		for label, value := range row {
			field, ok := lookup[normalizeLabel(label)]
			if !ok {
				continue
			}
			if _, seen := fields[field]; !seen {
				fields[field] = strings.TrimSpace(value)
			}
		}

		rawDate, ok := fields[FieldDate]
		if !ok || rawDate == "" {
			res.Errors = append(res.Errors, RowError{Row: i, Field: FieldDate, Kind: MissingField})
			continue
		}
		rawAmount, ok := fields[FieldAmount]
		if !ok || rawAmount == "" {
			res.Errors = append(res.Errors, RowError{Row: i, Field: FieldAmount, Kind: MissingField})
			continue
		}

		date, err := n.parseDate(rawDate)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: i, Field: FieldDate, Kind: UnparseableDate, Value: rawDate})
			continue
		}
		cents, err := core.ParseAmountToCents(rawAmount)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: i, Field: FieldAmount, Kind: UnparseableAmount, Value: rawAmount})
			continue
		}
		if cents == 0 {
			res.Warnings = append(res.Warnings, RowError{Row: i, Field: FieldAmount, Kind: ZeroAmount, Value: rawAmount})
		}

		category := fields[FieldCategory]
		if category == "" {
			category = core.Uncategorized
		}

		res.Transactions = append(res.Transactions, core.Transaction{
			Date:        date,
			Amount:      core.Money{Cents: cents},
			Category:    category,
			Description: fields[FieldDescription],
			Account:     fields[FieldAccount],
		})
	}
	return res
}

// labelIndex flattens the alias table into normalized label -> field.
func (n *Normalizer) labelIndex() map[string]string {
	lookup := make(map[string]string)
	for field, labels := range n.aliases {
		for _, label := range labels {
			lookup[normalizeLabel(label)] = field
		}
	}
	return lookup
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// parseDate tries each configured layout in order; first success wins.
func (n *Normalizer) parseDate(raw string) (core.Date, error) {
	for _, layout := range n.formats {
		if t, err := time.Parse(layout, raw); err == nil {
			return core.DateOf(t), nil
		}
	}
	return core.Date{}, core.ErrInvalidDate
}
