package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tracker/internal/core"
	"tracker/internal/ledger"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps domain sentinels onto HTTP statuses. Unknown errors are
// reported as 500 without leaking internals.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"

	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
		msg = err.Error()
	case errors.Is(err, core.ErrCategoryInUse):
		status = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrNegativeBudget):
		status = http.StatusUnprocessableEntity
		msg = err.Error()
	case errors.As(err, new(*badRequestError)):
		status = http.StatusBadRequest
		msg = err.Error()
	}

	resp := errorResponse{Error: msg}
	if id, ok := r.Context().Value(requestIDKey{}).(string); ok {
		resp.RequestID = id
	}
	writeJSON(w, status, resp)
}

// badRequestError marks malformed input (bad JSON, bad query params) as
// distinct from domain validation failures.
type badRequestError struct {
	msg string
}

func (e *badRequestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &badRequestError{msg: fmt.Sprintf(format, args...)}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}

// parseAmountValue accepts either a JSON string ("-12.50", "€1.234,50")
// or a JSON number.
func parseAmountValue(v any) (core.Money, error) {
	switch a := v.(type) {
	case string:
		return parseMoneyString(a)
	case json.Number:
		return parseMoneyString(a.String())
	case nil:
		return core.Money{}, badRequest("missing amount")
	default:
		return core.Money{}, badRequest("amount must be a string or number")
	}
}

func parseMoneyString(s string) (core.Money, error) {
	cents, err := core.ParseAmountToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

func parseDateString(s string) (core.Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return core.Date{}, badRequest("invalid date %q, want YYYY-MM-DD", s)
	}
	return core.DateOf(t), nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid transaction id %q", r.PathValue("id"))
	}
	return id, nil
}

// filterFromQuery builds a ledger filter from from/to/category/account/
// min_amount/max_amount query parameters.
func filterFromQuery(r *http.Request) (ledger.Filter, error) {
	var f ledger.Filter
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := parseDateString(v)
		if err != nil {
			return f, err
		}
		f.From = &d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := parseDateString(v)
		if err != nil {
			return f, err
		}
		f.To = &d
	}
	for _, c := range q["category"] {
		if c = strings.TrimSpace(c); c != "" {
			f.Categories = append(f.Categories, c)
		}
	}
	f.Account = strings.TrimSpace(q.Get("account"))
	if v := strings.TrimSpace(q.Get("min_amount")); v != "" {
		m, err := parseMoneyString(v)
		if err != nil {
			return f, badRequest("invalid min_amount %q", v)
		}
		f.MinAmount = &m
	}
	if v := strings.TrimSpace(q.Get("max_amount")); v != "" {
		m, err := parseMoneyString(v)
		if err != nil {
			return f, badRequest("invalid max_amount %q", v)
		}
		f.MaxAmount = &m
	}
	return f, nil
}

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current month.
func parseYearMonth(r *http.Request) (year, month int, err error) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			return 0, 0, badRequest("invalid year: " + v)
		}
		year = y
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, badRequest("invalid month: " + v)
		}
		month = m
	}
	return year, month, nil
}

type transactionJSON struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Account     string `json:"account"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          tx.ID,
		Date:        tx.Date.Format(time.DateOnly),
		Amount:      tx.Amount.String(),
		AmountCents: tx.Amount.Cents,
		Category:    tx.Category,
		Description: tx.Description,
		Account:     tx.Account,
	}
}

func toTransactionList(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionJSON(tx))
	}
	return out
}
