package http

import (
	"net/http"
	"strings"
	"time"

	"tracker/internal/aggregate"
	"tracker/internal/core"
	"tracker/internal/report"
)

func parseBucket(r *http.Request) (aggregate.Bucket, error) {
	v := strings.TrimSpace(r.URL.Query().Get("bucket"))
	switch aggregate.Bucket(v) {
	case "":
		return aggregate.Month, nil
	case aggregate.Day, aggregate.Week, aggregate.Month, aggregate.Year:
		return aggregate.Bucket(v), nil
	}
	return "", badRequest("invalid bucket %q, want day, week, month or year", v)
}

func (s *Server) handlePeriodTotals(w http.ResponseWriter, r *http.Request) {
	bucket, err := parseBucket(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.mu.Lock()
	txs := s.ledger.Query(f)
	s.mu.Unlock()

	// With explicit bounds, empty buckets inside the range show as zeros.
	var opts []aggregate.Option
	if f.From != nil && f.To != nil {
		opts = append(opts, aggregate.WithRange(*f.From, *f.To))
	}
	totals := aggregate.TotalsByPeriod(txs, bucket, opts...)

	type periodJSON struct {
		Start   string `json:"start"`
		Income  string `json:"income"`
		Expense string `json:"expense"`
		Net     string `json:"net"`
	}
	out := make([]periodJSON, 0, len(totals))
	for _, p := range totals {
		out = append(out, periodJSON{
			Start:   p.Start.Format(time.DateOnly),
			Income:  p.Income.String(),
			Expense: p.Expense.String(),
			Net:     p.Net.String(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bucket":  string(bucket),
		"periods": out,
	})
}

func (s *Server) handleCategoryTotals(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.mu.Lock()
	txs := s.ledger.Query(f)
	s.mu.Unlock()

	totals := aggregate.ByCategory(txs)

	type categoryTotalJSON struct {
		Name    string `json:"name"`
		Count   int    `json:"count"`
		Income  string `json:"income"`
		Expense string `json:"expense"`
	}
	out := make([]categoryTotalJSON, 0, len(totals))
	for _, c := range totals {
		out = append(out, categoryTotalJSON{
			Name:    c.Name,
			Count:   c.Count,
			Income:  c.Income.String(),
			Expense: c.Expense.String(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (s *Server) handleRunningBalance(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var starting core.Money
	if v := strings.TrimSpace(r.URL.Query().Get("starting")); v != "" {
		starting, err = parseMoneyString(v)
		if err != nil {
			writeError(w, r, badRequest("invalid starting balance %q", v))
			return
		}
	}

	s.mu.Lock()
	txs := s.ledger.Query(f)
	s.mu.Unlock()

	points := aggregate.RunningBalance(txs, starting)

	type balanceJSON struct {
		Date    string `json:"date"`
		Balance string `json:"balance"`
	}
	out := make([]balanceJSON, 0, len(points))
	for _, p := range points {
		out = append(out, balanceJSON{
			Date:    p.Date.Format(time.DateOnly),
			Balance: p.Balance.String(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"starting": starting.String(),
		"points":   out,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	bucket, err := parseBucket(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cfg := report.Config{
		Title:  strings.TrimSpace(r.URL.Query().Get("title")),
		Bucket: bucket,
	}
	if v := strings.TrimSpace(r.URL.Query().Get("starting")); v != "" {
		cfg.StartingBalance, err = parseMoneyString(v)
		if err != nil {
			writeError(w, r, badRequest("invalid starting balance %q", v))
			return
		}
	}
	for _, section := range strings.Split(r.URL.Query().Get("include"), ",") {
		switch strings.TrimSpace(section) {
		case "trend":
			cfg.IncludeTrend = true
		case "balance":
			cfg.IncludeBalance = true
		case "listing":
			cfg.IncludeListing = true
		}
	}

	s.mu.Lock()
	txs := s.ledger.Query(f)
	s.mu.Unlock()

	m := report.Assemble(txs, cfg)
	writeJSON(w, http.StatusOK, reportToJSON(m))
}

// reportToJSON flattens the report model into JSON-friendly shapes with
// decimal strings.
func reportToJSON(m report.Model) map[string]any {
	out := map[string]any{
		"title": m.Title,
		"summary": map[string]any{
			"count":   m.Summary.Count,
			"income":  m.Summary.Income.String(),
			"expense": m.Summary.Expense.String(),
			"net":     m.Summary.Net.String(),
		},
	}

	cats := make([]map[string]any, 0, len(m.Categories))
	for _, c := range m.Categories {
		cats = append(cats, map[string]any{
			"name":    c.Name,
			"count":   c.Count,
			"income":  c.Income.String(),
			"expense": c.Expense.String(),
		})
	}
	out["categories"] = cats

	if m.Trend != nil {
		trend := make([]map[string]any, 0, len(m.Trend))
		for _, p := range m.Trend {
			trend = append(trend, map[string]any{
				"start":   p.Start.Format(time.DateOnly),
				"income":  p.Income.String(),
				"expense": p.Expense.String(),
				"net":     p.Net.String(),
			})
		}
		out["trend"] = trend
	}
	if m.Balance != nil {
		balance := make([]map[string]any, 0, len(m.Balance))
		for _, p := range m.Balance {
			balance = append(balance, map[string]any{
				"date":    p.Date.Format(time.DateOnly),
				"balance": p.Balance.String(),
			})
		}
		out["balance"] = balance
	}
	if m.Listing != nil {
		listing := make([]map[string]any, 0, len(m.Listing))
		for _, row := range m.Listing {
			listing = append(listing, map[string]any{
				"id":          row.ID,
				"date":        row.Date.Format(time.DateOnly),
				"amount":      row.Amount.String(),
				"category":    row.Category,
				"description": row.Description,
				"account":     row.Account,
			})
		}
		out["listing"] = listing
	}
	return out
}
