package http

import (
	"errors"
	"net/http"
	"strings"

	"tracker/internal/core"
	applog "tracker/internal/log"
)

type budgetProgressJSON struct {
	Category  string  `json:"category"`
	Spent     string  `json:"spent"`
	Budget    string  `json:"budget"`
	Remaining string  `json:"remaining"`
	Ratio     float64 `json:"ratio"`
}

type setBudgetRequest struct {
	Monthly any `json:"monthly"`
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.PathValue("category"))

	var req setBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	monthly, err := parseAmountValue(req.Monthly)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.mu.Lock()
	err = s.ledger.SetBudget(category, monthly)
	s.mu.Unlock()
	if err != nil {
		writeError(w, r, err)
		return
	}

	if s.repo != nil {
		if err := s.repo.SaveBudget(r.Context(), category, monthly); err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to persist budget",
				applog.FieldCategory, category,
				applog.FieldError, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"monthly":  monthly.String(),
	})
}

func (s *Server) handleRemoveBudget(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.PathValue("category"))

	s.mu.Lock()
	err := s.ledger.RemoveBudget(category)
	s.mu.Unlock()
	if err != nil {
		writeError(w, r, err)
		return
	}

	if s.repo != nil {
		if err := s.repo.DeleteBudget(r.Context(), category); err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to delete persisted budget",
				applog.FieldCategory, category,
				applog.FieldError, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.mu.Lock()
	cats := s.ledger.Categories()
	out := make([]budgetProgressJSON, 0, len(cats))
	for _, c := range cats {
		p, err := s.ledger.Progress(c.Name, year, month)
		if errors.Is(err, core.ErrNotFound) {
			continue
		}
		if err != nil {
			s.mu.Unlock()
			writeError(w, r, err)
			return
		}
		out = append(out, budgetProgressJSON{
			Category:  p.Category,
			Spent:     p.Spent.String(),
			Budget:    p.Budget.String(),
			Remaining: p.Remaining.String(),
			Ratio:     p.Ratio,
		})
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"year":    year,
		"month":   month,
		"budgets": out,
	})
}

func (s *Server) handleBudgetAlerts(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.mu.Lock()
	alerts := s.ledger.Alerts(year, month)
	s.mu.Unlock()

	type alertJSON struct {
		Category string             `json:"category"`
		Exceeded bool               `json:"exceeded"`
		Progress budgetProgressJSON `json:"progress"`
	}
	out := make([]alertJSON, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, alertJSON{
			Category: a.Category,
			Exceeded: a.Exceeded,
			Progress: budgetProgressJSON{
				Category:  a.Progress.Category,
				Spent:     a.Progress.Spent.String(),
				Budget:    a.Progress.Budget.String(),
				Remaining: a.Progress.Remaining.String(),
				Ratio:     a.Progress.Ratio,
			},
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":   year,
		"month":  month,
		"alerts": out,
	})
}
