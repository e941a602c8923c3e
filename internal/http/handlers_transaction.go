package http

import (
	"context"
	"net/http"
	"strings"

	"tracker/internal/core"
	"tracker/internal/ledger"
	applog "tracker/internal/log"
)

type transactionRequest struct {
	Date        string `json:"date"`
	Amount      any    `json:"amount"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Account     string `json:"account"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	date, err := parseDateString(strings.TrimSpace(req.Date))
	if err != nil {
		writeError(w, r, err)
		return
	}
	amount, err := parseAmountValue(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx := core.Transaction{
		Date:        date,
		Amount:      amount,
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Account:     strings.TrimSpace(req.Account),
	}

	s.mu.Lock()
	id, err := s.ledger.Add(tx)
	if err != nil {
		s.mu.Unlock()
		writeError(w, r, err)
		return
	}
	stored, _ := s.ledger.Get(id)
	s.mu.Unlock()

	s.persistTransaction(r.Context(), stored)
	s.publishSync(r.Context(), id)

	writeJSON(w, http.StatusCreated, toTransactionJSON(stored))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.mu.Lock()
	txs := s.ledger.Query(f)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": toTransactionList(txs),
		"count":        len(txs),
	})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.mu.Lock()
	tx, err := s.ledger.Get(id)
	s.mu.Unlock()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

type transactionPatchRequest struct {
	Date        *string `json:"date"`
	Amount      any     `json:"amount"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Account     *string `json:"account"`
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req transactionPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var p ledger.Patch
	if req.Date != nil {
		d, err := parseDateString(strings.TrimSpace(*req.Date))
		if err != nil {
			writeError(w, r, err)
			return
		}
		p.Date = &d
	}
	if req.Amount != nil {
		m, err := parseAmountValue(req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}
		p.Amount = &m
	}
	p.Category = req.Category
	p.Description = req.Description
	p.Account = req.Account

	s.mu.Lock()
	tx, err := s.ledger.Update(id, p)
	s.mu.Unlock()
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.persistTransaction(r.Context(), tx)
	s.publishSync(r.Context(), id)

	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.mu.Lock()
	err = s.ledger.Remove(id)
	s.mu.Unlock()
	if err != nil {
		writeError(w, r, err)
		return
	}

	if s.repo != nil {
		if err := s.repo.DeleteTransaction(r.Context(), id); err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to delete persisted transaction",
				applog.FieldTransactionID, id,
				applog.FieldError, err)
		}
	}
	if s.pub != nil {
		if err := s.pub.PublishTransactionDelete(r.Context(), id); err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to publish delete message",
				applog.FieldTransactionID, id,
				applog.FieldError, err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// persistTransaction mirrors the ledger row to SQLite. The ledger stays
// the source of truth; a persistence failure is logged and the periodic
// sweep repairs the sheet later from whatever storage holds.
func (s *Server) persistTransaction(ctx context.Context, tx core.Transaction) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveTransaction(ctx, tx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist transaction",
			applog.FieldTransactionID, tx.ID,
			applog.FieldError, err)
	}
}

func (s *Server) publishSync(ctx context.Context, id int64) {
	if s.pub == nil {
		return
	}
	if err := s.pub.PublishTransactionSync(ctx, id, 1); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish sync message",
			applog.FieldTransactionID, id,
			applog.FieldError, err)
	}
}
