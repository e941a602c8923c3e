package http

import (
	"net/http"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/normalize"
)

type importRequest struct {
	Rows []normalize.Row `json:"rows"`
}

type rowErrorJSON struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Kind  string `json:"kind"`
	Value string `json:"value,omitempty"`
}

func toRowErrors(errs []normalize.RowError) []rowErrorJSON {
	out := make([]rowErrorJSON, 0, len(errs))
	for _, e := range errs {
		out = append(out, rowErrorJSON{Row: e.Row, Field: e.Field, Kind: string(e.Kind), Value: e.Value})
	}
	return out
}

// handleImport normalizes a batch of raw rows and inserts the valid ones.
// A malformed row never discards the batch: the response reports exactly
// which rows failed and why.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.Rows) == 0 {
		writeError(w, r, badRequest("no rows to import"))
		return
	}

	result := s.normalizer.Normalize(req.Rows)

	ctx := r.Context()
	ids := make([]int64, 0, len(result.Transactions))
	var inserted []core.Transaction

	s.mu.Lock()
	for _, tx := range result.Transactions {
		id, err := s.ledger.Add(tx)
		if err != nil {
			// Normalized rows already passed validation; an insert
			// failure here is unexpected but still must not sink the
			// rest of the batch.
			s.logger.ErrorContext(ctx, "Failed to insert normalized row",
				applog.FieldError, err)
			continue
		}
		ids = append(ids, id)
		stored, _ := s.ledger.Get(id)
		inserted = append(inserted, stored)
	}
	s.mu.Unlock()

	for _, tx := range inserted {
		s.persistTransaction(ctx, tx)
		s.publishSync(ctx, tx.ID)
	}

	s.logger.InfoContext(ctx, "Import completed",
		applog.FieldRowCount, len(req.Rows),
		"imported", len(ids),
		applog.FieldErrorCount, len(result.Errors))

	writeJSON(w, http.StatusOK, map[string]any{
		"imported": len(ids),
		"failed":   len(result.Errors),
		"ids":      ids,
		"errors":   toRowErrors(result.Errors),
		"warnings": toRowErrors(result.Warnings),
	})
}
