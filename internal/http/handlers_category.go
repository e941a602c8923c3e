package http

import (
	"net/http"
	"strings"

	"tracker/internal/core"
	"tracker/internal/ledger"
	applog "tracker/internal/log"
)

type categoryJSON struct {
	Name string `json:"name"`
	Kind string `json:"kind,omitempty"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	cats := s.ledger.Categories()
	s.mu.Unlock()

	out := make([]categoryJSON, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryJSON{Name: c.Name, Kind: string(c.Kind)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryJSON
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c := core.Category{Name: strings.TrimSpace(req.Name), Kind: core.CategoryKind(req.Kind)}

	s.mu.Lock()
	err := s.ledger.AddCategory(c)
	if err == nil {
		// Re-registering an existing name without a kind keeps the stored
		// kind, so persist and echo what the ledger actually holds.
		for _, cc := range s.ledger.Categories() {
			if strings.EqualFold(cc.Name, c.Name) {
				c = cc
				break
			}
		}
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, r, err)
		return
	}

	if s.repo != nil {
		if err := s.repo.SaveCategory(r.Context(), c); err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to persist category",
				applog.FieldCategory, c.Name,
				applog.FieldError, err)
		}
	}
	writeJSON(w, http.StatusCreated, categoryJSON{Name: c.Name, Kind: string(c.Kind)})
}

type categoryPatchRequest struct {
	Kind     *string `json:"kind"`
	RenameTo *string `json:"rename_to"`
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))
	var req categoryPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Kind == nil && req.RenameTo == nil {
		writeError(w, r, badRequest("nothing to update"))
		return
	}

	s.mu.Lock()
	if req.Kind != nil {
		if err := s.ledger.SetCategoryKind(name, core.CategoryKind(*req.Kind)); err != nil {
			s.mu.Unlock()
			writeError(w, r, err)
			return
		}
	}
	if req.RenameTo != nil {
		if err := s.ledger.RenameCategory(name, *req.RenameTo); err != nil {
			s.mu.Unlock()
			writeError(w, r, err)
			return
		}
		name = strings.TrimSpace(*req.RenameTo)
	}
	var updated core.Category
	for _, c := range s.ledger.Categories() {
		if strings.EqualFold(c.Name, name) {
			updated = c
			break
		}
	}
	moved := s.ledger.Query(ledger.Filter{Categories: []string{name}})
	s.mu.Unlock()

	if s.repo != nil {
		ctx := r.Context()
		if req.RenameTo != nil {
			if err := s.repo.DeleteCategory(ctx, strings.TrimSpace(r.PathValue("name"))); err != nil {
				s.logger.ErrorContext(ctx, "Failed to delete renamed category",
					applog.FieldCategory, r.PathValue("name"),
					applog.FieldError, err)
			}
		}
		if err := s.repo.SaveCategory(ctx, updated); err != nil {
			s.logger.ErrorContext(ctx, "Failed to persist category",
				applog.FieldCategory, name,
				applog.FieldError, err)
		}
		// Renames touch every referencing transaction.
		for _, tx := range moved {
			s.persistTransaction(ctx, tx)
		}
	}

	writeJSON(w, http.StatusOK, categoryJSON{Name: updated.Name, Kind: string(updated.Kind)})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))
	reassignTo := strings.TrimSpace(r.URL.Query().Get("reassign_to"))

	s.mu.Lock()
	err := s.ledger.DeleteCategory(name, reassignTo)
	var moved []core.Transaction
	if err == nil && reassignTo != "" {
		moved = s.ledger.Query(ledger.Filter{Categories: []string{reassignTo}})
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, r, err)
		return
	}

	if s.repo != nil {
		ctx := r.Context()
		if err := s.repo.DeleteCategory(ctx, name); err != nil {
			s.logger.ErrorContext(ctx, "Failed to delete persisted category",
				applog.FieldCategory, name,
				applog.FieldError, err)
		}
		if err := s.repo.DeleteBudget(ctx, name); err != nil {
			s.logger.ErrorContext(ctx, "Failed to delete persisted budget",
				applog.FieldCategory, name,
				applog.FieldError, err)
		}
		for _, tx := range moved {
			s.persistTransaction(ctx, tx)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}
