package handlers

import (
	"net/http"

	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/services"
)

// ProcedureHandler serves the clinic's procedure catalog endpoints
type ProcedureHandler struct {
	procedures *services.ProcedureService
}

// NewProcedureHandler creates a new procedure handler
func NewProcedureHandler(procedures *services.ProcedureService) *ProcedureHandler {
	return &ProcedureHandler{procedures: procedures}
}

// Create adds a catalog entry.
func (h *ProcedureHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.ProcedureRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	p, err := h.procedures.Create(r.Context(), scope, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// List returns the catalog.
func (h *ProcedureHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	procedures, err := h.procedures.List(r.Context(), scope)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, procedures)
}

// Get returns one catalog entry.
func (h *ProcedureHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	p, err := h.procedures.Get(r.Context(), scope, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Update modifies a catalog entry.
func (h *ProcedureHandler) Update(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.ProcedureRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	p, err := h.procedures.Update(r.Context(), scope, id, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete removes a catalog entry.
func (h *ProcedureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := h.procedures.Delete(r.Context(), scope, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
