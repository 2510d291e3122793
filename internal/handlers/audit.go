package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dentara/practice-api/internal/repository"
	"github.com/dentara/practice-api/internal/services"
)

// AuditHandler serves audit log endpoints
type AuditHandler struct {
	audit *services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List returns audit entries, filterable by ?entity=, ?action=, ?limit=,
// ?offset=.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	q := r.URL.Query()
	filter := repository.AuditFilter{
		Entity: q.Get("entity"),
		Action: q.Get("action"),
	}
	if raw := q.Get("limit"); raw != "" {
		filter.Limit, _ = strconv.Atoi(raw)
	}
	if raw := q.Get("offset"); raw != "" {
		filter.Offset, _ = strconv.Atoi(raw)
	}
	logs, err := h.audit.List(r.Context(), scope, filter)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// Trail returns the full history of one record.
func (h *AuditHandler) Trail(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	entity := chi.URLParam(r, "entity")
	entityID := chi.URLParam(r, "entityID")
	logs, err := h.audit.Trail(r.Context(), scope, entity, entityID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
