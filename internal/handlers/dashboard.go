package handlers

import (
	"net/http"

	"github.com/dentara/practice-api/internal/services"
)

// DashboardHandler serves rollup endpoints
type DashboardHandler struct {
	dashboard *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary returns today's rollup for the scope.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	summary, err := h.dashboard.Summary(r.Context(), scope)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
