package handlers

import (
	"net/http"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/middleware"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/services"
)

// BranchHandler serves branch management endpoints
type BranchHandler struct {
	branches *services.BranchService
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(branches *services.BranchService) *BranchHandler {
	return &BranchHandler{branches: branches}
}

// scopeOf pulls the resolved request scope, which the routing guarantees.
func scopeOf(r *http.Request) (models.RequestScope, error) {
	scope, ok := middleware.GetScope(r.Context())
	if !ok {
		return models.RequestScope{}, apperr.Unauthenticatedf("authorization required")
	}
	return scope, nil
}

// Create opens a new branch.
func (h *BranchHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.BranchRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	branch, err := h.branches.Create(r.Context(), scope, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, branch)
}

// List returns the clinic's branches.
func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	branches, err := h.branches.List(r.Context(), scope)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, branches)
}

// Get returns one branch.
func (h *BranchHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	branch, err := h.branches.Get(r.Context(), scope, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, branch)
}

// Update modifies a branch.
func (h *BranchHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var req models.BranchRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	branch, err := h.branches.Update(r.Context(), scope, id, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, branch)
}

// Delete closes a branch.
func (h *BranchHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.branches.Delete(r.Context(), scope, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
