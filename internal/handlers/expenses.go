package handlers

import (
	"net/http"

	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/services"
)

// ExpenseHandler serves expense endpoints
type ExpenseHandler struct {
	expenses *services.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenses *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// Create records an expense.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.CreateExpenseRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	e, err := h.expenses.Create(r.Context(), scope, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// List returns expenses, optionally windowed by ?from= and ?to=.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	from, err := queryTime(r, "from")
	if err != nil {
		writeErr(w, err)
		return
	}
	to, err := queryTime(r, "to")
	if err != nil {
		writeErr(w, err)
		return
	}
	expenses, err := h.expenses.List(r.Context(), scope, from, to)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

// Get returns one expense.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	e, err := h.expenses.Get(r.Context(), scope, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Delete removes an expense.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.expenses.Delete(r.Context(), scope, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
