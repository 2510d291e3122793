package handlers

import (
	"net/http"

	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/services"
)

// InventoryHandler serves branch stock endpoints
type InventoryHandler struct {
	inventory *services.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventory *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// Restock adds stock, creating the item on first use.
func (h *InventoryHandler) Restock(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.RestockRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	item, err := h.inventory.Restock(r.Context(), scope, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Consume deducts stock.
func (h *InventoryHandler) Consume(w http.ResponseWriter, r *http.Request) {
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
	var req models.ConsumeRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	item, err := h.inventory.Consume(r.Context(), scope, id, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// List returns the branch's stock.
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	items, err := h.inventory.List(r.Context(), scope)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns one stock item.
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	item, err := h.inventory.Get(r.Context(), scope, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Update modifies item metadata.
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var req models.UpdateInventoryRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	item, err := h.inventory.Update(r.Context(), scope, id, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete removes a stock item.
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.inventory.Delete(r.Context(), scope, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Alerts returns items at or below their low-stock threshold.
func (h *InventoryHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	items, err := h.inventory.LowStock(r.Context(), scope)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Logs returns stock movement history, optionally filtered by ?item_id=.
func (h *InventoryHandler) Logs(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	itemID, err := queryUUID(r, "item_id")
	if err != nil {
		writeErr(w, err)
		return
	}
	logs, err := h.inventory.Logs(r.Context(), scope, itemID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
