package handlers

import (
	"net/http"

	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/services"
)

// NoteHandler serves clinical note endpoints
type NoteHandler struct {
	notes *services.NoteService
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(notes *services.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// Create writes a clinical note.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.CreateNoteRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	n, err := h.notes.Create(r.Context(), scope, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// List returns notes, optionally filtered by ?patient_id=.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	patientID, err := queryUUID(r, "patient_id")
	if err != nil {
		writeErr(w, err)
		return
	}
	notes, err := h.notes.List(r.Context(), scope, patientID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// Get returns one note.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	n, err := h.notes.Get(r.Context(), scope, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Delete removes a note.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.notes.Delete(r.Context(), scope, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
