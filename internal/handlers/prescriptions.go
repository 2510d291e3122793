package handlers

import (
	"net/http"

	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/services"
)

// PrescriptionHandler serves prescription and drug catalog endpoints
type PrescriptionHandler struct {
	prescriptions *services.PrescriptionService
}

// NewPrescriptionHandler creates a new prescription handler
func NewPrescriptionHandler(prescriptions *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{prescriptions: prescriptions}
}

// Create issues a prescription.
func (h *PrescriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.CreatePrescriptionRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	p, err := h.prescriptions.Create(r.Context(), scope, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// List returns prescriptions, optionally filtered by ?patient_id=.
func (h *PrescriptionHandler) List(w http.ResponseWriter, r *http.Request) {
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
	prescriptions, err := h.prescriptions.List(r.Context(), scope, patientID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prescriptions)
}

// Get returns one prescription.
func (h *PrescriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	p, err := h.prescriptions.Get(r.Context(), scope, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete removes a prescription.
func (h *PrescriptionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.prescriptions.Delete(r.Context(), scope, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateDrug adds a drug catalog entry.
func (h *PrescriptionHandler) CreateDrug(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.DrugRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	drug, err := h.prescriptions.CreateDrug(r.Context(), scope, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, drug)
}

// ListDrugs returns the clinic's drug catalog.
func (h *PrescriptionHandler) ListDrugs(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	drugs, err := h.prescriptions.ListDrugs(r.Context(), scope)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drugs)
}

// UpdateDrug modifies a catalog entry.
func (h *PrescriptionHandler) UpdateDrug(w http.ResponseWriter, r *http.Request) {
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
	var req models.DrugRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	drug, err := h.prescriptions.UpdateDrug(r.Context(), scope, id, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drug)
}

// DeleteDrug removes a catalog entry.
func (h *PrescriptionHandler) DeleteDrug(w http.ResponseWriter, r *http.Request) {
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
	if err := h.prescriptions.DeleteDrug(r.Context(), scope, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
