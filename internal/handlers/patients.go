package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/services"
)

// PatientHandler serves patient record and treatment plan endpoints
type PatientHandler struct {
	patients *services.PatientService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(patients *services.PatientService) *PatientHandler {
	return &PatientHandler{patients: patients}
}

// Create registers a patient.
func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.CreatePatientRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	patient, err := h.patients.Create(r.Context(), scope, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, patient)
}

// List returns visible patients, with an optional ?search= term.
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	patients, err := h.patients.List(r.Context(), scope, r.URL.Query().Get("search"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patients)
}

// Get returns one patient with their treatment plan.
func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	patient, err := h.patients.Get(r.Context(), scope, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

// Update modifies a patient's profile.
func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var req models.UpdatePatientRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	patient, err := h.patients.Update(r.Context(), scope, id, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patient)
}

// Delete removes a patient record.
func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.patients.Delete(r.Context(), scope, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTreatment appends a treatment plan line.
func (h *PatientHandler) AddTreatment(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	patientID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.AddTreatmentRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	item, err := h.patients.AddTreatment(r.Context(), scope, patientID, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// StartTreatments moves proposed plan items into progress.
func (h *PatientHandler) StartTreatments(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	patientID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	var req struct {
		TreatmentIDs []uuid.UUID `json:"treatment_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, apperr.BadRequestf("invalid request body"))
		return
	}
	items, err := h.patients.StartTreatments(r.Context(), scope, patientID, req.TreatmentIDs)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// UpdateTreatment transitions one plan item's status.
func (h *PatientHandler) UpdateTreatment(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	patientID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	itemID, err := pathID(r, "treatmentID")
	if err != nil {
		writeErr(w, err)
		return
	}
	var req struct {
		Status models.TreatmentStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, apperr.BadRequestf("invalid request body"))
		return
	}
	if err := h.patients.UpdateTreatmentStatus(r.Context(), scope, patientID, itemID, req.Status); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Ledger returns the patient's merged financial history.
func (h *PatientHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	patientID, err := pathID(r, "id")
	if err != nil {
		writeErr(w, err)
		return
	}
	entries, err := h.patients.Ledger(r.Context(), scope, patientID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
