package handlers

import (
	"net/http"
	"time"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/services"
)

// AppointmentHandler serves calendar endpoints
type AppointmentHandler struct {
	appointments *services.AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(appointments *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

// Create books an appointment.
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.CreateAppointmentRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	appt, err := h.appointments.Create(r.Context(), scope, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// List returns appointments, optionally windowed by ?from= and ?to=
// (RFC 3339).
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
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
	appts, err := h.appointments.List(r.Context(), scope, from, to)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

// Get returns one appointment.
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	appt, err := h.appointments.Get(r.Context(), scope, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// Update reschedules or transitions an appointment.
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var req models.UpdateAppointmentRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	appt, err := h.appointments.Update(r.Context(), scope, id, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

// Delete removes an appointment.
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.appointments.Delete(r.Context(), scope, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryTime parses an optional RFC 3339 query parameter.
func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperr.BadRequestf("invalid %s, want RFC 3339", name)
	}
	return &t, nil
}
