package handlers

import (
	"net/http"

	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/services"
)

// SettingsHandler serves clinic profile and role policy endpoints
type SettingsHandler struct {
	settings *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// ClinicProfile returns the clinic's profile.
func (h *SettingsHandler) ClinicProfile(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	clinic, err := h.settings.ClinicProfile(r.Context(), scope)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clinic)
}

// UpdateClinicProfile replaces the clinic's profile.
func (h *SettingsHandler) UpdateClinicProfile(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.ClinicProfileRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	clinic, err := h.settings.UpdateClinicProfile(r.Context(), scope, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clinic)
}

// RolePolicies returns the clinic's per-role permissions.
func (h *SettingsHandler) RolePolicies(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	policies, err := h.settings.RolePolicies(r.Context(), scope)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, policies)
}

// UpdateRolePolicy replaces one role's permission list.
func (h *SettingsHandler) UpdateRolePolicy(w http.ResponseWriter, r *http.Request) {
	scope, err := scopeOf(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var req models.UpdateRolePolicyRequest
	if err := decode(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	policy, err := h.settings.UpdateRolePolicy(r.Context(), scope, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, policy)
}
