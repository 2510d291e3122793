package services

import (
	"context"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

// SettingsService handles clinic profile and role policy management
type SettingsService struct {
	clinics *repository.ClinicRepository
	roles   *repository.RoleRepository
	audit   *AuditService
}

// NewSettingsService creates a new settings service
func NewSettingsService(clinics *repository.ClinicRepository, roles *repository.RoleRepository, audit *AuditService) *SettingsService {
	return &SettingsService{clinics: clinics, roles: roles, audit: audit}
}

// ClinicProfile returns the scope's clinic.
func (s *SettingsService) ClinicProfile(ctx context.Context, scope models.RequestScope) (*models.Clinic, error) {
	return s.clinics.GetByID(ctx, scope.ClinicID)
}

// UpdateClinicProfile replaces the clinic's profile fields. The short id is
// immutable.
func (s *SettingsService) UpdateClinicProfile(ctx context.Context, scope models.RequestScope, req models.ClinicProfileRequest) (*models.Clinic, error) {
	clinic, err := s.clinics.GetByID(ctx, scope.ClinicID)
	if err != nil {
		return nil, err
	}
	clinic.Name = req.Name
	clinic.LegalName = req.LegalName
	clinic.RegistrationNumber = req.RegistrationNumber
	clinic.TaxID = req.TaxID
	clinic.Phone = req.Phone
	clinic.Email = req.Email
	clinic.Website = req.Website
	clinic.Address = req.Address
	clinic.City = req.City
	clinic.State = req.State
	clinic.Zip = req.Zip

	if err := s.clinics.Update(ctx, clinic); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "UPDATE_CLINIC", "clinic", clinic.ID.String(), "")
	return clinic, nil
}

// RolePolicies returns the clinic's per-role permission lists.
func (s *SettingsService) RolePolicies(ctx context.Context, scope models.RequestScope) ([]models.RolePolicy, error) {
	return s.roles.ListByClinic(ctx, scope)
}

// UpdateRolePolicy replaces one role's permission list. Permission keys are
// validated against the closed set; the administrator policy is fixed.
func (s *SettingsService) UpdateRolePolicy(ctx context.Context, scope models.RequestScope, req models.UpdateRolePolicyRequest) (*models.RolePolicy, error) {
	if !models.ValidRole(req.Role) {
		return nil, apperr.BadRequestf("unknown role %q", req.Role)
	}
	if req.Role == models.RoleAdministrator {
		return nil, apperr.BadRequestf("administrator permissions cannot be modified")
	}
	for _, p := range req.Permissions {
		if !models.KnownPermissions[p] {
			return nil, apperr.BadRequestf("unknown permission %q", p)
		}
	}
	policy, err := s.roles.Upsert(ctx, scope, req.Role, req.Permissions)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "UPDATE_ROLE_POLICY", "role_policy", string(req.Role), "")
	return policy, nil
}

// HasPermission reports whether the scope's role carries the permission in
// its clinic. Administrators implicitly hold every permission.
func (s *SettingsService) HasPermission(ctx context.Context, scope models.RequestScope, permission string) (bool, error) {
	if scope.IsAdmin() {
		return true, nil
	}
	policy, err := s.roles.GetByRole(ctx, scope, scope.Role)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return false, nil
		}
		return false, err
	}
	for _, p := range policy.Permissions {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}
