package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/auth"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

// UserService handles business logic for staff management
type UserService struct {
	users           *repository.UserRepository
	branches        *repository.BranchRepository
	audit           *AuditService
	defaultPassword string
}

// NewUserService creates a new user service
func NewUserService(
	users *repository.UserRepository,
	branches *repository.BranchRepository,
	audit *AuditService,
	defaultPassword string,
) *UserService {
	return &UserService{
		users:           users,
		branches:        branches,
		audit:           audit,
		defaultPassword: defaultPassword,
	}
}

// Create adds a staff member to the scope's clinic. Without an explicit
// password the account gets the configured initial password and must change
// it on first login. Branch assignments are validated against the clinic.
func (s *UserService) Create(ctx context.Context, scope models.RequestScope, req models.CreateUserRequest) (*models.User, error) {
	if !models.ValidRole(req.Role) {
		return nil, apperr.BadRequestf("unknown role %q", req.Role)
	}

	password := req.Password
	mustChange := false
	if password == "" {
		password = s.defaultPassword
		mustChange = true
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Internalf(err, "internal server error")
	}

	allowed, err := s.resolveBranches(ctx, scope, req.BranchIDs)
	if err != nil {
		return nil, err
	}
	// The default branch must be a member of the allowed set. A requested
	// default outside the set is added to it rather than rejected.
	if req.DefaultBranch != nil && !branchInSet(allowed, *req.DefaultBranch) {
		branch, err := s.branches.GetByID(ctx, scope, *req.DefaultBranch)
		if err != nil {
			if apperr.Is(err, apperr.NotFound) {
				return nil, apperr.BadRequestf("default branch does not belong to the clinic")
			}
			return nil, err
		}
		allowed = append(allowed, *branch)
	}

	user := &models.User{
		ClinicID:           scope.ClinicID,
		FullName:           req.FullName,
		Email:              req.Email,
		PasswordHash:       hash,
		Role:               req.Role,
		Status:             models.UserActive,
		MustChangePassword: mustChange,
		CommissionRate:     req.CommissionRate,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if len(allowed) > 0 {
		if err := s.users.ReplaceBranches(ctx, user, allowed); err != nil {
			return nil, err
		}
		user.AllowedBranches = allowed
	}
	if defID := pickDefaultBranch(req.DefaultBranch, allowed); defID != nil {
		if err := s.users.SetDefaultBranch(ctx, user.ID, defID); err != nil {
			return nil, err
		}
		user.DefaultBranchID = defID
	}

	s.audit.Record(ctx, scope, "CREATE_USER", "user", user.ID.String(), string(user.Role))
	user.PasswordHash = ""
	return user, nil
}

// List returns the clinic's staff.
func (s *UserService) List(ctx context.Context, scope models.RequestScope) ([]models.User, error) {
	return s.users.ListByClinic(ctx, scope)
}

// Get returns one staff member.
func (s *UserService) Get(ctx context.Context, scope models.RequestScope, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, scope, id)
}

// Doctors returns the doctors assigned to the scope's branch, for scheduling
// and invoicing pickers.
func (s *UserService) Doctors(ctx context.Context, scope models.RequestScope) ([]models.User, error) {
	if scope.BranchID == nil {
		return nil, apperr.BadRequestf("no active branch context")
	}
	return s.users.ListDoctorsByBranch(ctx, scope, *scope.BranchID)
}

// Update modifies a staff member. The last administrator of a clinic cannot
// be demoted or deactivated.
func (s *UserService) Update(ctx context.Context, scope models.RequestScope, id uuid.UUID, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	demotion := req.Role != nil && *req.Role != models.RoleAdministrator && user.Role == models.RoleAdministrator
	deactivation := req.Status != nil && *req.Status == models.UserInactive && user.Status != models.UserInactive
	if (demotion || deactivation) && user.Role == models.RoleAdministrator {
		admins, err := s.countActiveAdmins(ctx, scope)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, apperr.Conflictf("clinic must retain at least one active administrator")
		}
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return nil, apperr.BadRequestf("unknown role %q", *req.Role)
		}
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if req.CommissionRate != nil {
		user.CommissionRate = *req.CommissionRate
	}
	if err := s.users.Update(ctx, scope, user); err != nil {
		return nil, err
	}

	if req.BranchIDs != nil {
		allowed, err := s.resolveBranches(ctx, scope, req.BranchIDs)
		if err != nil {
			return nil, err
		}
		if err := s.users.ReplaceBranches(ctx, user, allowed); err != nil {
			return nil, err
		}
		user.AllowedBranches = allowed
	}
	if req.DefaultBranch != nil {
		branch, err := s.branches.GetByID(ctx, scope, *req.DefaultBranch)
		if err != nil {
			if apperr.Is(err, apperr.NotFound) {
				return nil, apperr.BadRequestf("default branch does not belong to the clinic")
			}
			return nil, err
		}
		// Default implies membership: a default outside the allowed set is
		// granted into it, so the scope resolver and the set never disagree.
		if !branchInSet(user.AllowedBranches, branch.ID) {
			if err := s.users.GrantBranch(ctx, user, branch); err != nil {
				return nil, err
			}
			user.AllowedBranches = append(user.AllowedBranches, *branch)
		}
		if err := s.users.SetDefaultBranch(ctx, user.ID, req.DefaultBranch); err != nil {
			return nil, err
		}
		user.DefaultBranchID = req.DefaultBranch
	}

	s.audit.Record(ctx, scope, "UPDATE_USER", "user", user.ID.String(), "")
	return user, nil
}

// Delete removes a staff member. Self-deletion and removing the last
// administrator are refused.
func (s *UserService) Delete(ctx context.Context, scope models.RequestScope, id uuid.UUID) error {
	if id == scope.UserID {
		return apperr.Conflictf("cannot delete your own account")
	}
	user, err := s.users.GetByID(ctx, scope, id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdministrator {
		admins, err := s.countActiveAdmins(ctx, scope)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apperr.Conflictf("clinic must retain at least one active administrator")
		}
	}
	if err := s.users.Delete(ctx, scope, id); err != nil {
		return err
	}
	s.audit.Record(ctx, scope, "DELETE_USER", "user", id.String(), user.Email)
	return nil
}

// resolveBranches validates that every requested branch belongs to the
// clinic and returns the branch records.
func (s *UserService) resolveBranches(ctx context.Context, scope models.RequestScope, ids []uuid.UUID) ([]models.Branch, error) {
	branches := make([]models.Branch, 0, len(ids))
	for _, id := range ids {
		branch, err := s.branches.GetByID(ctx, scope, id)
		if err != nil {
			if apperr.Is(err, apperr.NotFound) {
				return nil, apperr.BadRequestf("branch %s does not belong to the clinic", id)
			}
			return nil, err
		}
		branches = append(branches, *branch)
	}
	return branches, nil
}

// pickDefaultBranch chooses the default: the requested branch (already
// guaranteed to be in the allowed set), else the first allowed branch.
func pickDefaultBranch(requested *uuid.UUID, allowed []models.Branch) *uuid.UUID {
	if requested != nil {
		return requested
	}
	if len(allowed) > 0 {
		id := allowed[0].ID
		return &id
	}
	return nil
}

func branchInSet(branches []models.Branch, id uuid.UUID) bool {
	for _, b := range branches {
		if b.ID == id {
			return true
		}
	}
	return false
}

func (s *UserService) countActiveAdmins(ctx context.Context, scope models.RequestScope) (int, error) {
	users, err := s.users.ListByClinic(ctx, scope)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, u := range users {
		if u.Role == models.RoleAdministrator && u.Status == models.UserActive {
			count++
		}
	}
	return count, nil
}
