package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/auth"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

const shortIDAttempts = 5

// AuthService handles clinic registration and staff authentication
type AuthService struct {
	clinics   *repository.ClinicRepository
	users     *repository.UserRepository
	branches  *repository.BranchRepository
	roles     *repository.RoleRepository
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(
	clinics *repository.ClinicRepository,
	users *repository.UserRepository,
	branches *repository.BranchRepository,
	roles *repository.RoleRepository,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthService {
	return &AuthService{
		clinics:   clinics,
		users:     users,
		branches:  branches,
		roles:     roles,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// RegisterClinicRequest is the payload for onboarding a new clinic with its
// first administrator and main branch.
type RegisterClinicRequest struct {
	ClinicName    string `json:"clinic_name" validate:"required"`
	BranchName    string `json:"branch_name" validate:"required"`
	BranchAddress string `json:"branch_address"`
	AdminName     string `json:"admin_name" validate:"required"`
	AdminEmail    string `json:"admin_email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6"`
	Phone         string `json:"phone"`
}

// LoginRequest is the login payload. ClinicID is the human-readable short id
// (CL-1042); administrators may omit it, staff must supply it.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	ClinicID string `json:"clinic_id"`
}

// LoginResponse carries the issued token and the principal.
type LoginResponse struct {
	Token              string       `json:"token,omitempty"`
	MustChangePassword bool         `json:"must_change_password"`
	User               *models.User `json:"user"`
	Clinic             *models.Clinic `json:"clinic,omitempty"`
}

// RegisterClinic onboards a tenant: clinic with a fresh short id, the first
// branch, the administrator with that branch as default, and the default
// role policies. All five writes share one transaction; a failure midway
// leaves nothing behind. The short id is random; on the rare collision the
// whole transaction is retried with a new candidate.
func (s *AuthService) RegisterClinic(ctx context.Context, req RegisterClinicRequest) (*LoginResponse, error) {
	if _, err := s.users.ByEmail(ctx, req.AdminEmail); err == nil {
		return nil, apperr.Conflictf("email is already registered")
	} else if !apperr.Is(err, apperr.NotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internalf(err, "internal server error")
	}

	for attempt := 0; attempt < shortIDAttempts; attempt++ {
		clinic := &models.Clinic{
			ShortID: newClinicShortID(),
			Name:    req.ClinicName,
			Phone:   req.Phone,
			Email:   req.AdminEmail,
		}
		branch := &models.Branch{
			Name:     req.BranchName,
			Address:  req.BranchAddress,
			IsActive: true,
		}
		admin := &models.User{
			FullName:     req.AdminName,
			Email:        req.AdminEmail,
			PasswordHash: hash,
			Role:         models.RoleAdministrator,
			Status:       models.UserActive,
		}

		shortIDTaken := false
		err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.clinics.CreateTx(tx, clinic); err != nil {
				if apperr.Is(err, apperr.Conflict) {
					shortIDTaken = true
				}
				return err
			}
			branch.ClinicID = clinic.ID
			if err := s.branches.CreateTx(tx, branch); err != nil {
				return err
			}
			admin.ClinicID = clinic.ID
			admin.DefaultBranchID = &branch.ID
			if err := s.users.CreateTx(tx, admin); err != nil {
				if apperr.Is(err, apperr.Conflict) {
					return apperr.Conflictf("email is already registered")
				}
				return err
			}
			if err := s.users.GrantBranchTx(tx, admin, branch); err != nil {
				return err
			}
			return s.roles.SeedDefaults(tx, models.DefaultRolePolicies(clinic.ID))
		})
		if err != nil {
			if shortIDTaken {
				continue
			}
			return nil, err
		}

		token, err := auth.GenerateToken(admin.ID, s.jwtSecret, s.tokenTTL)
		if err != nil {
			return nil, apperr.Internalf(err, "internal server error")
		}

		log.Info().
			Str("clinic_id", clinic.ID.String()).
			Str("short_id", clinic.ShortID).
			Msg("clinic registered")

		admin.PasswordHash = ""
		return &LoginResponse{Token: token, User: admin, Clinic: clinic}, nil
	}
	return nil, apperr.Internalf(fmt.Errorf("clinic short id space exhausted after %d attempts", shortIDAttempts), "internal server error")
}

// Login authenticates a staff member. Administrators log in with email and
// password alone; other roles must also present their clinic's short id,
// which is checked against the account's clinic. An account flagged for a
// forced password change gets no token until the change completes.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.ByEmail(ctx, req.Email)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, apperr.Unauthenticatedf("invalid credentials")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperr.Unauthenticatedf("invalid credentials")
	}
	if user.Status == models.UserInactive {
		return nil, apperr.Unauthenticatedf("account is deactivated")
	}

	if user.Role != models.RoleAdministrator {
		if req.ClinicID == "" {
			return nil, apperr.BadRequestf("clinic id is required")
		}
		clinic, err := s.clinics.GetByShortID(ctx, req.ClinicID)
		if err != nil {
			if apperr.Is(err, apperr.NotFound) {
				return nil, apperr.Unauthenticatedf("invalid credentials")
			}
			return nil, err
		}
		if clinic.ID != user.ClinicID {
			return nil, apperr.Unauthenticatedf("invalid credentials")
		}
	}

	user.PasswordHash = ""
	if user.MustChangePassword {
		return &LoginResponse{MustChangePassword: true, User: user}, nil
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, apperr.Internalf(err, "internal server error")
	}
	clinic, err := s.clinics.GetByID(ctx, user.ClinicID)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, User: user, Clinic: clinic}, nil
}

// ChangePasswordRequest is the forced or voluntary password change payload.
type ChangePasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ChangePassword verifies the current password, stores the new hash, clears
// the must-change flag and returns a fresh session.
func (s *AuthService) ChangePassword(ctx context.Context, req ChangePasswordRequest) (*LoginResponse, error) {
	user, err := s.users.ByEmail(ctx, req.Email)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return nil, apperr.Unauthenticatedf("invalid credentials")
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, req.OldPassword) {
		return nil, apperr.Unauthenticatedf("invalid credentials")
	}
	if req.NewPassword == req.OldPassword {
		return nil, apperr.BadRequestf("new password must differ from the old one")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, apperr.Internalf(err, "internal server error")
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, apperr.Internalf(err, "internal server error")
	}
	user.PasswordHash = ""
	user.MustChangePassword = false
	clinic, err := s.clinics.GetByID(ctx, user.ClinicID)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, User: user, Clinic: clinic}, nil
}

// Me returns the current principal with their clinic.
func (s *AuthService) Me(ctx context.Context, principal *models.User) (*LoginResponse, error) {
	clinic, err := s.clinics.GetByID(ctx, principal.ClinicID)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{User: principal, Clinic: clinic}, nil
}

// newClinicShortID generates a CL-#### candidate.
func newClinicShortID() string {
	return fmt.Sprintf("CL-%04d", 1000+rand.Intn(9000))
}
