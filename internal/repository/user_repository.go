package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// UserRepository handles staff principal database operations
type UserRepository struct{}

// NewUserRepository creates a new user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// Principal loads the acting user for the credential resolver. The password
// hash is excluded from the projection; allowed branches are preloaded for
// the scope resolver.
func (r *UserRepository) Principal(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := database.DB.WithContext(ctx).
		Omit("password_hash").
		Preload("AllowedBranches").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

// ByEmail loads a user by email for login, including the password hash.
// Login precedes tenancy resolution, so this is the one intentionally
// unscoped lookup; email is globally unique.
func (r *UserRepository) ByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := database.DB.WithContext(ctx).
		Preload("AllowedBranches").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

// Create inserts a new user, stamped with the clinic from the scope.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.CreateTx(database.DB.WithContext(ctx), user)
}

// CreateTx inserts a new user inside the caller's transaction.
func (r *UserRepository) CreateTx(tx *gorm.DB, user *models.User) error {
	if err := tx.Create(user).Error; err != nil {
		return translate(err, "user")
	}
	return nil
}

// ListByClinic returns all staff of the scope's clinic, without password
// hashes.
func (r *UserRepository) ListByClinic(ctx context.Context, s models.RequestScope) ([]models.User, error) {
	var users []models.User
	err := scoped(database.DB.WithContext(ctx), s).
		Omit("password_hash").
		Preload("AllowedBranches").
		Order("created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, translate(err, "users")
	}
	return users, nil
}

// GetByID retrieves one staff member of the scope's clinic.
func (r *UserRepository) GetByID(ctx context.Context, s models.RequestScope, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := scoped(database.DB.WithContext(ctx), s).
		Omit("password_hash").
		Preload("AllowedBranches").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

// Update persists mutable fields of a staff member within the scope's
// clinic. The password hash is excluded: callers hold users loaded through
// the hashless projections, and the hash only changes via UpdatePassword.
func (r *UserRepository) Update(ctx context.Context, s models.RequestScope, user *models.User) error {
	if user.ClinicID != s.ClinicID {
		return apperr.NotFoundf("user not found")
	}
	if err := database.DB.WithContext(ctx).
		Omit("AllowedBranches", "password_hash").
		Save(user).Error; err != nil {
		return translate(err, "user")
	}
	return nil
}

// UpdatePassword sets a new password hash and clears the must-change flag.
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	res := database.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash":        hash,
			"must_change_password": false,
			"status":               models.UserActive,
		})
	if res.Error != nil {
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("user not found")
	}
	return nil
}

// ReplaceBranches replaces the user's allowed-branch set.
func (r *UserRepository) ReplaceBranches(ctx context.Context, user *models.User, branches []models.Branch) error {
	err := database.DB.WithContext(ctx).
		Model(user).
		Association("AllowedBranches").
		Replace(branches)
	if err != nil {
		return apperr.Internalf(err, "internal server error")
	}
	return nil
}

// GrantBranch adds one branch to the user's allowed set.
func (r *UserRepository) GrantBranch(ctx context.Context, user *models.User, branch *models.Branch) error {
	return r.GrantBranchTx(database.DB.WithContext(ctx), user, branch)
}

// GrantBranchTx adds one branch to the user's allowed set inside the
// caller's transaction.
func (r *UserRepository) GrantBranchTx(tx *gorm.DB, user *models.User, branch *models.Branch) error {
	err := tx.Model(user).
		Association("AllowedBranches").
		Append(branch)
	if err != nil {
		return apperr.Internalf(err, "internal server error")
	}
	return nil
}

// SetDefaultBranch points the user's default branch.
func (r *UserRepository) SetDefaultBranch(ctx context.Context, userID uuid.UUID, branchID *uuid.UUID) error {
	err := database.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("default_branch_id", branchID).Error
	if err != nil {
		return translate(err, "user")
	}
	return nil
}

// Delete removes a staff member of the scope's clinic, along with their
// branch membership rows.
func (r *UserRepository) Delete(ctx context.Context, s models.RequestScope, id uuid.UUID) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := scoped(tx, s).Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return translate(res.Error, "user")
		}
		if res.RowsAffected == 0 {
			return apperr.NotFoundf("user not found")
		}
		if err := tx.Exec("DELETE FROM user_branches WHERE user_id = ?", id).Error; err != nil {
			return translate(err, "user")
		}
		return nil
	})
}

// ListDoctorsByBranch returns doctors of the clinic assigned to the given
// branch.
func (r *UserRepository) ListDoctorsByBranch(ctx context.Context, s models.RequestScope, branchID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := scoped(database.DB.WithContext(ctx), s).
		Omit("password_hash").
		Joins("JOIN user_branches ub ON ub.user_id = users.id AND ub.branch_id = ?", branchID).
		Where("role = ?", models.RoleDoctor).
		Find(&users).Error
	if err != nil {
		return nil, translate(err, "users")
	}
	return users, nil
}
