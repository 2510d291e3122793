package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// RoleRepository handles role policy database operations
type RoleRepository struct{}

// NewRoleRepository creates a new role repository
func NewRoleRepository() *RoleRepository {
	return &RoleRepository{}
}

// SeedDefaults inserts the default policies for a new clinic inside an
// existing transaction.
func (r *RoleRepository) SeedDefaults(tx *gorm.DB, policies []models.RolePolicy) error {
	if err := tx.Create(&policies).Error; err != nil {
		return translate(err, "role policies")
	}
	return nil
}

// ListByClinic returns all role policies of the scope's clinic.
func (r *RoleRepository) ListByClinic(ctx context.Context, s models.RequestScope) ([]models.RolePolicy, error) {
	var policies []models.RolePolicy
	err := scoped(database.DB.WithContext(ctx), s).
		Order("role ASC").
		Find(&policies).Error
	if err != nil {
		return nil, translate(err, "role policies")
	}
	return policies, nil
}

// GetByRole returns one role's policy for the scope's clinic.
func (r *RoleRepository) GetByRole(ctx context.Context, s models.RequestScope, role models.Role) (*models.RolePolicy, error) {
	var policy models.RolePolicy
	err := scoped(database.DB.WithContext(ctx), s).
		Where("role = ?", role).
		First(&policy).Error
	if err != nil {
		return nil, translate(err, "role policy")
	}
	return &policy, nil
}

// Upsert replaces one role's permission list, creating the policy row if a
// clinic predates seeding.
func (r *RoleRepository) Upsert(ctx context.Context, s models.RequestScope, role models.Role, permissions []string) (*models.RolePolicy, error) {
	policy := models.RolePolicy{
		ClinicID:    s.ClinicID,
		Role:        role,
		Permissions: permissions,
	}
	err := database.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "clinic_id"}, {Name: "role"}},
		DoUpdates: clause.AssignmentColumns([]string{"permissions", "updated_at"}),
	}).Create(&policy).Error
	if err != nil {
		return nil, translate(err, "role policy")
	}
	return r.GetByRole(ctx, s, role)
}
