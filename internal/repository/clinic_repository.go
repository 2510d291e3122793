package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// ClinicRepository handles clinic (tenant) database operations
type ClinicRepository struct{}

// NewClinicRepository creates a new clinic repository
func NewClinicRepository() *ClinicRepository {
	return &ClinicRepository{}
}

// Create inserts a clinic. Callers retry on a short-id conflict.
func (r *ClinicRepository) Create(ctx context.Context, clinic *models.Clinic) error {
	return r.CreateTx(database.DB.WithContext(ctx), clinic)
}

// CreateTx inserts a clinic inside the caller's transaction.
func (r *ClinicRepository) CreateTx(tx *gorm.DB, clinic *models.Clinic) error {
	if err := tx.Create(clinic).Error; err != nil {
		return translate(err, "clinic")
	}
	return nil
}

// GetByID retrieves a clinic by id.
func (r *ClinicRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Clinic, error) {
	var clinic models.Clinic
	err := database.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&clinic).Error
	if err != nil {
		return nil, translate(err, "clinic")
	}
	return &clinic, nil
}

// GetByShortID resolves the human-readable clinic id entered at staff
// login.
func (r *ClinicRepository) GetByShortID(ctx context.Context, shortID string) (*models.Clinic, error) {
	var clinic models.Clinic
	err := database.DB.WithContext(ctx).
		Where("short_id = ?", shortID).
		First(&clinic).Error
	if err != nil {
		return nil, translate(err, "clinic")
	}
	return &clinic, nil
}

// Update persists clinic profile changes.
func (r *ClinicRepository) Update(ctx context.Context, clinic *models.Clinic) error {
	if err := database.DB.WithContext(ctx).Save(clinic).Error; err != nil {
		return translate(err, "clinic")
	}
	return nil
}
