package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// ProcedureRepository handles the clinic-scoped procedure catalog
type ProcedureRepository struct{}

// NewProcedureRepository creates a new procedure repository
func NewProcedureRepository() *ProcedureRepository {
	return &ProcedureRepository{}
}

// Create inserts a catalog entry.
func (r *ProcedureRepository) Create(ctx context.Context, p *models.Procedure) error {
	if err := database.DB.WithContext(ctx).Create(p).Error; err != nil {
		return translate(err, "procedure")
	}
	return nil
}

// List returns the clinic's procedure catalog.
func (r *ProcedureRepository) List(ctx context.Context, s models.RequestScope) ([]models.Procedure, error) {
	var procedures []models.Procedure
	err := scoped(database.DB.WithContext(ctx), s).
		Order("code ASC").
		Find(&procedures).Error
	if err != nil {
		return nil, translate(err, "procedures")
	}
	return procedures, nil
}

// GetByID retrieves one catalog entry of the scope's clinic.
func (r *ProcedureRepository) GetByID(ctx context.Context, s models.RequestScope, id uuid.UUID) (*models.Procedure, error) {
	var p models.Procedure
	err := scoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, translate(err, "procedure")
	}
	return &p, nil
}

// Update persists catalog entry changes.
func (r *ProcedureRepository) Update(ctx context.Context, s models.RequestScope, p *models.Procedure) error {
	if p.ClinicID != s.ClinicID {
		return apperr.NotFoundf("procedure not found")
	}
	if err := database.DB.WithContext(ctx).Save(p).Error; err != nil {
		return translate(err, "procedure")
	}
	return nil
}

// Delete removes a catalog entry of the scope's clinic.
func (r *ProcedureRepository) Delete(ctx context.Context, s models.RequestScope, id uuid.UUID) error {
	res := scoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		Delete(&models.Procedure{})
	if res.Error != nil {
		return translate(res.Error, "procedure")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("procedure not found")
	}
	return nil
}
