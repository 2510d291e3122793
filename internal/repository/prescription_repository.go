package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// PrescriptionRepository handles prescription and drug catalog operations
type PrescriptionRepository struct{}

// NewPrescriptionRepository creates a new prescription repository
func NewPrescriptionRepository() *PrescriptionRepository {
	return &PrescriptionRepository{}
}

// Create inserts a prescription.
func (r *PrescriptionRepository) Create(ctx context.Context, p *models.Prescription) error {
	if err := database.DB.WithContext(ctx).Create(p).Error; err != nil {
		return translate(err, "prescription")
	}
	return nil
}

// List returns prescriptions visible to the scope, newest first, optionally
// filtered by patient.
func (r *PrescriptionRepository) List(ctx context.Context, s models.RequestScope, patientID *uuid.UUID) ([]models.Prescription, error) {
	q := branchScoped(database.DB.WithContext(ctx), s)
	if patientID != nil {
		q = q.Where("patient_id = ?", *patientID)
	}
	var prescriptions []models.Prescription
	err := q.Order("date DESC").Find(&prescriptions).Error
	if err != nil {
		return nil, translate(err, "prescriptions")
	}
	return prescriptions, nil
}

// GetByID retrieves one prescription visible to the scope.
func (r *PrescriptionRepository) GetByID(ctx context.Context, s models.RequestScope, id uuid.UUID) (*models.Prescription, error) {
	var p models.Prescription
	err := branchScoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, translate(err, "prescription")
	}
	return &p, nil
}

// Delete removes a prescription visible to the scope.
func (r *PrescriptionRepository) Delete(ctx context.Context, s models.RequestScope, id uuid.UUID) error {
	res := branchScoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		Delete(&models.Prescription{})
	if res.Error != nil {
		return translate(res.Error, "prescription")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("prescription not found")
	}
	return nil
}

// CreateDrug inserts a drug catalog entry. The catalog is clinic-scoped.
func (r *PrescriptionRepository) CreateDrug(ctx context.Context, drug *models.Drug) error {
	if err := database.DB.WithContext(ctx).Create(drug).Error; err != nil {
		return translate(err, "drug")
	}
	return nil
}

// ListDrugs returns the clinic's drug catalog.
func (r *PrescriptionRepository) ListDrugs(ctx context.Context, s models.RequestScope) ([]models.Drug, error) {
	var drugs []models.Drug
	err := scoped(database.DB.WithContext(ctx), s).
		Order("name ASC").
		Find(&drugs).Error
	if err != nil {
		return nil, translate(err, "drugs")
	}
	return drugs, nil
}

// UpdateDrug persists catalog entry changes.
func (r *PrescriptionRepository) UpdateDrug(ctx context.Context, s models.RequestScope, drug *models.Drug) error {
	if drug.ClinicID != s.ClinicID {
		return apperr.NotFoundf("drug not found")
	}
	if err := database.DB.WithContext(ctx).Save(drug).Error; err != nil {
		return translate(err, "drug")
	}
	return nil
}

// GetDrug retrieves one catalog entry of the scope's clinic.
func (r *PrescriptionRepository) GetDrug(ctx context.Context, s models.RequestScope, id uuid.UUID) (*models.Drug, error) {
	var drug models.Drug
	err := scoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		First(&drug).Error
	if err != nil {
		return nil, translate(err, "drug")
	}
	return &drug, nil
}

// DeleteDrug removes a catalog entry of the scope's clinic.
func (r *PrescriptionRepository) DeleteDrug(ctx context.Context, s models.RequestScope, id uuid.UUID) error {
	res := scoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		Delete(&models.Drug{})
	if res.Error != nil {
		return translate(res.Error, "drug")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("drug not found")
	}
	return nil
}
