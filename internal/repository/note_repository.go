package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// NoteRepository handles clinical note database operations
type NoteRepository struct{}

// NewNoteRepository creates a new note repository
func NewNoteRepository() *NoteRepository {
	return &NoteRepository{}
}

// Create inserts a clinical note.
func (r *NoteRepository) Create(ctx context.Context, n *models.ClinicalNote) error {
	if err := database.DB.WithContext(ctx).Create(n).Error; err != nil {
		return translate(err, "clinical note")
	}
	return nil
}

// List returns notes visible to the scope, newest visit first, optionally
// filtered by patient.
func (r *NoteRepository) List(ctx context.Context, s models.RequestScope, patientID *uuid.UUID) ([]models.ClinicalNote, error) {
	q := branchScoped(database.DB.WithContext(ctx), s)
	if patientID != nil {
		q = q.Where("patient_id = ?", *patientID)
	}
	var notes []models.ClinicalNote
	err := q.Order("visit_date DESC").Find(&notes).Error
	if err != nil {
		return nil, translate(err, "clinical notes")
	}
	return notes, nil
}

// GetByID retrieves one note visible to the scope.
func (r *NoteRepository) GetByID(ctx context.Context, s models.RequestScope, id uuid.UUID) (*models.ClinicalNote, error) {
	var n models.ClinicalNote
	err := branchScoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		First(&n).Error
	if err != nil {
		return nil, translate(err, "clinical note")
	}
	return &n, nil
}

// Delete removes a note visible to the scope.
func (r *NoteRepository) Delete(ctx context.Context, s models.RequestScope, id uuid.UUID) error {
	res := branchScoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		Delete(&models.ClinicalNote{})
	if res.Error != nil {
		return translate(res.Error, "clinical note")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("clinical note not found")
	}
	return nil
}
