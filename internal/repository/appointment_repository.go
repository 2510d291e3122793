package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// AppointmentRepository handles appointment database operations
type AppointmentRepository struct{}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{}
}

// Create inserts an appointment.
func (r *AppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	if err := database.DB.WithContext(ctx).Create(appt).Error; err != nil {
		return translate(err, "appointment")
	}
	return nil
}

// List returns appointments visible to the scope, optionally limited to a
// [from, to) window.
func (r *AppointmentRepository) List(ctx context.Context, s models.RequestScope, from, to *time.Time) ([]models.Appointment, error) {
	q := branchScoped(database.DB.WithContext(ctx), s)
	if from != nil {
		q = q.Where("start >= ?", *from)
	}
	if to != nil {
		q = q.Where("start < ?", *to)
	}
	var appts []models.Appointment
	err := q.Order("start ASC").Find(&appts).Error
	if err != nil {
		return nil, translate(err, "appointments")
	}
	return appts, nil
}

// GetByID retrieves one appointment visible to the scope.
func (r *AppointmentRepository) GetByID(ctx context.Context, s models.RequestScope, id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	err := branchScoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		First(&appt).Error
	if err != nil {
		return nil, translate(err, "appointment")
	}
	return &appt, nil
}

// ChairTaken reports whether another appointment already occupies the chair
// for an overlapping window in the same branch.
func (r *AppointmentRepository) ChairTaken(ctx context.Context, s models.RequestScope, chairID int, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	q := branchScoped(database.DB.WithContext(ctx), s).
		Model(&models.Appointment{}).
		Where("chair_id = ?", chairID).
		Where("status NOT IN ?", []models.AppointmentStatus{models.AppointmentCancelled, models.AppointmentNoShow}).
		Where("start < ? AND \"end\" > ?", end, start)
	if excludeID != nil {
		q = q.Where("id != ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, apperr.Internalf(err, "internal server error")
	}
	return count > 0, nil
}

// Update persists mutable appointment fields.
func (r *AppointmentRepository) Update(ctx context.Context, s models.RequestScope, appt *models.Appointment) error {
	err := database.DB.WithContext(ctx).
		Omit("clinic_id", "branch_id", "patient_id").
		Save(appt).Error
	if err != nil {
		return translate(err, "appointment")
	}
	return nil
}

// Delete removes an appointment visible to the scope.
func (r *AppointmentRepository) Delete(ctx context.Context, s models.RequestScope, id uuid.UUID) error {
	res := branchScoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return translate(res.Error, "appointment")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("appointment not found")
	}
	return nil
}

// CountInWindow counts appointments starting inside [from, to) for
// dashboard rollups.
func (r *AppointmentRepository) CountInWindow(ctx context.Context, s models.RequestScope, from, to time.Time) (int64, error) {
	var count int64
	err := branchScoped(database.DB.WithContext(ctx), s).
		Model(&models.Appointment{}).
		Where("start >= ? AND start < ?", from, to).
		Count(&count).Error
	if err != nil {
		return 0, apperr.Internalf(err, "internal server error")
	}
	return count, nil
}
