package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus is the closed set of appointment states.
type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "Scheduled"
	AppointmentInProgress AppointmentStatus = "In Progress"
	AppointmentCompleted  AppointmentStatus = "Completed"
	AppointmentCancelled  AppointmentStatus = "Cancelled"
	AppointmentNoShow     AppointmentStatus = "No Show"
)

// Appointment is a branch-scoped calendar entry. The branch is fixed at
// creation; rescheduling across branches is not supported.
type Appointment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id"`

	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`

	// Denormalized for calendar display.
	Title      string `gorm:"type:varchar(255);not null" json:"title"`
	Phone      string `gorm:"type:varchar(30)" json:"phone,omitempty"`
	DoctorName string `gorm:"type:varchar(255)" json:"doctor_name,omitempty"`

	Type    string    `gorm:"type:varchar(100);not null" json:"type"` // e.g. Root Canal
	Start   time.Time `gorm:"not null;index" json:"start"`
	End     time.Time `gorm:"not null" json:"end"`
	ChairID int       `gorm:"not null" json:"chair_id"`

	Status AppointmentStatus `gorm:"type:varchar(20);not null;default:'Scheduled'" json:"status"`
	Notes  string            `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Appointment) TableName() string {
	return "appointments"
}

// BeforeCreate hook
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// CreateAppointmentRequest is the client payload for booking. Clinic and
// branch are stamped from the request scope.
type CreateAppointmentRequest struct {
	PatientID  uuid.UUID         `json:"patient_id" validate:"required"`
	DoctorID   uuid.UUID         `json:"doctor_id" validate:"required"`
	Title      string            `json:"title" validate:"required"`
	Phone      string            `json:"phone"`
	DoctorName string            `json:"doctor_name"`
	Type       string            `json:"type" validate:"required"`
	Start      time.Time         `json:"start" validate:"required"`
	End        time.Time         `json:"end" validate:"required,gtfield=Start"`
	ChairID    int               `json:"chair_id" validate:"required,min=1"`
	Status     AppointmentStatus `json:"status"`
}

// UpdateAppointmentRequest carries the mutable appointment fields.
type UpdateAppointmentRequest struct {
	Title    *string            `json:"title"`
	DoctorID *uuid.UUID         `json:"doctor_id"`
	Type     *string            `json:"type"`
	Start    *time.Time         `json:"start"`
	End      *time.Time         `json:"end"`
	ChairID  *int               `json:"chair_id" validate:"omitempty,min=1"`
	Status   *AppointmentStatus `json:"status"`
	Notes    *string            `json:"notes"`
}
