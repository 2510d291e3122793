package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Medication is one line of a prescription.
type Medication struct {
	DrugName    string `json:"drug_name" validate:"required"`
	Dosage      string `json:"dosage" validate:"required"`
	Duration    string `json:"duration" validate:"required"`
	Instruction string `json:"instruction"`
	Type        string `json:"type"` // Tablet, Syrup, Injection
}

// Prescription is a branch-scoped record of medications issued to a patient.
type Prescription struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id"`

	PatientID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentID *uuid.UUID `gorm:"type:uuid" json:"appointment_id,omitempty"`

	Medications []Medication `gorm:"serializer:json" json:"medications"`
	Notes       string       `gorm:"type:text" json:"notes,omitempty"`
	Date        time.Time    `gorm:"index" json:"date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Prescription) TableName() string {
	return "prescriptions"
}

// BeforeCreate hook
func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	return nil
}

// Drug is a clinic-scoped catalog entry with default dosage, used to
// pre-fill prescription lines.
type Drug struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`

	Name            string `gorm:"type:varchar(255);not null" json:"name"`
	Type            string `gorm:"type:varchar(50);default:'Tablet'" json:"type"`
	GenericName     string `gorm:"type:varchar(255)" json:"generic_name,omitempty"`
	DefaultDosage   string `gorm:"type:varchar(50)" json:"default_dosage,omitempty"`   // e.g. 1-0-1
	DefaultDuration string `gorm:"type:varchar(50)" json:"default_duration,omitempty"` // e.g. 5 Days
	Instruction     string `gorm:"type:varchar(255)" json:"instruction,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Drug) TableName() string {
	return "drugs"
}

// BeforeCreate hook
func (d *Drug) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// CreatePrescriptionRequest is the client payload for issuing a prescription.
type CreatePrescriptionRequest struct {
	PatientID     uuid.UUID    `json:"patient_id" validate:"required"`
	DoctorID      uuid.UUID    `json:"doctor_id" validate:"required"`
	AppointmentID *uuid.UUID   `json:"appointment_id"`
	Medications   []Medication `json:"medications" validate:"required,min=1,dive"`
	Notes         string       `json:"notes"`
}

// DrugRequest is the client payload for a drug catalog entry.
type DrugRequest struct {
	Name            string `json:"name" validate:"required"`
	Type            string `json:"type"`
	GenericName     string `json:"generic_name"`
	DefaultDosage   string `json:"default_dosage"`
	DefaultDuration string `json:"default_duration"`
	Instruction     string `json:"instruction"`
}
