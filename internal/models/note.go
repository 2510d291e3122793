package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoteType is the closed set of clinical note visit types.
type NoteType string

const (
	NoteConsultation NoteType = "Consultation"
	NoteProcedure    NoteType = "Procedure"
	NoteFollowUp     NoteType = "Follow-up"
	NoteEmergency    NoteType = "Emergency"
)

// ClinicalNote is a branch-scoped visit note written by a doctor.
type ClinicalNote struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id"`

	PatientID  uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID   uuid.UUID `gorm:"type:uuid;not null" json:"doctor_id"`
	DoctorName string    `gorm:"type:varchar(255)" json:"doctor_name,omitempty"` // snapshot for display

	VisitDate time.Time `gorm:"index" json:"visit_date"`
	Type      NoteType  `gorm:"type:varchar(20);default:'Consultation'" json:"type"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Tags      []string  `gorm:"serializer:json" json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (ClinicalNote) TableName() string {
	return "clinical_notes"
}

// BeforeCreate hook
func (n *ClinicalNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.VisitDate.IsZero() {
		n.VisitDate = time.Now().UTC()
	}
	return nil
}

// CreateNoteRequest is the client payload for a clinical note.
type CreateNoteRequest struct {
	PatientID uuid.UUID  `json:"patient_id" validate:"required"`
	VisitDate *time.Time `json:"visit_date"`
	Type      NoteType   `json:"type"`
	Content   string     `json:"content" validate:"required"`
	Tags      []string   `json:"tags"`
}
