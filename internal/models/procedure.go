package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Procedure is a clinic-scoped catalog entry: a billable service with a
// price and a doctor commission percentage. Catalog entries are not
// branch-scoped; all branches share the clinic's price list.
type Procedure struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_procedure_code" json:"clinic_id"`

	Code  string  `gorm:"type:varchar(20);not null;uniqueIndex:idx_procedure_code" json:"code"` // e.g. RCT-01
	Name  string  `gorm:"type:varchar(255);not null" json:"name"`
	Price float64 `gorm:"not null" json:"price"`

	// Doctor commission percentage (0-100).
	Commission float64 `gorm:"default:0" json:"commission"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Procedure) TableName() string {
	return "procedures"
}

// BeforeCreate hook
func (p *Procedure) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProcedureRequest is the client payload for a catalog entry.
type ProcedureRequest struct {
	Code       string  `json:"code" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	Price      float64 `json:"price" validate:"required,min=0"`
	Commission float64 `json:"commission" validate:"min=0,max=100"`
	IsActive   *bool   `json:"is_active"`
}
