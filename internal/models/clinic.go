package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Clinic is the root tenant. Every other record in the system is owned by
// exactly one clinic.
type Clinic struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShortID   string    `gorm:"type:varchar(10);not null;uniqueIndex" json:"short_id"` // e.g. CL-1042
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	LegalName string    `gorm:"type:varchar(255)" json:"legal_name,omitempty"`

	RegistrationNumber string `gorm:"type:varchar(100)" json:"registration_number,omitempty"`
	TaxID              string `gorm:"type:varchar(50)" json:"tax_id,omitempty"`

	Phone   string `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Email   string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Website string `gorm:"type:varchar(255)" json:"website,omitempty"`

	Address string `gorm:"type:varchar(500)" json:"address,omitempty"`
	City    string `gorm:"type:varchar(100)" json:"city,omitempty"`
	State   string `gorm:"type:varchar(100)" json:"state,omitempty"`
	Zip     string `gorm:"type:varchar(20)" json:"zip,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Clinic) TableName() string {
	return "clinics"
}

// BeforeCreate hook
func (c *Clinic) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ClinicProfileRequest carries the mutable clinic profile fields. ShortID is
// system-generated and never accepted from clients.
type ClinicProfileRequest struct {
	Name               string `json:"name" validate:"required"`
	LegalName          string `json:"legal_name"`
	RegistrationNumber string `json:"registration_number"`
	TaxID              string `json:"tax_id"`
	Phone              string `json:"phone"`
	Email              string `json:"email" validate:"omitempty,email"`
	Website            string `json:"website"`
	Address            string `json:"address"`
	City               string `json:"city"`
	State              string `json:"state"`
	Zip                string `json:"zip"`
}
