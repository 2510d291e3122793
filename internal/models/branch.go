package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Branch is a physical location owned by a clinic. Branch codes are
// sequential per clinic (BID-001, BID-002, ...), unique within the clinic
// only.
type Branch struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_branch_code" json:"clinic_id"`
	Code     string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_branch_code" json:"code"`
	Name     string    `gorm:"type:varchar(255);not null" json:"name"`

	Address    string `gorm:"type:varchar(500)" json:"address,omitempty"`
	Phone      string `gorm:"type:varchar(30)" json:"phone,omitempty"`
	ChairCount int    `gorm:"default:1" json:"chair_count"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Branch) TableName() string {
	return "branches"
}

// BeforeCreate hook
func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BranchRequest is the client payload for creating or updating a branch.
// Code and clinic ownership are always system-assigned.
type BranchRequest struct {
	Name       string `json:"name" validate:"required"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	ChairCount int    `json:"chair_count" validate:"omitempty,min=1"`
}
