package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog represents an audit log entry
type AuditLog struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID  `gorm:"type:uuid;not null;index" json:"clinic_id"`
	BranchID *uuid.UUID `gorm:"type:uuid;index" json:"branch_id,omitempty"`

	UserID   uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	UserName string    `gorm:"type:varchar(255)" json:"user_name"` // snapshot in case user is deleted

	Action   string `gorm:"type:varchar(100);not null;index" json:"action"` // e.g. DELETE_PATIENT
	Entity   string `gorm:"type:varchar(50);index" json:"entity"`
	EntityID string `gorm:"type:varchar(64);index" json:"entity_id"`
	Details  string `gorm:"type:text" json:"details,omitempty"`

	IPAddress string `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent string `gorm:"type:text" json:"user_agent,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"timestamp"`
}

// TableName overrides the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate hook
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
