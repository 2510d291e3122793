package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of staff roles.
type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleDoctor        Role = "Doctor"
	RoleReceptionist  Role = "Receptionist"
	RoleNurse         Role = "Nurse"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdministrator, RoleDoctor, RoleReceptionist, RoleNurse:
		return true
	}
	return false
}

// UserStatus is the account lifecycle state.
type UserStatus string

const (
	UserActive   UserStatus = "Active"
	UserInactive UserStatus = "Inactive"
	UserPending  UserStatus = "Pending"
)

// User is a staff principal. A user belongs to exactly one clinic; staff are
// confined to their allowed branches, administrators see every branch of
// their clinic. A nil DefaultBranchID is valid only transiently, right after
// clinic registration before the first branch exists.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`

	FullName     string `gorm:"type:varchar(255);not null" json:"full_name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`

	Role   Role       `gorm:"type:varchar(20);not null;default:'Receptionist'" json:"role"`
	Status UserStatus `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`

	MustChangePassword bool `gorm:"default:false" json:"must_change_password"`

	DefaultBranchID *uuid.UUID `gorm:"type:uuid" json:"default_branch_id"`
	AllowedBranches []Branch   `gorm:"many2many:user_branches" json:"allowed_branches,omitempty"`

	// Commission percentage (0-100) applied to invoices for doctors.
	CommissionRate float64 `gorm:"default:0" json:"commission_rate"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}

// BeforeCreate hook
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// CanAccessBranch reports whether branchID is in the user's allowed set.
// Administrators are handled separately by the scope resolver; this check is
// membership only.
func (u *User) CanAccessBranch(branchID uuid.UUID) bool {
	for _, b := range u.AllowedBranches {
		if b.ID == branchID {
			return true
		}
	}
	return false
}

// AllowedBranchIDs returns the ids of the user's allowed branches.
func (u *User) AllowedBranchIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(u.AllowedBranches))
	for _, b := range u.AllowedBranches {
		ids = append(ids, b.ID)
	}
	return ids
}

// CreateUserRequest is the admin payload for adding staff.
type CreateUserRequest struct {
	FullName       string      `json:"full_name" validate:"required"`
	Email          string      `json:"email" validate:"required,email"`
	Role           Role        `json:"role" validate:"required"`
	Password       string      `json:"password" validate:"omitempty,min=6"`
	BranchIDs      []uuid.UUID `json:"branch_ids"`
	DefaultBranch  *uuid.UUID  `json:"default_branch_id"`
	CommissionRate float64     `json:"commission_rate" validate:"min=0,max=100"`
}

// UpdateUserRequest carries the mutable staff fields. Clinic ownership and
// the record id are immutable.
type UpdateUserRequest struct {
	FullName       *string     `json:"full_name"`
	Email          *string     `json:"email" validate:"omitempty,email"`
	Role           *Role       `json:"role"`
	Status         *UserStatus `json:"status"`
	BranchIDs      []uuid.UUID `json:"branch_ids"`
	DefaultBranch  *uuid.UUID  `json:"default_branch_id"`
	CommissionRate *float64    `json:"commission_rate" validate:"omitempty,min=0,max=100"`
}
