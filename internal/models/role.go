package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission keys form a closed set. Policies are validated against this set
// at write time; free-form permission strings are rejected.
const (
	PermFinViewRevenue  = "fin_view_revenue"
	PermFinEditInvoice  = "fin_edit_invoice"
	PermFinDiscounts    = "fin_discounts"
	PermPatientDelete   = "pt_delete"
	PermPatientExport   = "pt_export"
	PermOpsSettings     = "ops_settings"
	PermOpsCalendar     = "ops_calendar"
	PermBranchManage    = "branch_manage"
	PermBranchCreate    = "branch_create"
	PermUserManage      = "user_manage_global"
	PermUserManageLocal = "user_manage_local"
)

// KnownPermissions is the closed permission set.
var KnownPermissions = map[string]bool{
	PermFinViewRevenue:  true,
	PermFinEditInvoice:  true,
	PermFinDiscounts:    true,
	PermPatientDelete:   true,
	PermPatientExport:   true,
	PermOpsSettings:     true,
	PermOpsCalendar:     true,
	PermBranchManage:    true,
	PermBranchCreate:    true,
	PermUserManage:      true,
	PermUserManageLocal: true,
}

// RolePolicy is the per-clinic permission list for one role.
type RolePolicy struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_role_policy" json:"clinic_id"`

	Role        Role     `gorm:"type:varchar(20);not null;uniqueIndex:idx_role_policy" json:"role"`
	Permissions []string `gorm:"serializer:json" json:"permissions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (RolePolicy) TableName() string {
	return "role_policies"
}

// BeforeCreate hook
func (r *RolePolicy) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// DefaultRolePolicies returns the policies seeded at clinic registration.
func DefaultRolePolicies(clinicID uuid.UUID) []RolePolicy {
	return []RolePolicy{
		{ClinicID: clinicID, Role: RoleAdministrator, Permissions: []string{
			PermFinViewRevenue, PermFinEditInvoice, PermFinDiscounts,
			PermPatientDelete, PermPatientExport, PermOpsSettings,
			PermOpsCalendar, PermBranchManage, PermBranchCreate, PermUserManage,
		}},
		{ClinicID: clinicID, Role: RoleDoctor, Permissions: []string{
			PermFinViewRevenue, PermOpsCalendar,
		}},
		{ClinicID: clinicID, Role: RoleReceptionist, Permissions: []string{
			PermOpsCalendar, PermFinEditInvoice,
		}},
		{ClinicID: clinicID, Role: RoleNurse, Permissions: []string{}},
	}
}

// UpdateRolePolicyRequest replaces one role's permission list.
type UpdateRolePolicyRequest struct {
	Role        Role     `json:"role" validate:"required"`
	Permissions []string `json:"permissions" validate:"required"`
}
