package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TreatmentStatus is the lifecycle of a treatment plan item. Only InProgress
// and Completed items count toward the patient's bill.
type TreatmentStatus string

const (
	TreatmentProposed   TreatmentStatus = "Proposed"
	TreatmentInProgress TreatmentStatus = "In Progress"
	TreatmentCompleted  TreatmentStatus = "Completed"
	TreatmentCancelled  TreatmentStatus = "Cancelled"
)

// Patient is a branch-scoped clinical record with a human-readable per-clinic
// id (PID-1001, PID-1002, ...).
type Patient struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_patient_code" json:"clinic_id"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id"`

	Code     string `gorm:"type:varchar(20);not null;uniqueIndex:idx_patient_code" json:"code"` // PID-1001
	FullName string `gorm:"type:varchar(255);not null;index" json:"full_name"`
	Mobile   string `gorm:"type:varchar(30);not null;index" json:"mobile"`
	Email    string `gorm:"type:varchar(255)" json:"email,omitempty"`
	Age      int    `json:"age,omitempty"`
	Gender   string `gorm:"type:varchar(10)" json:"gender,omitempty"`

	BloodGroup        string `gorm:"type:varchar(10)" json:"blood_group,omitempty"`
	Address           string `gorm:"type:varchar(500)" json:"address,omitempty"`
	EmergencyContact  string `gorm:"type:varchar(255)" json:"emergency_contact,omitempty"`
	EmergencyRelation string `gorm:"type:varchar(100)" json:"emergency_relation,omitempty"`

	AssignedDoctor string   `gorm:"type:varchar(255);not null" json:"assigned_doctor"`
	ReferredBy     string   `gorm:"type:varchar(50)" json:"referred_by,omitempty"`
	Communication  string   `gorm:"type:varchar(20);default:'WhatsApp'" json:"communication"`
	PrimaryConcern string   `gorm:"type:text" json:"primary_concern,omitempty"`
	PainLevel      int      `gorm:"default:0" json:"pain_level"`
	Conditions     []string `gorm:"serializer:json" json:"medical_conditions,omitempty"`
	Notes          string   `gorm:"type:text" json:"notes,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	TreatmentPlan []TreatmentItem `gorm:"foreignKey:PatientID" json:"treatment_plan,omitempty"`

	// Running balance. TotalCost is the sum of billable treatments, TotalPaid
	// the sum of recorded payments, WalletBalance = TotalCost - TotalPaid.
	// Mutated only through atomic increments.
	TotalCost     float64 `gorm:"default:0" json:"total_cost"`
	TotalPaid     float64 `gorm:"default:0" json:"total_paid"`
	WalletBalance float64 `gorm:"default:0" json:"wallet_balance"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Patient) TableName() string {
	return "patients"
}

// BeforeCreate hook
func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TreatmentItem is one line of a patient's treatment plan.
type TreatmentItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID  uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`

	Tooth     string          `gorm:"type:varchar(10)" json:"tooth,omitempty"`
	Procedure string          `gorm:"type:varchar(255);not null" json:"procedure"`
	Cost      float64         `gorm:"not null" json:"cost"`
	Status    TreatmentStatus `gorm:"type:varchar(20);not null;default:'Proposed'" json:"status"`
	Billed    bool            `gorm:"default:false" json:"billed"`
	Date      time.Time       `json:"date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (TreatmentItem) TableName() string {
	return "treatment_items"
}

// BeforeCreate hook
func (t *TreatmentItem) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Date.IsZero() {
		t.Date = time.Now().UTC()
	}
	return nil
}

// CreatePatientRequest is the client payload for registering a patient.
// Clinic, branch and the PID code are always stamped by the server.
type CreatePatientRequest struct {
	FullName          string   `json:"full_name" validate:"required"`
	Mobile            string   `json:"mobile" validate:"required"`
	Email             string   `json:"email" validate:"omitempty,email"`
	Age               int      `json:"age" validate:"omitempty,min=0"`
	Gender            string   `json:"gender"`
	BloodGroup        string   `json:"blood_group"`
	Address           string   `json:"address"`
	EmergencyContact  string   `json:"emergency_contact"`
	EmergencyRelation string   `json:"emergency_relation"`
	AssignedDoctor    string   `json:"assigned_doctor" validate:"required"`
	ReferredBy        string   `json:"referred_by"`
	Communication     string   `json:"communication"`
	PrimaryConcern    string   `json:"primary_concern"`
	PainLevel         int      `json:"pain_level" validate:"min=0,max=10"`
	Conditions        []string `json:"medical_conditions"`
	Notes             string   `json:"notes"`
}

// UpdatePatientRequest carries the mutable patient fields.
type UpdatePatientRequest struct {
	FullName          *string  `json:"full_name"`
	Mobile            *string  `json:"mobile"`
	Email             *string  `json:"email" validate:"omitempty,email"`
	Age               *int     `json:"age" validate:"omitempty,min=0"`
	Gender            *string  `json:"gender"`
	BloodGroup        *string  `json:"blood_group"`
	Address           *string  `json:"address"`
	EmergencyContact  *string  `json:"emergency_contact"`
	EmergencyRelation *string  `json:"emergency_relation"`
	AssignedDoctor    *string  `json:"assigned_doctor"`
	PrimaryConcern    *string  `json:"primary_concern"`
	PainLevel         *int     `json:"pain_level" validate:"omitempty,min=0,max=10"`
	Conditions        []string `json:"medical_conditions"`
	Notes             *string  `json:"notes"`
}

// AddTreatmentRequest adds one treatment plan line.
type AddTreatmentRequest struct {
	Tooth     string          `json:"tooth"`
	Procedure string          `json:"procedure" validate:"required"`
	Cost      float64         `json:"cost" validate:"required,min=0"`
	Status    TreatmentStatus `json:"status"`
}

// LedgerEntry is one row of a patient's merged financial history: debits
// from billable treatments, credits from payments.
type LedgerEntry struct {
	ID            uuid.UUID `json:"id"`
	Date          time.Time `json:"date"`
	Description   string    `json:"description"`
	Type          string    `json:"type"` // DEBIT or CREDIT
	Amount        float64   `json:"amount"`
	Tooth         string    `json:"tooth,omitempty"`
	ReceiptNumber string    `json:"receipt_number,omitempty"`
}
