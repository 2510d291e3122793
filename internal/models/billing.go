package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceStatus is the closed set of invoice states.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "Draft"
	InvoiceUnpaid    InvoiceStatus = "Unpaid"
	InvoicePartial   InvoiceStatus = "Partial"
	InvoicePaid      InvoiceStatus = "Paid"
	InvoiceCancelled InvoiceStatus = "Cancelled"
)

// PaymentMethod is the closed set of payment channels.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentUPI          PaymentMethod = "UPI"
	PaymentCard         PaymentMethod = "Card"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
	PaymentInsurance    PaymentMethod = "Insurance"
)

// ValidPaymentMethod reports whether m is a known method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentUPI, PaymentCard, PaymentBankTransfer, PaymentInsurance:
		return true
	}
	return false
}

// Invoice is a branch-scoped bill. Doctor commission is snapshotted per line
// at creation time so historical reports survive later rate changes.
type Invoice struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id"`

	PatientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID  *uuid.UUID `gorm:"type:uuid;index" json:"doctor_id,omitempty"`

	Number string `gorm:"type:varchar(20);not null;index" json:"number"` // INV-000042

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items"`

	TotalAmount float64 `gorm:"not null" json:"total_amount"`
	Discount    float64 `gorm:"default:0" json:"discount"`
	FinalAmount float64 `gorm:"not null" json:"final_amount"`
	PaidAmount  float64 `gorm:"default:0" json:"paid_amount"`
	Balance     float64 `json:"balance"`

	Status  InvoiceStatus `gorm:"type:varchar(20);not null;default:'Unpaid'" json:"status"`
	DueDate *time.Time    `json:"due_date,omitempty"`
	Notes   string        `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Invoice) TableName() string {
	return "invoices"
}

// BeforeCreate hook
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// InvoiceItem is one billed procedure, with the doctor's commission amount
// frozen at invoice creation.
type InvoiceItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`

	TreatmentID   *uuid.UUID `gorm:"type:uuid" json:"treatment_id,omitempty"`
	ProcedureName string     `gorm:"type:varchar(255);not null" json:"procedure_name"`
	Cost          float64    `gorm:"not null" json:"cost"`
	Discount      float64    `gorm:"default:0" json:"discount"`

	DoctorCommissionAmount float64 `gorm:"default:0" json:"doctor_commission_amount"`
}

// TableName overrides the table name
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// BeforeCreate hook
func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Payment is a branch-scoped credit against a patient's balance, optionally
// linked to an invoice.
type Payment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id"`

	PatientID uuid.UUID  `gorm:"type:uuid;not null;index" json:"patient_id"`
	InvoiceID *uuid.UUID `gorm:"type:uuid;index" json:"invoice_id,omitempty"`

	Amount        float64       `gorm:"not null" json:"amount"`
	Method        PaymentMethod `gorm:"type:varchar(20);not null;default:'Cash'" json:"method"`
	TransactionID string        `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`
	ReceiptNumber string        `gorm:"type:varchar(20);not null;index" json:"receipt_number"` // REC-000042

	Date  time.Time `gorm:"index" json:"date"`
	Notes string    `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate hook
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	return nil
}

// InvoiceItemRequest is one line of a create-invoice payload.
type InvoiceItemRequest struct {
	TreatmentID   *uuid.UUID `json:"treatment_id"`
	ProcedureName string     `json:"procedure_name" validate:"required"`
	Cost          float64    `json:"cost" validate:"required,min=0"`
}

// CreateInvoiceRequest is the client payload for issuing an invoice.
type CreateInvoiceRequest struct {
	PatientID uuid.UUID            `json:"patient_id" validate:"required"`
	DoctorID  uuid.UUID            `json:"doctor_id" validate:"required"`
	Items     []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	Discount  float64              `json:"discount" validate:"min=0"`
	DueDate   *time.Time           `json:"due_date"`
	Notes     string               `json:"notes"`
}

// RecordPaymentRequest is the client payload for recording a payment.
type RecordPaymentRequest struct {
	PatientID     uuid.UUID     `json:"patient_id" validate:"required"`
	InvoiceID     *uuid.UUID    `json:"invoice_id"`
	Amount        float64       `json:"amount" validate:"required,gt=0"`
	Method        PaymentMethod `json:"method"`
	TransactionID string        `json:"transaction_id"`
	Notes         string        `json:"notes"`
}
