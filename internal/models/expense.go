package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpenseCategory is the closed set of expense categories.
type ExpenseCategory string

const (
	ExpenseSalaries    ExpenseCategory = "Salaries"
	ExpenseRent        ExpenseCategory = "Rent"
	ExpenseLabFees     ExpenseCategory = "Lab Fees"
	ExpenseInventory   ExpenseCategory = "Inventory"
	ExpenseUtilities   ExpenseCategory = "Utilities"
	ExpenseMaintenance ExpenseCategory = "Maintenance"
	ExpenseMarketing   ExpenseCategory = "Marketing"
	ExpenseOther       ExpenseCategory = "Other"
)

// ValidExpenseCategory reports whether c is a known category.
func ValidExpenseCategory(c ExpenseCategory) bool {
	switch c {
	case ExpenseSalaries, ExpenseRent, ExpenseLabFees, ExpenseInventory,
		ExpenseUtilities, ExpenseMaintenance, ExpenseMarketing, ExpenseOther:
		return true
	}
	return false
}

// Expense is a branch-scoped outgoing cost.
type Expense struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id"`

	Title    string          `gorm:"type:varchar(255);not null" json:"title"`
	Category ExpenseCategory `gorm:"type:varchar(20);not null" json:"category"`
	Amount   float64         `gorm:"not null" json:"amount"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(20);default:'Bank Transfer'" json:"payment_method"`
	Vendor        string        `gorm:"type:varchar(255)" json:"vendor,omitempty"`

	Date       time.Time `gorm:"index" json:"date"`
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`
	RecordedBy uuid.UUID `gorm:"type:uuid" json:"recorded_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Expense) TableName() string {
	return "expenses"
}

// BeforeCreate hook
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}
	return nil
}

// CreateExpenseRequest is the client payload for recording an expense.
type CreateExpenseRequest struct {
	Title         string          `json:"title" validate:"required"`
	Category      ExpenseCategory `json:"category" validate:"required"`
	Amount        float64         `json:"amount" validate:"required,gt=0"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Vendor        string          `json:"vendor"`
	Date          *time.Time      `json:"date"`
	Notes         string          `json:"notes"`
}
