package models

import "github.com/google/uuid"

// Sequence names for human-readable ids.
const (
	SeqBranch  = "branch"  // BID-001
	SeqPatient = "patient" // PID-1001
	SeqInvoice = "invoice" // INV-000001
	SeqReceipt = "receipt" // REC-000001
)

// Sequence is a per-clinic monotonic counter backing human-readable ids
// (branch codes, patient ids, invoice and receipt numbers). Incremented via
// a single atomic upsert; never count-then-format.
type Sequence struct {
	ClinicID uuid.UUID `gorm:"type:uuid;primaryKey" json:"clinic_id"`
	Name     string    `gorm:"type:varchar(30);primaryKey" json:"name"`
	Value    int64     `gorm:"not null" json:"value"`
}

// TableName overrides the table name
func (Sequence) TableName() string {
	return "sequences"
}
