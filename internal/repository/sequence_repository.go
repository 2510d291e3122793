package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// SequenceRepository hands out per-clinic monotonic values for
// human-readable ids. The increment is a single upsert so concurrent
// creations never observe the same value.
type SequenceRepository struct{}

// NewSequenceRepository creates a new sequence repository
func NewSequenceRepository() *SequenceRepository {
	return &SequenceRepository{}
}

// Next returns the next value of the named per-clinic sequence, creating it
// at start on first use.
func (r *SequenceRepository) Next(ctx context.Context, clinicID uuid.UUID, name string, start int64) (int64, error) {
	return nextSequence(database.DB.WithContext(ctx), clinicID, name, start)
}

// NextTx is Next inside an existing transaction.
func (r *SequenceRepository) NextTx(tx *gorm.DB, clinicID uuid.UUID, name string, start int64) (int64, error) {
	return nextSequence(tx, clinicID, name, start)
}

func nextSequence(db *gorm.DB, clinicID uuid.UUID, name string, start int64) (int64, error) {
	seq := models.Sequence{ClinicID: clinicID, Name: name, Value: start}
	err := db.Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "clinic_id"}, {Name: "name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"value": gorm.Expr("value + 1")}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "value"}}},
	).Create(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", name, err)
	}
	return seq.Value, nil
}

// BranchCode formats the nth branch code, e.g. BID-003.
func BranchCode(n int64) string {
	return fmt.Sprintf("BID-%03d", n)
}

// PatientCode formats the nth patient id, e.g. PID-1001.
func PatientCode(n int64) string {
	return fmt.Sprintf("PID-%d", n)
}

// InvoiceNumber formats the nth invoice number, e.g. INV-000042.
func InvoiceNumber(n int64) string {
	return fmt.Sprintf("INV-%06d", n)
}

// ReceiptNumber formats the nth receipt number, e.g. REC-000042.
func ReceiptNumber(n int64) string {
	return fmt.Sprintf("REC-%06d", n)
}
