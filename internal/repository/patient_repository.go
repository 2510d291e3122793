package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// PatientRepository handles patient database operations
type PatientRepository struct {
	sequences *SequenceRepository
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(sequences *SequenceRepository) *PatientRepository {
	return &PatientRepository{sequences: sequences}
}

// Create inserts a patient with the next per-clinic PID code.
func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := r.sequences.NextTx(tx, patient.ClinicID, models.SeqPatient, 1001)
		if err != nil {
			return apperr.Internalf(err, "internal server error")
		}
		patient.Code = PatientCode(n)
		if err := tx.Create(patient).Error; err != nil {
			return translate(err, "patient")
		}
		return nil
	})
}

// List returns patients visible to the scope, newest first. An optional
// search term matches name, mobile or PID code.
func (r *PatientRepository) List(ctx context.Context, s models.RequestScope, search string) ([]models.Patient, error) {
	q := branchScoped(database.DB.WithContext(ctx), s)
	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR mobile LIKE ? OR LOWER(code) LIKE ?", term, "%"+search+"%", term)
	}
	var patients []models.Patient
	err := q.Order("created_at DESC").Find(&patients).Error
	if err != nil {
		return nil, translate(err, "patients")
	}
	return patients, nil
}

// GetByID retrieves one patient visible to the scope, with the treatment
// plan preloaded.
func (r *PatientRepository) GetByID(ctx context.Context, s models.RequestScope, id uuid.UUID) (*models.Patient, error) {
	var patient models.Patient
	err := branchScoped(database.DB.WithContext(ctx), s).
		Preload("TreatmentPlan", func(db *gorm.DB) *gorm.DB {
			return db.Order("treatment_items.created_at ASC")
		}).
		Where("id = ?", id).
		First(&patient).Error
	if err != nil {
		return nil, translate(err, "patient")
	}
	return &patient, nil
}

// Update persists mutable patient fields. Ownership columns and balances are
// never written here.
func (r *PatientRepository) Update(ctx context.Context, s models.RequestScope, patient *models.Patient) error {
	err := database.DB.WithContext(ctx).
		Omit("TreatmentPlan", "clinic_id", "branch_id", "code", "total_cost", "total_paid", "wallet_balance").
		Save(patient).Error
	if err != nil {
		return translate(err, "patient")
	}
	return nil
}

// Delete removes a patient visible to the scope.
func (r *PatientRepository) Delete(ctx context.Context, s models.RequestScope, id uuid.UUID) error {
	res := branchScoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		Delete(&models.Patient{})
	if res.Error != nil {
		return translate(res.Error, "patient")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("patient not found")
	}
	return nil
}

// AddTreatment appends a treatment plan item and, when the item is billable,
// bumps the patient's running balance atomically in the same transaction.
func (r *PatientRepository) AddTreatment(ctx context.Context, item *models.TreatmentItem) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return translate(err, "treatment")
		}
		if item.Status == models.TreatmentInProgress || item.Status == models.TreatmentCompleted {
			return r.applyCharge(tx, item.ClinicID, item.PatientID, item.Cost)
		}
		return nil
	})
}

// StartTreatments moves the given Proposed items of one patient to
// In Progress and charges their cost to the patient balance. Items not in
// Proposed state are left untouched.
func (r *PatientRepository) StartTreatments(ctx context.Context, s models.RequestScope, patientID uuid.UUID, itemIDs []uuid.UUID) ([]models.TreatmentItem, error) {
	var started []models.TreatmentItem
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.TreatmentItem
		if err := tx.Where("clinic_id = ? AND patient_id = ? AND id IN ? AND status = ?",
			s.ClinicID, patientID, itemIDs, models.TreatmentProposed).
			Find(&items).Error; err != nil {
			return translate(err, "treatments")
		}
		if len(items) == 0 {
			return apperr.NotFoundf("no proposed treatments to start")
		}

		var total float64
		ids := make([]uuid.UUID, 0, len(items))
		for _, it := range items {
			total += it.Cost
			ids = append(ids, it.ID)
		}
		if err := tx.Model(&models.TreatmentItem{}).
			Where("id IN ?", ids).
			Update("status", models.TreatmentInProgress).Error; err != nil {
			return translate(err, "treatments")
		}
		if err := r.applyCharge(tx, s.ClinicID, patientID, total); err != nil {
			return err
		}
		for i := range items {
			items[i].Status = models.TreatmentInProgress
		}
		started = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return started, nil
}

// UpdateTreatmentStatus transitions one treatment item, adjusting the
// patient balance when the item enters or leaves the billable set.
func (r *PatientRepository) UpdateTreatmentStatus(ctx context.Context, s models.RequestScope, patientID, itemID uuid.UUID, status models.TreatmentStatus) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.TreatmentItem
		err := tx.Where("clinic_id = ? AND patient_id = ? AND id = ?", s.ClinicID, patientID, itemID).
			First(&item).Error
		if err != nil {
			return translate(err, "treatment")
		}

		wasBillable := item.Status == models.TreatmentInProgress || item.Status == models.TreatmentCompleted
		willBeBillable := status == models.TreatmentInProgress || status == models.TreatmentCompleted

		if err := tx.Model(&item).Update("status", status).Error; err != nil {
			return translate(err, "treatment")
		}
		switch {
		case !wasBillable && willBeBillable:
			return r.applyCharge(tx, s.ClinicID, patientID, item.Cost)
		case wasBillable && !willBeBillable:
			return r.applyCharge(tx, s.ClinicID, patientID, -item.Cost)
		}
		return nil
	})
}

// MarkTreatmentsBilled flags treatment items as invoiced.
func (r *PatientRepository) MarkTreatmentsBilled(tx *gorm.DB, clinicID uuid.UUID, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	err := tx.Model(&models.TreatmentItem{}).
		Where("clinic_id = ? AND id IN ?", clinicID, itemIDs).
		Update("billed", true).Error
	if err != nil {
		return translate(err, "treatments")
	}
	return nil
}

// ApplyPayment credits amount against the patient's balance. Runs inside
// the caller's payment transaction.
func (r *PatientRepository) ApplyPayment(tx *gorm.DB, clinicID, patientID uuid.UUID, amount float64) error {
	res := tx.Model(&models.Patient{}).
		Where("clinic_id = ? AND id = ?", clinicID, patientID).
		Updates(map[string]interface{}{
			"total_paid":     gorm.Expr("total_paid + ?", amount),
			"wallet_balance": gorm.Expr("wallet_balance - ?", amount),
		})
	if res.Error != nil {
		return translate(res.Error, "patient")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("patient not found")
	}
	return nil
}

// applyCharge debits (or with a negative amount, refunds) the patient's
// running treatment cost.
func (r *PatientRepository) applyCharge(tx *gorm.DB, clinicID, patientID uuid.UUID, amount float64) error {
	res := tx.Model(&models.Patient{}).
		Where("clinic_id = ? AND id = ?", clinicID, patientID).
		Updates(map[string]interface{}{
			"total_cost":     gorm.Expr("total_cost + ?", amount),
			"wallet_balance": gorm.Expr("wallet_balance + ?", amount),
		})
	if res.Error != nil {
		return translate(res.Error, "patient")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("patient not found")
	}
	return nil
}

// Count returns the number of patients visible to the scope, and how many
// of them registered inside [from, to).
func (r *PatientRepository) Count(ctx context.Context, s models.RequestScope, from, to time.Time) (total, recent int64, err error) {
	if err = branchScoped(database.DB.WithContext(ctx), s).
		Model(&models.Patient{}).
		Count(&total).Error; err != nil {
		return 0, 0, apperr.Internalf(err, "internal server error")
	}
	if err = branchScoped(database.DB.WithContext(ctx), s).
		Model(&models.Patient{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&recent).Error; err != nil {
		return 0, 0, apperr.Internalf(err, "internal server error")
	}
	return total, recent, nil
}

// Ledger merges the patient's billable treatments (debits) and payments
// (credits) into one history, newest first.
func (r *PatientRepository) Ledger(ctx context.Context, s models.RequestScope, patientID uuid.UUID) ([]models.LedgerEntry, error) {
	// Existence check under the scope first, so a cross-tenant id reads as
	// not found rather than an empty ledger.
	var count int64
	if err := branchScoped(database.DB.WithContext(ctx), s).
		Model(&models.Patient{}).
		Where("id = ?", patientID).
		Count(&count).Error; err != nil {
		return nil, translate(err, "patient")
	}
	if count == 0 {
		return nil, apperr.NotFoundf("patient not found")
	}

	var items []models.TreatmentItem
	if err := database.DB.WithContext(ctx).
		Where("clinic_id = ? AND patient_id = ? AND status IN ?",
			s.ClinicID, patientID,
			[]models.TreatmentStatus{models.TreatmentInProgress, models.TreatmentCompleted}).
		Find(&items).Error; err != nil {
		return nil, translate(err, "treatments")
	}

	var payments []models.Payment
	if err := database.DB.WithContext(ctx).
		Where("clinic_id = ? AND patient_id = ?", s.ClinicID, patientID).
		Find(&payments).Error; err != nil {
		return nil, translate(err, "payments")
	}

	entries := make([]models.LedgerEntry, 0, len(items)+len(payments))
	for _, it := range items {
		entries = append(entries, models.LedgerEntry{
			ID:          it.ID,
			Date:        it.Date,
			Description: it.Procedure,
			Type:        "DEBIT",
			Amount:      it.Cost,
			Tooth:       it.Tooth,
		})
	}
	for _, p := range payments {
		entries = append(entries, models.LedgerEntry{
			ID:            p.ID,
			Date:          p.Date,
			Description:   "Payment (" + string(p.Method) + ")",
			Type:          "CREDIT",
			Amount:        p.Amount,
			ReceiptNumber: p.ReceiptNumber,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}
