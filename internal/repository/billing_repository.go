package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// BillingRepository handles invoice and payment database operations
type BillingRepository struct {
	sequences *SequenceRepository
	patients  *PatientRepository
}

// NewBillingRepository creates a new billing repository
func NewBillingRepository(sequences *SequenceRepository, patients *PatientRepository) *BillingRepository {
	return &BillingRepository{sequences: sequences, patients: patients}
}

// CreateInvoice inserts an invoice with the next per-clinic number and
// marks the billed treatment items, all in one transaction.
func (r *BillingRepository) CreateInvoice(ctx context.Context, invoice *models.Invoice, treatmentIDs []uuid.UUID) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := r.sequences.NextTx(tx, invoice.ClinicID, models.SeqInvoice, 1)
		if err != nil {
			return apperr.Internalf(err, "internal server error")
		}
		invoice.Number = InvoiceNumber(n)
		if err := tx.Create(invoice).Error; err != nil {
			return translate(err, "invoice")
		}
		return r.patients.MarkTreatmentsBilled(tx, invoice.ClinicID, treatmentIDs)
	})
}

// ListInvoices returns invoices visible to the scope, newest first,
// optionally filtered by patient.
func (r *BillingRepository) ListInvoices(ctx context.Context, s models.RequestScope, patientID *uuid.UUID) ([]models.Invoice, error) {
	q := branchScoped(database.DB.WithContext(ctx), s).Preload("Items")
	if patientID != nil {
		q = q.Where("patient_id = ?", *patientID)
	}
	var invoices []models.Invoice
	err := q.Order("created_at DESC").Find(&invoices).Error
	if err != nil {
		return nil, translate(err, "invoices")
	}
	return invoices, nil
}

// GetInvoice retrieves one invoice visible to the scope.
func (r *BillingRepository) GetInvoice(ctx context.Context, s models.RequestScope, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := branchScoped(database.DB.WithContext(ctx), s).
		Preload("Items").
		Where("id = ?", id).
		First(&invoice).Error
	if err != nil {
		return nil, translate(err, "invoice")
	}
	return &invoice, nil
}

// CancelInvoice voids an unpaid invoice.
func (r *BillingRepository) CancelInvoice(ctx context.Context, s models.RequestScope, id uuid.UUID) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		err := branchScoped(tx, s).Where("id = ?", id).First(&invoice).Error
		if err != nil {
			return translate(err, "invoice")
		}
		if invoice.PaidAmount > 0 {
			return apperr.Conflictf("invoice has recorded payments and cannot be cancelled")
		}
		if invoice.Status == models.InvoiceCancelled {
			return apperr.Conflictf("invoice is already cancelled")
		}
		return translate(tx.Model(&invoice).Update("status", models.InvoiceCancelled).Error, "invoice")
	})
}

// RecordPayment inserts a payment with the next per-clinic receipt number,
// credits the patient balance, and when the payment targets an invoice,
// advances the invoice's paid amount and status. One transaction covers all
// three writes.
func (r *BillingRepository) RecordPayment(ctx context.Context, payment *models.Payment) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := r.sequences.NextTx(tx, payment.ClinicID, models.SeqReceipt, 1)
		if err != nil {
			return apperr.Internalf(err, "internal server error")
		}
		payment.ReceiptNumber = ReceiptNumber(n)
		if err := tx.Create(payment).Error; err != nil {
			return translate(err, "payment")
		}

		if err := r.patients.ApplyPayment(tx, payment.ClinicID, payment.PatientID, payment.Amount); err != nil {
			return err
		}

		if payment.InvoiceID == nil {
			return nil
		}
		var invoice models.Invoice
		err = tx.Where("clinic_id = ? AND id = ?", payment.ClinicID, *payment.InvoiceID).
			First(&invoice).Error
		if err != nil {
			return translate(err, "invoice")
		}
		if invoice.Status == models.InvoiceCancelled {
			return apperr.Conflictf("invoice is cancelled")
		}

		// Status derives from the stored amounts in the same statement as
		// the increment. Computing it from the row read above would lose the
		// update when two payments land concurrently.
		err = tx.Model(&invoice).Updates(map[string]interface{}{
			"paid_amount": gorm.Expr("paid_amount + ?", payment.Amount),
			"balance":     gorm.Expr("final_amount - paid_amount - ?", payment.Amount),
			"status": gorm.Expr("CASE WHEN paid_amount + ? >= final_amount THEN ? ELSE ? END",
				payment.Amount, string(models.InvoicePaid), string(models.InvoicePartial)),
		}).Error
		return translate(err, "invoice")
	})
}

// ListPayments returns payments visible to the scope, newest first,
// optionally filtered by patient.
func (r *BillingRepository) ListPayments(ctx context.Context, s models.RequestScope, patientID *uuid.UUID) ([]models.Payment, error) {
	q := branchScoped(database.DB.WithContext(ctx), s)
	if patientID != nil {
		q = q.Where("patient_id = ?", *patientID)
	}
	var payments []models.Payment
	err := q.Order("date DESC").Find(&payments).Error
	if err != nil {
		return nil, translate(err, "payments")
	}
	return payments, nil
}

// SumPaymentsInWindow totals payments dated inside [from, to) for
// dashboard rollups.
func (r *BillingRepository) SumPaymentsInWindow(ctx context.Context, s models.RequestScope, from, to time.Time) (float64, error) {
	var total float64
	err := branchScoped(database.DB.WithContext(ctx), s).
		Model(&models.Payment{}).
		Where("date >= ? AND date < ?", from, to).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, apperr.Internalf(err, "internal server error")
	}
	return total, nil
}

// OutstandingBalance totals the unpaid remainder of open invoices.
func (r *BillingRepository) OutstandingBalance(ctx context.Context, s models.RequestScope) (float64, error) {
	var total float64
	err := branchScoped(database.DB.WithContext(ctx), s).
		Model(&models.Invoice{}).
		Where("status IN ?", []models.InvoiceStatus{models.InvoiceUnpaid, models.InvoicePartial}).
		Select("COALESCE(SUM(final_amount - paid_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, apperr.Internalf(err, "internal server error")
	}
	return total, nil
}

// GetPayment retrieves one payment visible to the scope.
func (r *BillingRepository) GetPayment(ctx context.Context, s models.RequestScope, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := branchScoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, translate(err, "payment")
	}
	return &payment, nil
}
