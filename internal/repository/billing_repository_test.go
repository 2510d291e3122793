package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

func billingFixture(t *testing.T, shortID string) (models.RequestScope, *PatientRepository, *BillingRepository, *models.Patient) {
	t.Helper()
	db := setupDB(t)
	clinic, branch := seedClinic(t, db, shortID)
	scope := branchScope(clinic, branch)

	patients := NewPatientRepository(NewSequenceRepository())
	billing := NewBillingRepository(NewSequenceRepository(), patients)

	patient := newPatient(scope, "Asha Verma")
	require.NoError(t, patients.Create(context.Background(), patient))
	return scope, patients, billing, patient
}

func newInvoice(scope models.RequestScope, patientID uuid.UUID, amount float64) *models.Invoice {
	return &models.Invoice{
		ClinicID:    scope.ClinicID,
		BranchID:    *scope.BranchID,
		PatientID:   patientID,
		TotalAmount: amount,
		FinalAmount: amount,
		Balance:     amount,
		Status:      models.InvoiceUnpaid,
		Items: []models.InvoiceItem{
			{ProcedureName: "Root Canal", Cost: amount},
		},
	}
}

func TestInvoiceNumbersAreSequentialPerClinic(t *testing.T) {
	scope, _, billing, patient := billingFixture(t, "CL-5001")
	ctx := context.Background()

	first := newInvoice(scope, patient.ID, 5000)
	require.NoError(t, billing.CreateInvoice(ctx, first, nil))
	assert.Equal(t, "INV-000001", first.Number)

	second := newInvoice(scope, patient.ID, 1200)
	require.NoError(t, billing.CreateInvoice(ctx, second, nil))
	assert.Equal(t, "INV-000002", second.Number)
}

func TestCreateInvoiceMarksTreatmentsBilled(t *testing.T) {
	scope, patients, billing, patient := billingFixture(t, "CL-5002")
	ctx := context.Background()

	item := &models.TreatmentItem{ClinicID: scope.ClinicID, PatientID: patient.ID, Procedure: "Crown", Cost: 3000, Status: models.TreatmentCompleted}
	require.NoError(t, patients.AddTreatment(ctx, item))

	invoice := newInvoice(scope, patient.ID, 3000)
	require.NoError(t, billing.CreateInvoice(ctx, invoice, []uuid.UUID{item.ID}))

	reloaded, err := patients.GetByID(ctx, scope, patient.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.TreatmentPlan, 1)
	assert.True(t, reloaded.TreatmentPlan[0].Billed)
}

func TestRecordPaymentAdvancesInvoice(t *testing.T) {
	scope, patients, billing, patient := billingFixture(t, "CL-5003")
	ctx := context.Background()

	item := &models.TreatmentItem{ClinicID: scope.ClinicID, PatientID: patient.ID, Procedure: "Extraction", Cost: 1000, Status: models.TreatmentCompleted}
	require.NoError(t, patients.AddTreatment(ctx, item))

	invoice := newInvoice(scope, patient.ID, 1000)
	require.NoError(t, billing.CreateInvoice(ctx, invoice, nil))

	pay := func(amount float64) *models.Payment {
		p := &models.Payment{
			ClinicID:  scope.ClinicID,
			BranchID:  *scope.BranchID,
			PatientID: patient.ID,
			InvoiceID: &invoice.ID,
			Amount:    amount,
			Method:    models.PaymentUPI,
		}
		require.NoError(t, billing.RecordPayment(ctx, p))
		return p
	}

	first := pay(400)
	assert.Equal(t, "REC-000001", first.ReceiptNumber)

	got, err := billing.GetInvoice(ctx, scope, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePartial, got.Status)
	assert.Equal(t, float64(400), got.PaidAmount)
	assert.Equal(t, float64(600), got.Balance)

	pay(600)
	got, err = billing.GetInvoice(ctx, scope, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, got.Status)
	assert.Zero(t, got.Balance)

	// Patient balance tracked both payments against the 1000 charge.
	reloaded, err := patients.GetByID(ctx, scope, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(1000), reloaded.TotalPaid)
	assert.Zero(t, reloaded.WalletBalance)
}

func TestPaymentStatusDerivedFromStoredAmounts(t *testing.T) {
	scope, _, billing, patient := billingFixture(t, "CL-5006")
	ctx := context.Background()

	invoice := newInvoice(scope, patient.ID, 1000)
	require.NoError(t, billing.CreateInvoice(ctx, invoice, nil))

	// A payment landed through another session; the stored amounts moved but
	// the status column was never advanced. The next payment must settle the
	// status from the stored amounts, not from any copy read earlier.
	require.NoError(t, database.DB.Exec(
		"UPDATE invoices SET paid_amount = paid_amount + 400, balance = balance - 400 WHERE id = ?",
		invoice.ID).Error)

	payment := &models.Payment{
		ClinicID:  scope.ClinicID,
		BranchID:  *scope.BranchID,
		PatientID: patient.ID,
		InvoiceID: &invoice.ID,
		Amount:    600,
		Method:    models.PaymentCash,
	}
	require.NoError(t, billing.RecordPayment(ctx, payment))

	got, err := billing.GetInvoice(ctx, scope, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, got.Status)
	assert.Equal(t, float64(1000), got.PaidAmount)
	assert.Zero(t, got.Balance)
}

func TestCancelInvoiceGuards(t *testing.T) {
	scope, _, billing, patient := billingFixture(t, "CL-5004")
	ctx := context.Background()

	invoice := newInvoice(scope, patient.ID, 500)
	require.NoError(t, billing.CreateInvoice(ctx, invoice, nil))

	payment := &models.Payment{
		ClinicID:  scope.ClinicID,
		BranchID:  *scope.BranchID,
		PatientID: patient.ID,
		InvoiceID: &invoice.ID,
		Amount:    100,
		Method:    models.PaymentCash,
	}
	require.NoError(t, billing.RecordPayment(ctx, payment))

	err := billing.CancelInvoice(ctx, scope, invoice.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	// A fresh invoice cancels once, then refuses.
	other := newInvoice(scope, patient.ID, 200)
	require.NoError(t, billing.CreateInvoice(ctx, other, nil))
	require.NoError(t, billing.CancelInvoice(ctx, scope, other.ID))

	err = billing.CancelInvoice(ctx, scope, other.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	// Cancelled invoices no longer accept payments.
	payment = &models.Payment{
		ClinicID:  scope.ClinicID,
		BranchID:  *scope.BranchID,
		PatientID: patient.ID,
		InvoiceID: &other.ID,
		Amount:    50,
		Method:    models.PaymentCash,
	}
	err = billing.RecordPayment(ctx, payment)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestOutstandingBalanceSumsOpenInvoices(t *testing.T) {
	scope, _, billing, patient := billingFixture(t, "CL-5005")
	ctx := context.Background()

	open := newInvoice(scope, patient.ID, 800)
	require.NoError(t, billing.CreateInvoice(ctx, open, nil))

	cancelled := newInvoice(scope, patient.ID, 999)
	require.NoError(t, billing.CreateInvoice(ctx, cancelled, nil))
	require.NoError(t, billing.CancelInvoice(ctx, scope, cancelled.ID))

	total, err := billing.OutstandingBalance(ctx, scope)
	require.NoError(t, err)
	assert.Equal(t, float64(800), total)
}
