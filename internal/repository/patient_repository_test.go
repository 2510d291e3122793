package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
)

func newPatient(scope models.RequestScope, name string) *models.Patient {
	return &models.Patient{
		ClinicID:       scope.ClinicID,
		BranchID:       *scope.BranchID,
		FullName:       name,
		Mobile:         "5550001",
		AssignedDoctor: "Dr. Mehta",
		IsActive:       true,
	}
}

func TestPatientCreateAssignsCodes(t *testing.T) {
	db := setupDB(t)
	clinic, branch := seedClinic(t, db, "CL-3001")
	scope := branchScope(clinic, branch)

	repo := NewPatientRepository(NewSequenceRepository())
	ctx := context.Background()

	first := newPatient(scope, "Asha Verma")
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, "PID-1001", first.Code)

	second := newPatient(scope, "Rahul Jain")
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, "PID-1002", second.Code)
}

func TestPatientCrossTenantReadsAsNotFound(t *testing.T) {
	db := setupDB(t)
	clinicA, branchA := seedClinic(t, db, "CL-3002")
	clinicB, branchB := seedClinic(t, db, "CL-3003")

	repo := NewPatientRepository(NewSequenceRepository())
	ctx := context.Background()

	scopeA := branchScope(clinicA, branchA)
	patient := newPatient(scopeA, "Asha Verma")
	require.NoError(t, repo.Create(ctx, patient))

	// A valid id from another clinic must read as not found, never as
	// forbidden, so record existence does not leak across tenants.
	_, err := repo.GetByID(ctx, branchScope(clinicB, branchB), patient.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	// Same clinic, wrong branch: also invisible.
	repoB := NewBranchRepository(NewSequenceRepository())
	other := &models.Branch{ClinicID: clinicA.ID, Name: "North", IsActive: true}
	require.NoError(t, repoB.Create(ctx, other))
	_, err = repo.GetByID(ctx, branchScope(clinicA, other), patient.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	// Clinic-wide admin scope sees it.
	got, err := repo.GetByID(ctx, adminScope(clinicA), patient.ID)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, got.ID)
}

func TestStartTreatmentsChargesBalance(t *testing.T) {
	db := setupDB(t)
	clinic, branch := seedClinic(t, db, "CL-3004")
	scope := branchScope(clinic, branch)

	repo := NewPatientRepository(NewSequenceRepository())
	ctx := context.Background()

	patient := newPatient(scope, "Asha Verma")
	require.NoError(t, repo.Create(ctx, patient))

	a := &models.TreatmentItem{ClinicID: clinic.ID, PatientID: patient.ID, Procedure: "Root Canal", Cost: 5000, Status: models.TreatmentProposed}
	b := &models.TreatmentItem{ClinicID: clinic.ID, PatientID: patient.ID, Procedure: "Crown", Cost: 3000, Status: models.TreatmentProposed}
	require.NoError(t, repo.AddTreatment(ctx, a))
	require.NoError(t, repo.AddTreatment(ctx, b))

	// Proposed items do not bill.
	reloaded, err := repo.GetByID(ctx, scope, patient.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.TotalCost)

	started, err := repo.StartTreatments(ctx, scope, patient.ID, []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Len(t, started, 2)

	reloaded, err = repo.GetByID(ctx, scope, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(8000), reloaded.TotalCost)
	assert.Equal(t, float64(8000), reloaded.WalletBalance)

	// Starting again finds nothing proposed.
	_, err = repo.StartTreatments(ctx, scope, patient.ID, []uuid.UUID{a.ID, b.ID})
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestCancelTreatmentRefundsBalance(t *testing.T) {
	db := setupDB(t)
	clinic, branch := seedClinic(t, db, "CL-3005")
	scope := branchScope(clinic, branch)

	repo := NewPatientRepository(NewSequenceRepository())
	ctx := context.Background()

	patient := newPatient(scope, "Rahul Jain")
	require.NoError(t, repo.Create(ctx, patient))

	item := &models.TreatmentItem{ClinicID: clinic.ID, PatientID: patient.ID, Procedure: "Filling", Cost: 1200, Status: models.TreatmentInProgress}
	require.NoError(t, repo.AddTreatment(ctx, item))

	reloaded, err := repo.GetByID(ctx, scope, patient.ID)
	require.NoError(t, err)
	require.Equal(t, float64(1200), reloaded.TotalCost)

	require.NoError(t, repo.UpdateTreatmentStatus(ctx, scope, patient.ID, item.ID, models.TreatmentCancelled))

	reloaded, err = repo.GetByID(ctx, scope, patient.ID)
	require.NoError(t, err)
	assert.Zero(t, reloaded.TotalCost)
	assert.Zero(t, reloaded.WalletBalance)
}

func TestLedgerMergesDebitsAndCredits(t *testing.T) {
	db := setupDB(t)
	clinic, branch := seedClinic(t, db, "CL-3006")
	scope := branchScope(clinic, branch)

	patients := NewPatientRepository(NewSequenceRepository())
	billing := NewBillingRepository(NewSequenceRepository(), patients)
	ctx := context.Background()

	patient := newPatient(scope, "Asha Verma")
	require.NoError(t, patients.Create(ctx, patient))

	item := &models.TreatmentItem{ClinicID: clinic.ID, PatientID: patient.ID, Procedure: "Extraction", Cost: 2000, Status: models.TreatmentCompleted}
	require.NoError(t, patients.AddTreatment(ctx, item))

	payment := &models.Payment{
		ClinicID:  clinic.ID,
		BranchID:  branch.ID,
		PatientID: patient.ID,
		Amount:    500,
		Method:    models.PaymentCash,
	}
	require.NoError(t, billing.RecordPayment(ctx, payment))

	entries, err := patients.Ledger(ctx, scope, patient.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	types := []string{entries[0].Type, entries[1].Type}
	assert.Contains(t, types, "DEBIT")
	assert.Contains(t, types, "CREDIT")

	// Cross-tenant ledger access is not found.
	other, otherBranch := seedClinic(t, db, "CL-3007")
	_, err = patients.Ledger(ctx, branchScope(other, otherBranch), patient.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
