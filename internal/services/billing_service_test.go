package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/cache"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

// billingServiceFixture wires a billing service with one clinic, one branch,
// a doctor, a patient and the default role policies seeded.
func billingServiceFixture(t *testing.T) (*BillingService, *SettingsService, models.RequestScope, *models.Patient, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	clinic := &models.Clinic{ShortID: "CL-7010", Name: "Smile Dental"}
	require.NoError(t, db.Create(clinic).Error)
	branch := &models.Branch{ClinicID: clinic.ID, Name: "Main", IsActive: true}
	require.NoError(t, repository.NewBranchRepository(repository.NewSequenceRepository()).Create(context.Background(), branch))

	roles := repository.NewRoleRepository()
	require.NoError(t, roles.SeedDefaults(db, models.DefaultRolePolicies(clinic.ID)))

	doctor := &models.User{
		ClinicID:       clinic.ID,
		FullName:       "Dr. Iyer",
		Email:          "iyer@smile.example",
		PasswordHash:   "x",
		Role:           models.RoleDoctor,
		Status:         models.UserActive,
		CommissionRate: 10,
	}
	require.NoError(t, db.Create(doctor).Error)
	require.NoError(t, db.Exec("INSERT INTO user_branches (user_id, branch_id) VALUES (?, ?)", doctor.ID, branch.ID).Error)

	users := repository.NewUserRepository()
	patients := repository.NewPatientRepository(repository.NewSequenceRepository())
	billingRepo := repository.NewBillingRepository(repository.NewSequenceRepository(), patients)
	audit := NewAuditService(repository.NewAuditRepository(), users)
	settings := NewSettingsService(repository.NewClinicRepository(), roles, audit)
	svc := NewBillingService(billingRepo, patients, users, settings, audit, cache.NewMemoryCache())

	scope := models.RequestScope{
		UserID:   doctor.ID,
		ClinicID: clinic.ID,
		Role:     models.RoleReceptionist,
		BranchID: &branch.ID,
	}

	patient := &models.Patient{ClinicID: clinic.ID, BranchID: branch.ID, FullName: "Asha Verma"}
	require.NoError(t, patients.Create(context.Background(), patient))

	return svc, settings, scope, patient, doctor
}

func TestInvoiceDiscountRequiresPermission(t *testing.T) {
	svc, settings, scope, patient, doctor := billingServiceFixture(t)
	ctx := context.Background()

	req := models.CreateInvoiceRequest{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Items:     []models.InvoiceItemRequest{{ProcedureName: "Scaling", Cost: 1500}},
		Discount:  200,
	}

	// The default receptionist policy carries no discount permission.
	_, err := svc.CreateInvoice(ctx, scope, req)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Forbidden))

	adminScope := scope
	adminScope.Role = models.RoleAdministrator
	_, err = settings.UpdateRolePolicy(ctx, adminScope, models.UpdateRolePolicyRequest{
		Role:        models.RoleReceptionist,
		Permissions: []string{models.PermOpsCalendar, models.PermFinEditInvoice, models.PermFinDiscounts},
	})
	require.NoError(t, err)

	invoice, err := svc.CreateInvoice(ctx, scope, req)
	require.NoError(t, err)
	assert.Equal(t, float64(1300), invoice.FinalAmount)
}

func TestInvoiceWithoutDiscountNeedsNoPermission(t *testing.T) {
	svc, _, scope, patient, doctor := billingServiceFixture(t)
	ctx := context.Background()

	invoice, err := svc.CreateInvoice(ctx, scope, models.CreateInvoiceRequest{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Items:     []models.InvoiceItemRequest{{ProcedureName: "Consultation", Cost: 500}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceUnpaid, invoice.Status)
	assert.Equal(t, float64(50), invoice.Items[0].DoctorCommissionAmount)
}
