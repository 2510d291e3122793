package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// setupDB points the package-global connection at a fresh in-memory store
// for one test.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

// seedClinic inserts a clinic with one branch and returns both. The branch
// goes through the repository so its code comes off the clinic sequence and
// later repository-created branches continue from BID-002.
func seedClinic(t *testing.T, db *gorm.DB, shortID string) (*models.Clinic, *models.Branch) {
	t.Helper()

	clinic := &models.Clinic{ShortID: shortID, Name: "Clinic " + shortID}
	require.NoError(t, db.Create(clinic).Error)

	branch := &models.Branch{ClinicID: clinic.ID, Name: "Main", IsActive: true}
	require.NoError(t, NewBranchRepository(NewSequenceRepository()).Create(context.Background(), branch))
	return clinic, branch
}

func branchScope(clinic *models.Clinic, branch *models.Branch) models.RequestScope {
	return models.RequestScope{
		UserID:   uuid.New(),
		ClinicID: clinic.ID,
		Role:     models.RoleReceptionist,
		BranchID: &branch.ID,
	}
}

func adminScope(clinic *models.Clinic) models.RequestScope {
	return models.RequestScope{
		UserID:   uuid.New(),
		ClinicID: clinic.ID,
		Role:     models.RoleAdministrator,
	}
}

func TestSequencesArePerClinic(t *testing.T) {
	db := setupDB(t)
	clinicA, _ := seedClinic(t, db, "CL-1001")
	clinicB, _ := seedClinic(t, db, "CL-1002")

	seqs := NewSequenceRepository()
	ctx := context.Background()

	n, err := seqs.Next(ctx, clinicA.ID, models.SeqPatient, 1001)
	require.NoError(t, err)
	require.Equal(t, int64(1001), n)

	n, err = seqs.Next(ctx, clinicA.ID, models.SeqPatient, 1001)
	require.NoError(t, err)
	require.Equal(t, int64(1002), n)

	// A second clinic starts from scratch.
	n, err = seqs.Next(ctx, clinicB.ID, models.SeqPatient, 1001)
	require.NoError(t, err)
	require.Equal(t, int64(1001), n)

	// Different names advance independently.
	n, err = seqs.Next(ctx, clinicA.ID, models.SeqInvoice, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestCodeFormatting(t *testing.T) {
	require.Equal(t, "BID-003", BranchCode(3))
	require.Equal(t, "PID-1001", PatientCode(1001))
	require.Equal(t, "INV-000042", InvoiceNumber(42))
	require.Equal(t, "REC-000007", ReceiptNumber(7))
}
