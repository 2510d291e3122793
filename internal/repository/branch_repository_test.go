package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
)

func TestBranchCreateAssignsSequentialCodes(t *testing.T) {
	db := setupDB(t)
	clinic := &models.Clinic{ShortID: "CL-2001", Name: "Smile Dental"}
	require.NoError(t, db.Create(clinic).Error)

	repo := NewBranchRepository(NewSequenceRepository())
	ctx := context.Background()

	first := &models.Branch{ClinicID: clinic.ID, Name: "Main", IsActive: true}
	require.NoError(t, repo.Create(ctx, first))
	assert.Equal(t, "BID-001", first.Code)

	second := &models.Branch{ClinicID: clinic.ID, Name: "North", IsActive: true}
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, "BID-002", second.Code)
}

func TestBranchInClinic(t *testing.T) {
	db := setupDB(t)
	clinicA, branchA := seedClinic(t, db, "CL-2002")
	clinicB, branchB := seedClinic(t, db, "CL-2003")

	repo := NewBranchRepository(NewSequenceRepository())
	ctx := context.Background()

	ok, err := repo.BranchInClinic(ctx, clinicA.ID, branchA.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.BranchInClinic(ctx, clinicA.ID, branchB.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.BranchInClinic(ctx, clinicB.ID, branchA.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBranchDeleteRefusesLastBranch(t *testing.T) {
	db := setupDB(t)
	clinic, branch := seedClinic(t, db, "CL-2004")

	repo := NewBranchRepository(NewSequenceRepository())
	err := repo.Delete(context.Background(), adminScope(clinic), branch.ID)

	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestBranchDeleteCascades(t *testing.T) {
	db := setupDB(t)
	clinic, main := seedClinic(t, db, "CL-2005")

	repo := NewBranchRepository(NewSequenceRepository())
	ctx := context.Background()

	// The seeded branch consumed BID-001, so this one continues the sequence.
	second := &models.Branch{ClinicID: clinic.ID, Name: "North", IsActive: true}
	require.NoError(t, repo.Create(ctx, second))
	assert.Equal(t, "BID-002", second.Code)

	// A user assigned to the doomed branch, with it as default.
	user := &models.User{
		ClinicID:        clinic.ID,
		FullName:        "Nina Rao",
		Email:           "nina@example.com",
		PasswordHash:    "x",
		Role:            models.RoleNurse,
		Status:          models.UserActive,
		DefaultBranchID: &second.ID,
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Model(user).Association("AllowedBranches").Append(second))

	require.NoError(t, repo.Delete(ctx, adminScope(clinic), second.ID))

	// Membership rows are gone and the default pointer is cleared.
	var memberships int64
	require.NoError(t, db.Table("user_branches").Where("branch_id = ?", second.ID).Count(&memberships).Error)
	assert.Zero(t, memberships)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Nil(t, reloaded.DefaultBranchID)

	// The surviving branch is untouched.
	var remaining int64
	require.NoError(t, db.Model(&models.Branch{}).Where("clinic_id = ?", clinic.ID).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
	_ = main
}

func TestBranchGetCrossClinicIsNotFound(t *testing.T) {
	db := setupDB(t)
	clinicA, _ := seedClinic(t, db, "CL-2006")
	_, branchB := seedClinic(t, db, "CL-2007")

	repo := NewBranchRepository(NewSequenceRepository())
	_, err := repo.GetByID(context.Background(), adminScope(clinicA), branchB.ID)

	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
