package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
)

func TestRolePolicySeedAndUpsert(t *testing.T) {
	db := setupDB(t)
	clinic, _ := seedClinic(t, db, "CL-6001")
	scope := adminScope(clinic)

	repo := NewRoleRepository()
	ctx := context.Background()

	require.NoError(t, repo.SeedDefaults(db, models.DefaultRolePolicies(clinic.ID)))

	policies, err := repo.ListByClinic(ctx, scope)
	require.NoError(t, err)
	assert.Len(t, policies, 4)

	nurse, err := repo.GetByRole(ctx, scope, models.RoleNurse)
	require.NoError(t, err)
	assert.Empty(t, nurse.Permissions)

	// Upsert replaces the permission list in place, no duplicate row.
	updated, err := repo.Upsert(ctx, scope, models.RoleNurse, []string{models.PermOpsCalendar})
	require.NoError(t, err)
	assert.Equal(t, []string{models.PermOpsCalendar}, updated.Permissions)

	policies, err = repo.ListByClinic(ctx, scope)
	require.NoError(t, err)
	assert.Len(t, policies, 4)
}

func TestRolePoliciesAreClinicScoped(t *testing.T) {
	db := setupDB(t)
	clinicA, _ := seedClinic(t, db, "CL-6002")
	clinicB, _ := seedClinic(t, db, "CL-6003")

	repo := NewRoleRepository()
	ctx := context.Background()

	require.NoError(t, repo.SeedDefaults(db, models.DefaultRolePolicies(clinicA.ID)))

	_, err := repo.GetByRole(ctx, adminScope(clinicB), models.RoleDoctor)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	// Editing clinic B's doctor policy does not touch clinic A's.
	_, err = repo.Upsert(ctx, adminScope(clinicB), models.RoleDoctor, []string{models.PermFinViewRevenue})
	require.NoError(t, err)

	a, err := repo.GetByRole(ctx, adminScope(clinicA), models.RoleDoctor)
	require.NoError(t, err)
	assert.Contains(t, a.Permissions, models.PermOpsCalendar)
}
