package middleware

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
)

// stubBranchChecker answers membership from a fixed clinic -> branches map.
type stubBranchChecker struct {
	clinics map[uuid.UUID][]uuid.UUID
}

func (s *stubBranchChecker) BranchInClinic(_ context.Context, clinicID, branchID uuid.UUID) (bool, error) {
	for _, id := range s.clinics[clinicID] {
		if id == branchID {
			return true, nil
		}
	}
	return false, nil
}

func TestResolveScope(t *testing.T) {
	clinicA := uuid.New()
	clinicB := uuid.New()
	branchA1 := uuid.New()
	branchA2 := uuid.New()
	branchB1 := uuid.New()

	checker := &stubBranchChecker{clinics: map[uuid.UUID][]uuid.UUID{
		clinicA: {branchA1, branchA2},
		clinicB: {branchB1},
	}}

	staff := func(defaultBranch *uuid.UUID, allowed ...uuid.UUID) *models.User {
		u := &models.User{
			ID:              uuid.New(),
			ClinicID:        clinicA,
			Role:            models.RoleReceptionist,
			DefaultBranchID: defaultBranch,
		}
		for _, id := range allowed {
			u.AllowedBranches = append(u.AllowedBranches, models.Branch{ID: id})
		}
		return u
	}
	admin := func(defaultBranch *uuid.UUID) *models.User {
		return &models.User{
			ID:              uuid.New(),
			ClinicID:        clinicA,
			Role:            models.RoleAdministrator,
			DefaultBranchID: defaultBranch,
		}
	}

	tests := []struct {
		name       string
		principal  *models.User
		header     string
		wantBranch *uuid.UUID
		wantKind   apperr.Kind
		wantErr    bool
	}{
		{
			name:       "staff member of requested branch",
			principal:  staff(&branchA1, branchA1, branchA2),
			header:     branchA2.String(),
			wantBranch: &branchA2,
		},
		{
			name:      "staff outside requested branch is forbidden",
			principal: staff(&branchA1, branchA1),
			header:    branchA2.String(),
			wantErr:   true,
			wantKind:  apperr.Forbidden,
		},
		{
			name:       "staff without header falls back to default branch",
			principal:  staff(&branchA1, branchA1),
			wantBranch: &branchA1,
		},
		{
			name:      "staff without default branch is rejected",
			principal: staff(nil, branchA1),
			wantErr:   true,
			wantKind:  apperr.BadRequest,
		},
		{
			name:       "admin may select any branch of own clinic",
			principal:  admin(&branchA1),
			header:     branchA2.String(),
			wantBranch: &branchA2,
		},
		{
			name:      "admin selecting other clinic branch is forbidden",
			principal: admin(&branchA1),
			header:    branchB1.String(),
			wantErr:   true,
			wantKind:  apperr.Forbidden,
		},
		{
			name:      "unknown branch reads the same as foreign branch",
			principal: admin(&branchA1),
			header:    uuid.NewString(),
			wantErr:   true,
			wantKind:  apperr.Forbidden,
		},
		{
			name:      "admin without default branch is clinic wide",
			principal: admin(nil),
		},
		{
			name:      "malformed header is a bad request",
			principal: admin(&branchA1),
			header:    "not-a-uuid",
			wantErr:   true,
			wantKind:  apperr.BadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, err := ResolveScope(context.Background(), tt.principal, tt.header, checker)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.principal.ID, scope.UserID)
			assert.Equal(t, tt.principal.ClinicID, scope.ClinicID)
			if tt.wantBranch == nil {
				assert.Nil(t, scope.BranchID)
				assert.True(t, scope.ClinicWide())
			} else {
				require.NotNil(t, scope.BranchID)
				assert.Equal(t, *tt.wantBranch, *scope.BranchID)
			}
		})
	}
}

func TestResolveScopeClinicFromPrincipalOnly(t *testing.T) {
	clinic := uuid.New()
	principal := &models.User{
		ID:       uuid.New(),
		ClinicID: clinic,
		Role:     models.RoleAdministrator,
	}
	checker := &stubBranchChecker{clinics: map[uuid.UUID][]uuid.UUID{}}

	scope, err := ResolveScope(context.Background(), principal, "", checker)
	require.NoError(t, err)

	// The clinic cannot be steered by any request input.
	assert.Equal(t, clinic, scope.ClinicID)
}
