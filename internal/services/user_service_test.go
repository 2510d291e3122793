package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/auth"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

// userFixture wires a user service against an in-memory database with one
// clinic, one branch and one active administrator.
func userFixture(t *testing.T) (*UserService, models.RequestScope, *models.User) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	clinic := &models.Clinic{ShortID: "CL-7001", Name: "Smile Dental"}
	require.NoError(t, db.Create(clinic).Error)
	branch := &models.Branch{ClinicID: clinic.ID, Name: "Main", IsActive: true}
	require.NoError(t, repository.NewBranchRepository(repository.NewSequenceRepository()).Create(context.Background(), branch))

	admin := &models.User{
		ClinicID:     clinic.ID,
		FullName:     "Dr. Owner",
		Email:        "owner@smile.example",
		PasswordHash: "x",
		Role:         models.RoleAdministrator,
		Status:       models.UserActive,
	}
	require.NoError(t, db.Create(admin).Error)

	users := repository.NewUserRepository()
	branches := repository.NewBranchRepository(repository.NewSequenceRepository())
	audit := NewAuditService(repository.NewAuditRepository(), users)
	svc := NewUserService(users, branches, audit, "welcome123")

	scope := models.RequestScope{
		UserID:   admin.ID,
		ClinicID: clinic.ID,
		Role:     models.RoleAdministrator,
		BranchID: &branch.ID,
	}
	return svc, scope, admin
}

func TestUserCreateDefaultsToInitialPassword(t *testing.T) {
	svc, scope, _ := userFixture(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, scope, models.CreateUserRequest{
		FullName:  "Nina Rao",
		Email:     "nina@smile.example",
		Role:      models.RoleReceptionist,
		BranchIDs: []uuid.UUID{*scope.BranchID},
	})
	require.NoError(t, err)
	assert.True(t, user.MustChangePassword)
	assert.Empty(t, user.PasswordHash)
	require.NotNil(t, user.DefaultBranchID)
	assert.Equal(t, *scope.BranchID, *user.DefaultBranchID)
}

func TestProfileUpdatePreservesPasswordHash(t *testing.T) {
	svc, scope, _ := userFixture(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, scope, models.CreateUserRequest{
		FullName: "Dr. Mehta",
		Email:    "mehta@smile.example",
		Role:     models.RoleDoctor,
		Password: "s3cret99",
	})
	require.NoError(t, err)

	name := "Dr. A. Mehta"
	rate := 12.5
	_, err = svc.Update(ctx, scope, user.ID, models.UpdateUserRequest{
		FullName:       &name,
		CommissionRate: &rate,
	})
	require.NoError(t, err)

	var hash string
	require.NoError(t, database.DB.Model(&models.User{}).
		Where("id = ?", user.ID).
		Select("password_hash").
		Scan(&hash).Error)
	require.NotEmpty(t, hash)
	assert.True(t, auth.CheckPassword(hash, "s3cret99"))
}

func TestDefaultBranchImpliesMembership(t *testing.T) {
	svc, scope, _ := userFixture(t)
	ctx := context.Background()

	branches := repository.NewBranchRepository(repository.NewSequenceRepository())
	second := &models.Branch{ClinicID: scope.ClinicID, Name: "North", IsActive: true}
	require.NoError(t, branches.Create(ctx, second))

	// Creating with a default outside the assigned set adds the branch.
	user, err := svc.Create(ctx, scope, models.CreateUserRequest{
		FullName:      "Nina Rao",
		Email:         "nina@smile.example",
		Role:          models.RoleReceptionist,
		BranchIDs:     []uuid.UUID{*scope.BranchID},
		DefaultBranch: &second.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, user.DefaultBranchID)
	assert.Equal(t, second.ID, *user.DefaultBranchID)
	assert.True(t, user.CanAccessBranch(second.ID))

	// Same on update: repointing the default grants the branch as well.
	third := &models.Branch{ClinicID: scope.ClinicID, Name: "East", IsActive: true}
	require.NoError(t, branches.Create(ctx, third))
	_, err = svc.Update(ctx, scope, user.ID, models.UpdateUserRequest{DefaultBranch: &third.ID})
	require.NoError(t, err)

	principal, err := repository.NewUserRepository().Principal(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, principal.DefaultBranchID)
	assert.Equal(t, third.ID, *principal.DefaultBranchID)
	assert.True(t, principal.CanAccessBranch(third.ID))

	// A default from outside the clinic is still refused.
	foreign := uuid.New()
	_, err = svc.Update(ctx, scope, user.ID, models.UpdateUserRequest{DefaultBranch: &foreign})
	require.Error(t, err)
	assert.Equal(t, apperr.BadRequest, apperr.KindOf(err))
}

func TestDoctorsListsBranchAssignments(t *testing.T) {
	svc, scope, _ := userFixture(t)
	ctx := context.Background()

	doctor, err := svc.Create(ctx, scope, models.CreateUserRequest{
		FullName:  "Dr. Mehta",
		Email:     "mehta@smile.example",
		Role:      models.RoleDoctor,
		BranchIDs: []uuid.UUID{*scope.BranchID},
	})
	require.NoError(t, err)

	// A receptionist in the same branch must not appear.
	_, err = svc.Create(ctx, scope, models.CreateUserRequest{
		FullName:  "Nina Rao",
		Email:     "nina@smile.example",
		Role:      models.RoleReceptionist,
		BranchIDs: []uuid.UUID{*scope.BranchID},
	})
	require.NoError(t, err)

	doctors, err := svc.Doctors(ctx, scope)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, doctor.ID, doctors[0].ID)
}

func TestUserCreateRejectsForeignBranch(t *testing.T) {
	svc, scope, _ := userFixture(t)

	_, err := svc.Create(context.Background(), scope, models.CreateUserRequest{
		FullName:  "Nina Rao",
		Email:     "nina@smile.example",
		Role:      models.RoleReceptionist,
		BranchIDs: []uuid.UUID{uuid.New()},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.BadRequest, apperr.KindOf(err))
}

func TestLastAdminCannotBeDemotedOrDeleted(t *testing.T) {
	svc, scope, admin := userFixture(t)
	ctx := context.Background()

	doctor := models.RoleDoctor
	_, err := svc.Update(ctx, scope, admin.ID, models.UpdateUserRequest{Role: &doctor})
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	inactive := models.UserInactive
	_, err = svc.Update(ctx, scope, admin.ID, models.UpdateUserRequest{Status: &inactive})
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	// Deleting yourself is refused before the admin count even matters.
	err = svc.Delete(ctx, scope, admin.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	// With a second administrator the demotion goes through.
	second, err := svc.Create(ctx, scope, models.CreateUserRequest{
		FullName: "Co Admin",
		Email:    "co@smile.example",
		Role:     models.RoleAdministrator,
		Password: "s3cret99",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, scope, admin.ID, models.UpdateUserRequest{Role: &doctor})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDoctor, updated.Role)

	// Now the second admin is the last one standing.
	err = svc.Delete(ctx, scope, second.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
}
