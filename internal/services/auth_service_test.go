package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

func authFixture(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })

	seq := repository.NewSequenceRepository()
	return NewAuthService(
		repository.NewClinicRepository(),
		repository.NewUserRepository(),
		repository.NewBranchRepository(seq),
		repository.NewRoleRepository(),
		"test-secret",
		time.Hour,
	)
}

func TestRegisterClinicCreatesTenant(t *testing.T) {
	svc := authFixture(t)
	ctx := context.Background()

	resp, err := svc.RegisterClinic(ctx, RegisterClinicRequest{
		ClinicName: "Pearl Dental",
		BranchName: "Main",
		AdminName:  "Dr. Mehta",
		AdminEmail: "mehta@pearl.example",
		Password:   "s3cret99",
		Phone:      "9876543210",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.User.PasswordHash)
	assert.True(t, strings.HasPrefix(resp.Clinic.ShortID, "CL-"))

	var branch models.Branch
	require.NoError(t, database.DB.Where("clinic_id = ?", resp.Clinic.ID).First(&branch).Error)
	assert.Equal(t, "BID-001", branch.Code)

	require.NotNil(t, resp.User.DefaultBranchID)
	assert.Equal(t, branch.ID, *resp.User.DefaultBranchID)

	var memberships int64
	require.NoError(t, database.DB.Table("user_branches").
		Where("user_id = ?", resp.User.ID).Count(&memberships).Error)
	assert.EqualValues(t, 1, memberships)

	var policies int64
	require.NoError(t, database.DB.Model(&models.RolePolicy{}).
		Where("clinic_id = ?", resp.Clinic.ID).Count(&policies).Error)
	assert.EqualValues(t, len(models.DefaultRolePolicies(resp.Clinic.ID)), policies)
}

func TestRegisterClinicDuplicateEmailLeavesNothingBehind(t *testing.T) {
	svc := authFixture(t)
	ctx := context.Background()

	req := RegisterClinicRequest{
		ClinicName: "Pearl Dental",
		BranchName: "Main",
		AdminName:  "Dr. Mehta",
		AdminEmail: "mehta@pearl.example",
		Password:   "s3cret99",
	}
	_, err := svc.RegisterClinic(ctx, req)
	require.NoError(t, err)

	req.ClinicName = "Pearl Dental Two"
	_, err = svc.RegisterClinic(ctx, req)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Conflict))

	var clinics int64
	require.NoError(t, database.DB.Model(&models.Clinic{}).Count(&clinics).Error)
	assert.EqualValues(t, 1, clinics)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := authFixture(t)
	ctx := context.Background()

	_, err := svc.RegisterClinic(ctx, RegisterClinicRequest{
		ClinicName: "Pearl Dental",
		BranchName: "Main",
		AdminName:  "Dr. Mehta",
		AdminEmail: "mehta@pearl.example",
		Password:   "s3cret99",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "mehta@pearl.example", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Unauthenticated))
}
