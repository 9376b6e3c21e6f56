package service

import (
	"testing"
	"time"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/repository"
	"github.com/sofaspartan/sofaspartan-backend/internal/db"
	"github.com/sofaspartan/sofaspartan-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPasswordResetTest(t *testing.T) (PasswordResetService, repository.PasswordResetRepository, repository.UserRepository, *gorm.DB) {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	resetRepo := repository.NewPasswordResetRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	svc := NewPasswordResetService(resetRepo, userRepo)

	return svc, resetRepo, userRepo, testDB
}

func createResetUser(t *testing.T, userRepo repository.UserRepository) *model.User {
	t.Helper()

	hash, err := util.HashPassword("oldpassword123")
	require.NoError(t, err)

	user := &model.User{
		Email:        "listener@example.com",
		PasswordHash: hash,
		DisplayName:  "listener",
		Role:         model.RoleRegular,
	}
	require.NoError(t, userRepo.Create(user))
	return user
}

func TestPasswordResetService_RequestReset(t *testing.T) {
	svc, _, userRepo, testDB := setupPasswordResetTest(t)
	createResetUser(t, userRepo)

	require.NoError(t, svc.RequestReset("listener@example.com"))

	var count int64
	require.NoError(t, testDB.Model(&model.PasswordReset{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var reset model.PasswordReset
	require.NoError(t, testDB.First(&reset).Error)
	assert.Equal(t, "listener@example.com", reset.Email)
	assert.NotEmpty(t, reset.Token)
	assert.False(t, reset.Used)
	assert.True(t, reset.ExpiresAt.After(time.Now()))
}

func TestPasswordResetService_RequestResetUnknownEmail(t *testing.T) {
	svc, _, _, testDB := setupPasswordResetTest(t)

	// Unknown emails report success so the endpoint cannot be used to
	// probe which addresses are registered. No record is written.
	require.NoError(t, svc.RequestReset("nobody@example.com"))

	var count int64
	require.NoError(t, testDB.Model(&model.PasswordReset{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestPasswordResetService_ResetPassword(t *testing.T) {
	svc, resetRepo, userRepo, _ := setupPasswordResetTest(t)
	user := createResetUser(t, userRepo)

	reset := &model.PasswordReset{
		Email:     user.Email,
		Token:     "valid-reset-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, resetRepo.Create(reset))

	require.NoError(t, svc.ResetPassword("valid-reset-token", "newpassword456"))

	reloaded, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, util.VerifyPassword(reloaded.PasswordHash, "newpassword456"))
	assert.False(t, util.VerifyPassword(reloaded.PasswordHash, "oldpassword123"))

	// The token is single-use.
	err = svc.ResetPassword("valid-reset-token", "anotherpassword789")
	assert.ErrorIs(t, err, ErrResetTokenUsed)
}

func TestPasswordResetService_ResetPasswordInvalidToken(t *testing.T) {
	svc, _, userRepo, _ := setupPasswordResetTest(t)
	createResetUser(t, userRepo)

	err := svc.ResetPassword("no-such-token", "newpassword456")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestPasswordResetService_ResetPasswordExpiredToken(t *testing.T) {
	svc, resetRepo, userRepo, _ := setupPasswordResetTest(t)
	user := createResetUser(t, userRepo)

	reset := &model.PasswordReset{
		Email:     user.Email,
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, resetRepo.Create(reset))

	err := svc.ResetPassword("expired-token", "newpassword456")
	assert.ErrorIs(t, err, ErrResetTokenExpired)

	// The old password still works.
	reloaded, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, util.VerifyPassword(reloaded.PasswordHash, "oldpassword123"))
}
