package service

import (
	"errors"
	"time"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/repository"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
	"github.com/sofaspartan/sofaspartan-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrResetTokenExpired = errors.New("reset token has expired")
	ErrResetTokenUsed    = errors.New("reset token has already been used")
)

const (
	// ResetTokenExpiry is the duration for which a reset token is valid
	ResetTokenExpiry = 1 * time.Hour
	// ResetTokenLength is the byte length of the reset token
	ResetTokenLength = 32
)

type PasswordResetService interface {
	RequestReset(email string) error
	ResetPassword(token, newPassword string) error
}

type passwordResetService struct {
	resetRepo repository.PasswordResetRepository
	userRepo  repository.UserRepository
}

func NewPasswordResetService(
	resetRepo repository.PasswordResetRepository,
	userRepo repository.UserRepository,
) PasswordResetService {
	return &passwordResetService{
		resetRepo: resetRepo,
		userRepo:  userRepo,
	}
}

func (s *passwordResetService) RequestReset(email string) error {
	logger.Info("Processing password reset request", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Report success either way so the endpoint cannot be used
			// to probe which emails are registered.
			logger.Warn("Password reset requested for non-existent email", map[string]interface{}{
				"email": email,
			})
			return nil
		}
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	token, err := util.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		logger.Error("Failed to generate reset token", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	reset := &model.PasswordReset{
		Email:     email,
		Token:     token,
		ExpiresAt: time.Now().Add(ResetTokenExpiry),
		Used:      false,
	}

	if err := s.resetRepo.Create(reset); err != nil {
		logger.Error("Failed to create password reset record", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	// TODO: wire the reset link into a transactional email template;
	// until then the token only appears in the logs.
	logger.Info("Password reset token generated", map[string]interface{}{
		"email":      email,
		"token":      token,
		"expires_at": reset.ExpiresAt,
		"user_id":    user.ID,
	})

	return nil
}

func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	logger.Info("Processing password reset with token")

	reset, err := s.resetRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Invalid reset token provided", nil)
			return ErrInvalidResetToken
		}
		logger.Error("Failed to find reset record", err, nil)
		return err
	}

	if time.Now().After(reset.ExpiresAt) {
		logger.Warn("Reset token has expired", map[string]interface{}{
			"email":      reset.Email,
			"expires_at": reset.ExpiresAt,
		})
		return ErrResetTokenExpired
	}

	if reset.Used {
		logger.Warn("Reset token has already been used", map[string]interface{}{
			"email": reset.Email,
		})
		return ErrResetTokenUsed
	}

	user, err := s.userRepo.FindByEmail(reset.Email)
	if err != nil {
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"email": reset.Email,
		})
		return err
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	if err := s.userRepo.UpdatePassword(user.ID, hashedPassword); err != nil {
		logger.Error("Failed to update user password", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	if err := s.resetRepo.MarkAsUsed(reset.ID); err != nil {
		logger.Error("Failed to mark reset token as used", err, map[string]interface{}{
			"reset_id": reset.ID,
		})
		// The password was already updated; the stale token expires on
		// its own.
	}

	logger.Info("Password reset successful", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	return nil
}
