package repository

import (
	"time"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
	"gorm.io/gorm"
)

type PasswordResetRepository interface {
	Create(reset *model.PasswordReset) error
	FindByToken(token string) (*model.PasswordReset, error)
	MarkAsUsed(id uint) error
	DeleteExpired() (int64, error)
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(reset *model.PasswordReset) error {
	logger.Debug("Creating password reset in database", map[string]interface{}{
		"email": reset.Email,
	})

	if err := r.db.Create(reset).Error; err != nil {
		logger.Error("Failed to create password reset in database", err, map[string]interface{}{
			"email": reset.Email,
		})
		return err
	}
	return nil
}

func (r *passwordResetRepository) FindByToken(token string) (*model.PasswordReset, error) {
	var reset model.PasswordReset
	if err := r.db.Where("token = ?", token).First(&reset).Error; err != nil {
		logger.Error("Failed to find password reset by token in database", err, nil)
		return nil, err
	}
	return &reset, nil
}

func (r *passwordResetRepository) MarkAsUsed(id uint) error {
	if err := r.db.Model(&model.PasswordReset{}).Where("id = ?", id).
		Update("used", true).Error; err != nil {
		logger.Error("Failed to mark password reset as used in database", err, map[string]interface{}{
			"id": id,
		})
		return err
	}
	return nil
}

func (r *passwordResetRepository) DeleteExpired() (int64, error) {
	result := r.db.Where("expires_at < ?", time.Now()).Delete(&model.PasswordReset{})
	if result.Error != nil {
		logger.Error("Failed to delete expired password resets from database", result.Error, nil)
		return 0, result.Error
	}

	logger.Debug("Expired password resets deleted from database", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
