package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/repository"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/service"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
)

// ModerationScheduler runs the daily housekeeping jobs: a moderation
// digest for the artist and a purge of expired password reset tokens.
type ModerationScheduler struct {
	cron              *cron.Cron
	moderationService service.ModerationService
	resetRepo         repository.PasswordResetRepository
}

func NewModerationScheduler(
	moderationService service.ModerationService,
	resetRepo repository.PasswordResetRepository,
) *ModerationScheduler {
	return &ModerationScheduler{
		cron:              cron.New(),
		moderationService: moderationService,
		resetRepo:         resetRepo,
	}
}

func (s *ModerationScheduler) Start() error {
	// Daily at 9:00 AM: log how much is waiting for moderation.
	_, err := s.cron.AddFunc("0 9 * * *", func() {
		reported, pinned, err := s.moderationService.DigestSummary()
		if err != nil {
			logger.Error("Failed to build moderation digest", err, nil)
			return
		}

		logger.Info("Daily moderation digest", map[string]interface{}{
			"reported_comments": reported,
			"pinned_comments":   pinned,
		})
	})
	if err != nil {
		logger.Error("Failed to add cron job for moderation digest", err, nil)
		return err
	}

	// Hourly: drop expired password reset tokens.
	_, err = s.cron.AddFunc("0 * * * *", func() {
		deleted, err := s.resetRepo.DeleteExpired()
		if err != nil {
			logger.Error("Failed to purge expired reset tokens", err, nil)
			return
		}
		if deleted > 0 {
			logger.Info("Purged expired password reset tokens", map[string]interface{}{
				"deleted": deleted,
			})
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for reset token purge", err, nil)
		return err
	}

	s.cron.Start()
	logger.Info("Moderation scheduler started (digest daily at 9:00 AM, token purge hourly)", nil)

	return nil
}

func (s *ModerationScheduler) Stop() {
	logger.Info("Stopping moderation scheduler...", nil)
	s.cron.Stop()
	logger.Info("Moderation scheduler stopped", nil)
}
