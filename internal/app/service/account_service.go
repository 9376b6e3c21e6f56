package service

import (
	"context"
	"errors"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/repository"
	"github.com/sofaspartan/sofaspartan-backend/internal/feed"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrDeletionNotConfirmed = errors.New("account deletion not confirmed")
)

// AccountDeleteConfirmation is the phrase the user must type to delete
// their account.
const AccountDeleteConfirmation = "DELETE"

type AccountService interface {
	DeleteAccount(ctx context.Context, userID uint, confirm string) error
}

type accountService struct {
	userRepo       repository.UserRepository
	moderationRepo repository.ModerationRepository
	store          feed.Store
	coordinator    *feed.Coordinator
}

func NewAccountService(
	userRepo repository.UserRepository,
	moderationRepo repository.ModerationRepository,
	store feed.Store,
	coordinator *feed.Coordinator,
) AccountService {
	return &accountService{
		userRepo:       userRepo,
		moderationRepo: moderationRepo,
		store:          store,
		coordinator:    coordinator,
	}
}

// DeleteAccount removes the user and everything they contributed:
// every comment they wrote cascades through its reply subtree, and
// their reactions and flags on other people's comments go too. The
// caller must echo AccountDeleteConfirmation exactly.
func (s *accountService) DeleteAccount(ctx context.Context, userID uint, confirm string) error {
	if confirm != AccountDeleteConfirmation {
		logger.Warn("Account deletion rejected: not confirmed", map[string]interface{}{
			"user_id": userID,
		})
		return ErrDeletionNotConfirmed
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	logger.Info("Deleting account", map[string]interface{}{
		"user_id": userID,
		"email":   user.Email,
	})

	comments, err := s.moderationRepo.ListCommentsByUser(userID)
	if err != nil {
		return err
	}
	for _, comment := range comments {
		if _, err := s.store.DeleteCommentCascade(ctx, comment.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Already gone as part of an earlier subtree.
				continue
			}
			logger.Error("Failed to delete comment during account deletion", err, map[string]interface{}{
				"user_id":    userID,
				"comment_id": comment.ID,
			})
			return err
		}
	}

	if err := s.moderationRepo.DeleteUserContent(userID); err != nil {
		logger.Error("Failed to delete user reactions and flags", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	if err := s.userRepo.Delete(userID); err != nil {
		logger.Error("Failed to delete user record", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	// Bring the in-memory feed in line with what just happened.
	if err := s.coordinator.Refresh(ctx); err != nil {
		logger.Warn("Feed refresh after account deletion failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Account deleted", map[string]interface{}{
		"user_id":          userID,
		"comments_removed": len(comments),
	})
	return nil
}
