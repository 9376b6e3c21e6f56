package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/internal/feed"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
	"gorm.io/gorm"
)

// feedStore is the production feed.Store: the flat comment, reaction
// and flag records live in Postgres and the per-type reaction count
// columns on comments are kept in step inside the same transaction as
// the reaction rows.
type feedStore struct {
	db *gorm.DB
}

func NewFeedStore(db *gorm.DB) feed.Store {
	return &feedStore{db: db}
}

func (s *feedStore) ListComments(ctx context.Context) ([]model.Comment, error) {
	var comments []model.Comment
	err := s.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		logger.Error("Failed to list comments", err, nil)
		return nil, err
	}
	return comments, nil
}

func (s *feedStore) ListReactions(ctx context.Context) ([]model.Reaction, error) {
	var reactions []model.Reaction
	if err := s.db.WithContext(ctx).Find(&reactions).Error; err != nil {
		logger.Error("Failed to list reactions", err, nil)
		return nil, err
	}
	return reactions, nil
}

func (s *feedStore) ListReactionsForComment(ctx context.Context, commentID string) ([]model.Reaction, error) {
	var reactions []model.Reaction
	err := s.db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Find(&reactions).Error
	if err != nil {
		logger.Error("Failed to list reactions for comment", err, map[string]interface{}{
			"comment_id": commentID,
		})
		return nil, err
	}
	return reactions, nil
}

func (s *feedStore) ListFlags(ctx context.Context) ([]model.Flag, error) {
	var flags []model.Flag
	if err := s.db.WithContext(ctx).Find(&flags).Error; err != nil {
		logger.Error("Failed to list flags", err, nil)
		return nil, err
	}
	return flags, nil
}

func (s *feedStore) InsertComment(ctx context.Context, userID uint, content string, parentID *string) (*model.Comment, error) {
	comment := &model.Comment{
		ID:       uuid.NewString(),
		Content:  content,
		UserID:   &userID,
		ParentID: parentID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if parentID != nil {
			var count int64
			if err := tx.Model(&model.Comment{}).Where("id = ?", *parentID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return tx.Create(comment).Error
	})
	if err != nil {
		logger.Error("Failed to insert comment", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	// Reload with the author's display identity attached.
	if err := s.db.WithContext(ctx).Preload("User").First(comment, "id = ?", comment.ID).Error; err != nil {
		logger.Error("Failed to reload inserted comment", err, map[string]interface{}{
			"comment_id": comment.ID,
		})
		return nil, err
	}
	return comment, nil
}

func (s *feedStore) UpdateCommentContent(ctx context.Context, id, content string) (*model.Comment, error) {
	result := s.db.WithContext(ctx).Model(&model.Comment{}).
		Where("id = ?", id).
		Update("content", content)
	if result.Error != nil {
		logger.Error("Failed to update comment content", result.Error, map[string]interface{}{
			"comment_id": id,
		})
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var comment model.Comment
	if err := s.db.WithContext(ctx).Preload("User").First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *feedStore) DeleteCommentCascade(ctx context.Context, id string) ([]string, error) {
	ids, err := s.collectSubtree(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id IN ?", ids).Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id IN ?", ids).Delete(&model.Flag{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&model.Comment{}).Error
	})
	if err != nil {
		logger.Error("Failed to cascade delete comment", err, map[string]interface{}{
			"comment_id": id,
		})
		return nil, err
	}

	logger.Debug("Comment subtree deleted", map[string]interface{}{
		"comment_id": id,
		"removed":    len(ids),
	})
	return ids, nil
}

// collectSubtree walks the reply tree breadth-first from id, one query
// per level.
func (s *feedStore) collectSubtree(ctx context.Context, id string) ([]string, error) {
	var exists int64
	if err := s.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, nil
	}

	all := []string{id}
	frontier := []string{id}
	for len(frontier) > 0 {
		var children []string
		err := s.db.WithContext(ctx).Model(&model.Comment{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error
		if err != nil {
			return nil, err
		}
		all = append(all, children...)
		frontier = children
	}
	return all, nil
}

func (s *feedStore) UpsertReaction(ctx context.Context, userID uint, commentID string, reactionType model.ReactionType) (*model.Reaction, error) {
	var reaction model.Reaction

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Reaction
		err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&existing).Error

		switch {
		case err == nil:
			if existing.Type == reactionType {
				reaction = existing
				return nil
			}
			oldColumn, cErr := reactionCountColumn(existing.Type)
			if cErr != nil {
				return cErr
			}
			newColumn, cErr := reactionCountColumn(reactionType)
			if cErr != nil {
				return cErr
			}
			if err := tx.Model(&existing).Update("type", reactionType).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Comment{}).Where("id = ?", commentID).
				Update(oldColumn, gorm.Expr(oldColumn+" - 1")).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Comment{}).Where("id = ?", commentID).
				Update(newColumn, gorm.Expr(newColumn+" + 1")).Error; err != nil {
				return err
			}
			reaction = existing
			reaction.Type = reactionType
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			column, cErr := reactionCountColumn(reactionType)
			if cErr != nil {
				return cErr
			}
			reaction = model.Reaction{
				ID:        uuid.NewString(),
				UserID:    userID,
				CommentID: commentID,
				Type:      reactionType,
			}
			if err := tx.Create(&reaction).Error; err != nil {
				return err
			}
			return tx.Model(&model.Comment{}).Where("id = ?", commentID).
				Update(column, gorm.Expr(column+" + 1")).Error

		default:
			return err
		}
	})
	if err != nil {
		logger.Error("Failed to upsert reaction", err, map[string]interface{}{
			"user_id":    userID,
			"comment_id": commentID,
			"type":       reactionType,
		})
		return nil, err
	}
	return &reaction, nil
}

func (s *feedStore) DeleteReaction(ctx context.Context, userID uint, commentID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Reaction
		if err := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).First(&existing).Error; err != nil {
			return err
		}
		column, cErr := reactionCountColumn(existing.Type)
		if cErr != nil {
			return cErr
		}
		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		return tx.Model(&model.Comment{}).Where("id = ?", commentID).
			Update(column, gorm.Expr(column+" - 1")).Error
	})
	if err != nil {
		logger.Error("Failed to delete reaction", err, map[string]interface{}{
			"user_id":    userID,
			"comment_id": commentID,
		})
		return err
	}
	return nil
}

func (s *feedStore) InsertFlag(ctx context.Context, userID uint, commentID string, flagType model.FlagType) (*model.Flag, error) {
	flag := &model.Flag{
		ID:        uuid.NewString(),
		UserID:    userID,
		CommentID: commentID,
		Type:      flagType,
	}
	if err := s.db.WithContext(ctx).Create(flag).Error; err != nil {
		logger.Error("Failed to insert flag", err, map[string]interface{}{
			"user_id":    userID,
			"comment_id": commentID,
			"type":       flagType,
		})
		return nil, err
	}
	return flag, nil
}

func (s *feedStore) DeleteFlag(ctx context.Context, userID uint, commentID string) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&model.Flag{})
	if result.Error != nil {
		logger.Error("Failed to delete flag", result.Error, map[string]interface{}{
			"user_id":    userID,
			"comment_id": commentID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *feedStore) DeleteFlagsByType(ctx context.Context, commentID string, flagType model.FlagType) error {
	err := s.db.WithContext(ctx).
		Where("comment_id = ? AND type = ?", commentID, flagType).
		Delete(&model.Flag{}).Error
	if err != nil {
		logger.Error("Failed to delete flags by type", err, map[string]interface{}{
			"comment_id": commentID,
			"type":       flagType,
		})
	}
	return err
}

func (s *feedStore) DeleteFlagsForComment(ctx context.Context, commentID string) error {
	err := s.db.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Delete(&model.Flag{}).Error
	if err != nil {
		logger.Error("Failed to delete flags for comment", err, map[string]interface{}{
			"comment_id": commentID,
		})
	}
	return err
}

func reactionCountColumn(t model.ReactionType) (string, error) {
	switch t {
	case model.ReactionLike:
		return "like_count", nil
	case model.ReactionDislike:
		return "dislike_count", nil
	case model.ReactionLove:
		return "love_count", nil
	case model.ReactionLaugh:
		return "laugh_count", nil
	case model.ReactionSurprise:
		return "surprise_count", nil
	case model.ReactionSad:
		return "sad_count", nil
	case model.ReactionMad:
		return "mad_count", nil
	}
	return "", fmt.Errorf("unknown reaction type: %s", t)
}
