package repository

import (
	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
	"gorm.io/gorm"
)

// FlaggedComment pairs a comment with its flag rows for moderation
// views and exports.
type FlaggedComment struct {
	Comment model.Comment
	Flags   []model.Flag
}

type ModerationRepository interface {
	ListFlaggedComments() ([]FlaggedComment, error)
	ListCommentsByUser(userID uint) ([]model.Comment, error)
	DeleteUserContent(userID uint) error
}

type moderationRepository struct {
	db *gorm.DB
}

func NewModerationRepository(db *gorm.DB) ModerationRepository {
	return &moderationRepository{db: db}
}

// ListFlaggedComments returns every comment carrying at least one
// flag, report flags and pins alike, newest flag first.
func (r *moderationRepository) ListFlaggedComments() ([]FlaggedComment, error) {
	var flags []model.Flag
	if err := r.db.Order("created_at DESC").Find(&flags).Error; err != nil {
		logger.Error("Failed to list flags for moderation", err, nil)
		return nil, err
	}
	if len(flags) == 0 {
		return nil, nil
	}

	byComment := make(map[string][]model.Flag)
	order := make([]string, 0, len(flags))
	for _, f := range flags {
		if _, seen := byComment[f.CommentID]; !seen {
			order = append(order, f.CommentID)
		}
		byComment[f.CommentID] = append(byComment[f.CommentID], f)
	}

	var comments []model.Comment
	if err := r.db.Preload("User").Where("id IN ?", order).Find(&comments).Error; err != nil {
		logger.Error("Failed to load flagged comments", err, nil)
		return nil, err
	}
	commentByID := make(map[string]model.Comment, len(comments))
	for _, c := range comments {
		commentByID[c.ID] = c
	}

	var result []FlaggedComment
	for _, id := range order {
		comment, ok := commentByID[id]
		if !ok {
			// Flag rows pointing at a deleted comment; skip them.
			continue
		}
		result = append(result, FlaggedComment{
			Comment: comment,
			Flags:   byComment[id],
		})
	}
	return result, nil
}

func (r *moderationRepository) ListCommentsByUser(userID uint) ([]model.Comment, error) {
	var comments []model.Comment
	if err := r.db.Where("user_id = ?", userID).Find(&comments).Error; err != nil {
		logger.Error("Failed to list comments by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return comments, nil
}

// DeleteUserContent removes the user's reactions and flags. Their
// comments are handled separately because each one cascades through
// its reply subtree.
func (r *moderationRepository) DeleteUserContent(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var reactions []model.Reaction
		if err := tx.Where("user_id = ?", userID).Find(&reactions).Error; err != nil {
			return err
		}
		for _, reaction := range reactions {
			column, err := reactionCountColumn(reaction.Type)
			if err != nil {
				return err
			}
			if err := tx.Model(&model.Comment{}).Where("id = ?", reaction.CommentID).
				Update(column, gorm.Expr(column+" - 1")).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&model.Flag{}).Error
	})
}
