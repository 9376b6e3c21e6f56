package feed

import (
	"context"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
)

// Store is the remote record store the coordinator reconciles against.
// The production implementation sits on the GORM repositories; tests
// use an in-memory fake.
//
// Write methods return the stored rows so the coordinator never has to
// invent IDs or timestamps: those are always server-assigned.
type Store interface {
	ListComments(ctx context.Context) ([]model.Comment, error)
	ListReactions(ctx context.Context) ([]model.Reaction, error)
	ListReactionsForComment(ctx context.Context, commentID string) ([]model.Reaction, error)
	ListFlags(ctx context.Context) ([]model.Flag, error)

	InsertComment(ctx context.Context, userID uint, content string, parentID *string) (*model.Comment, error)
	UpdateCommentContent(ctx context.Context, id, content string) (*model.Comment, error)
	// DeleteCommentCascade removes the comment and every descendant,
	// along with their reactions and flags, and reports the removed
	// comment IDs.
	DeleteCommentCascade(ctx context.Context, id string) ([]string, error)

	UpsertReaction(ctx context.Context, userID uint, commentID string, reactionType model.ReactionType) (*model.Reaction, error)
	DeleteReaction(ctx context.Context, userID uint, commentID string) error

	InsertFlag(ctx context.Context, userID uint, commentID string, flagType model.FlagType) (*model.Flag, error)
	DeleteFlag(ctx context.Context, userID uint, commentID string) error
	DeleteFlagsByType(ctx context.Context, commentID string, flagType model.FlagType) error
	DeleteFlagsForComment(ctx context.Context, commentID string) error
}
