package feed

import (
	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
)

// FlagSummary describes the flag state of one comment: the type shown
// in the UI, how many distinct users flagged it, and who they are.
type FlagSummary struct {
	Representative model.FlagType
	Count          int

	flaggers map[uint]struct{}
}

func (s *FlagSummary) Pinned() bool {
	return s != nil && s.Representative == model.FlagPinned
}

func (s *FlagSummary) FlaggedBy(userID uint) bool {
	if s == nil {
		return false
	}
	_, ok := s.flaggers[userID]
	return ok
}

// FlagBoard aggregates the flat flag list per comment.
type FlagBoard struct {
	byComment map[string]*FlagSummary
}

// AggregateFlags folds flags into per-comment summaries. A pinned flag
// always wins the representative slot; among report flags the earliest
// one (by CreatedAt, ID as tiebreak) represents the comment, so the
// badge never churns between refreshes.
func AggregateFlags(flags []model.Flag) *FlagBoard {
	board := &FlagBoard{
		byComment: make(map[string]*FlagSummary),
	}

	earliest := make(map[string]model.Flag)

	for _, f := range flags {
		summary, ok := board.byComment[f.CommentID]
		if !ok {
			summary = &FlagSummary{flaggers: make(map[uint]struct{})}
			board.byComment[f.CommentID] = summary
		}
		summary.flaggers[f.UserID] = struct{}{}

		if f.Type == model.FlagPinned {
			summary.Representative = model.FlagPinned
			continue
		}
		if summary.Representative == model.FlagPinned {
			continue
		}
		first, seen := earliest[f.CommentID]
		if !seen || f.CreatedAt.Before(first.CreatedAt) ||
			(f.CreatedAt.Equal(first.CreatedAt) && f.ID < first.ID) {
			earliest[f.CommentID] = f
			summary.Representative = f.Type
		}
	}

	for _, summary := range board.byComment {
		summary.Count = len(summary.flaggers)
	}

	return board
}

// Summary returns the flag state for a comment, nil when unflagged.
func (b *FlagBoard) Summary(commentID string) *FlagSummary {
	return b.byComment[commentID]
}

// Flagged reports whether the comment carries any flag at all.
func (b *FlagBoard) Flagged(commentID string) bool {
	return b.byComment[commentID] != nil
}
