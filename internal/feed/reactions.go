package feed

import (
	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
)

// ReactionCounts tallies reactions per type for one comment. Absent
// types count zero.
type ReactionCounts map[model.ReactionType]int

func (c ReactionCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// ReactionTotals aggregates the flat reaction list. It trusts the
// store's unique (user, comment) constraint and does not dedupe.
type ReactionTotals struct {
	byComment map[string]ReactionCounts
	byUser    map[uint]map[string]model.ReactionType
}

func AggregateReactions(reactions []model.Reaction) *ReactionTotals {
	t := &ReactionTotals{
		byComment: make(map[string]ReactionCounts),
		byUser:    make(map[uint]map[string]model.ReactionType),
	}

	for _, r := range reactions {
		counts, ok := t.byComment[r.CommentID]
		if !ok {
			counts = make(ReactionCounts)
			t.byComment[r.CommentID] = counts
		}
		counts[r.Type]++

		own, ok := t.byUser[r.UserID]
		if !ok {
			own = make(map[string]model.ReactionType)
			t.byUser[r.UserID] = own
		}
		own[r.CommentID] = r.Type
	}

	return t
}

// Counts returns the per-type tally for a comment. A comment with no
// reactions yields an empty (never nil) map.
func (t *ReactionTotals) Counts(commentID string) ReactionCounts {
	if counts, ok := t.byComment[commentID]; ok {
		return counts
	}
	return ReactionCounts{}
}

// Own returns commentID -> reaction type for one user, used to render
// which buttons are lit for the signed-in viewer.
func (t *ReactionTotals) Own(userID uint) map[string]model.ReactionType {
	if own, ok := t.byUser[userID]; ok {
		return own
	}
	return map[string]model.ReactionType{}
}
