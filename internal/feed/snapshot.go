package feed

import (
	"sync"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
)

// Snapshot is an immutable view of the feed's flat records. Mutations
// never edit a snapshot in place: the coordinator builds a successor
// and swaps the pointer, so readers always see a consistent state.
// Derivations (tree, aggregates, views) are computed on first use and
// cached for the snapshot's lifetime.
type Snapshot struct {
	Version   uint64
	Comments  []model.Comment
	Reactions []model.Reaction
	Flags     []model.Flag

	treeOnce sync.Once
	tree     *Tree

	reactionsOnce sync.Once
	reactionAgg   *ReactionTotals

	flagsOnce sync.Once
	flagBoard *FlagBoard

	viewMu sync.Mutex
	views  map[viewKey][]*Node
}

func newSnapshot(version uint64, comments []model.Comment, reactions []model.Reaction, flags []model.Flag) *Snapshot {
	return &Snapshot{
		Version:   version,
		Comments:  comments,
		Reactions: reactions,
		Flags:     flags,
	}
}

func (s *Snapshot) Tree() *Tree {
	s.treeOnce.Do(func() {
		s.tree = BuildTree(s.Comments)
	})
	return s.tree
}

func (s *Snapshot) ReactionTotals() *ReactionTotals {
	s.reactionsOnce.Do(func() {
		s.reactionAgg = AggregateReactions(s.Reactions)
	})
	return s.reactionAgg
}

func (s *Snapshot) FlagBoard() *FlagBoard {
	s.flagsOnce.Do(func() {
		s.flagBoard = AggregateFlags(s.Flags)
	})
	return s.flagBoard
}

// Comment finds a comment by ID in the flat list.
func (s *Snapshot) Comment(id string) (*model.Comment, bool) {
	node, ok := s.Tree().Lookup(id)
	if !ok {
		return nil, false
	}
	return &node.Comment, true
}

// OwnReaction reports the user's reaction to a comment, if any.
func (s *Snapshot) OwnReaction(userID uint, commentID string) (model.ReactionType, bool) {
	t, ok := s.ReactionTotals().Own(userID)[commentID]
	return t, ok
}

// FlaggedBy reports whether the user has any flag on the comment.
func (s *Snapshot) FlaggedBy(userID uint, commentID string) bool {
	return s.FlagBoard().Summary(commentID).FlaggedBy(userID)
}
