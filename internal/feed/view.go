package feed

import (
	"sort"
	"strings"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
)

type SortMode string

const (
	SortLatest   SortMode = "latest"
	SortOldest   SortMode = "oldest"
	SortLikes    SortMode = "likes"
	SortDislikes SortMode = "dislikes"
	SortFlagged  SortMode = "flagged"
)

func (m SortMode) Valid() bool {
	switch m {
	case SortLatest, SortOldest, SortLikes, SortDislikes, SortFlagged:
		return true
	}
	return false
}

// ViewOptions selects one rendering of the feed. An empty Sort means
// SortLatest; Search is matched case-insensitively against comment
// bodies and author display names.
type ViewOptions struct {
	Sort   SortMode
	Search string
}

type viewKey struct {
	sort   SortMode
	search string
}

// View returns the ordered top-level comments for the given options:
// pinned comments first (in input order, never search-filtered), then
// the remaining top-level comments filtered by search and sorted by
// mode. Replies stay attached to their parents and are unaffected by
// either sort or search.
//
// Results are memoized per snapshot, so repeated renders of the same
// state are free.
func (s *Snapshot) View(opts ViewOptions) []*Node {
	if opts.Sort == "" {
		opts.Sort = SortLatest
	}
	key := viewKey{sort: opts.Sort, search: normalizeSearch(opts.Search)}

	s.viewMu.Lock()
	if s.views == nil {
		s.views = make(map[viewKey][]*Node)
	}
	if cached, ok := s.views[key]; ok {
		s.viewMu.Unlock()
		return cached
	}
	s.viewMu.Unlock()

	result := s.buildView(key)

	s.viewMu.Lock()
	s.views[key] = result
	s.viewMu.Unlock()

	return result
}

func (s *Snapshot) buildView(key viewKey) []*Node {
	board := s.FlagBoard()
	totals := s.ReactionTotals()

	var pinned, unpinned []*Node
	for _, node := range s.Tree().Roots() {
		if board.Summary(node.Comment.ID).Pinned() {
			pinned = append(pinned, node)
			continue
		}
		if key.search != "" && !matchesSearch(&node.Comment, key.search) {
			continue
		}
		unpinned = append(unpinned, node)
	}

	sortNodes(unpinned, key.sort, totals, board)

	return append(pinned, unpinned...)
}

func sortNodes(nodes []*Node, mode SortMode, totals *ReactionTotals, board *FlagBoard) {
	less := func(a, b *Node) bool { return false }

	switch mode {
	case SortLatest:
		less = func(a, b *Node) bool {
			return a.Comment.CreatedAt.After(b.Comment.CreatedAt)
		}
	case SortOldest:
		less = func(a, b *Node) bool {
			return a.Comment.CreatedAt.Before(b.Comment.CreatedAt)
		}
	case SortLikes:
		less = func(a, b *Node) bool {
			return totals.Counts(a.Comment.ID)[model.ReactionLike] >
				totals.Counts(b.Comment.ID)[model.ReactionLike]
		}
	case SortDislikes:
		less = func(a, b *Node) bool {
			return totals.Counts(a.Comment.ID)[model.ReactionDislike] >
				totals.Counts(b.Comment.ID)[model.ReactionDislike]
		}
	case SortFlagged:
		less = func(a, b *Node) bool {
			return flagCount(board, a) > flagCount(board, b)
		}
	}

	// Stable keeps input order for ties, so equal-scoring comments do
	// not jump around between renders.
	sort.SliceStable(nodes, func(i, j int) bool {
		return less(nodes[i], nodes[j])
	})
}

func flagCount(board *FlagBoard, n *Node) int {
	summary := board.Summary(n.Comment.ID)
	if summary == nil {
		return 0
	}
	return summary.Count
}

func normalizeSearch(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func matchesSearch(c *model.Comment, normalized string) bool {
	if strings.Contains(strings.ToLower(c.Content), normalized) {
		return true
	}
	if c.User != nil && strings.Contains(strings.ToLower(c.User.DisplayName), normalized) {
		return true
	}
	return false
}
