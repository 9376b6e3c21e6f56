package feed

import (
	"sort"
	"sync"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
)

// Node is one comment in the reply tree.
type Node struct {
	Comment model.Comment

	replies  []*Node
	sortOnce sync.Once
}

// Replies returns the node's direct replies sorted oldest first, so a
// thread reads top to bottom. Sorting happens on first access and is
// cached for the life of the node.
func (n *Node) Replies() []*Node {
	n.sortOnce.Do(func() {
		sort.SliceStable(n.replies, func(i, j int) bool {
			a, b := n.replies[i].Comment, n.replies[j].Comment
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.Before(b.CreatedAt)
		})
	})
	return n.replies
}

// Tree arranges a flat comment list into threads.
type Tree struct {
	roots []*Node
	byID  map[string]*Node
}

// BuildTree links comments to their parents in a single pass over the
// input. A comment whose parent ID points at nothing (the parent was
// deleted between fetches, or the data is simply bad) is promoted to a
// top-level comment rather than dropped.
func BuildTree(comments []model.Comment) *Tree {
	t := &Tree{
		byID: make(map[string]*Node, len(comments)),
	}

	for _, c := range comments {
		t.byID[c.ID] = &Node{Comment: c}
	}

	for _, c := range comments {
		node := t.byID[c.ID]
		if c.ParentID != nil {
			if parent, ok := t.byID[*c.ParentID]; ok && parent != node {
				parent.replies = append(parent.replies, node)
				continue
			}
		}
		t.roots = append(t.roots, node)
	}

	return t
}

// Roots returns top-level nodes in input order.
func (t *Tree) Roots() []*Node {
	return t.roots
}

// Lookup finds a node by comment ID.
func (t *Tree) Lookup(id string) (*Node, bool) {
	node, ok := t.byID[id]
	return node, ok
}

// Size reports the total number of comments in the tree.
func (t *Tree) Size() int {
	return len(t.byID)
}
