package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
)

// fakeStore is an in-memory Store for coordinator tests. Set failNext
// to make the next calls to the named methods fail.
type fakeStore struct {
	mu        sync.Mutex
	comments  []model.Comment
	reactions []model.Reaction
	flags     []model.Flag

	failNext map[string]error
	calls    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		failNext: make(map[string]error),
	}
}

func (s *fakeStore) failOn(method string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[method] = fmt.Errorf("store: %s failed", method)
}

func (s *fakeStore) check(method string) error {
	s.calls = append(s.calls, method)
	if err, ok := s.failNext[method]; ok {
		delete(s.failNext, method)
		return err
	}
	return nil
}

func (s *fakeStore) addComment(id string, userID *uint, content string, parentID *string, createdAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments = append(s.comments, model.Comment{
		ID:        id,
		UserID:    userID,
		Content:   content,
		ParentID:  parentID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	})
}

func (s *fakeStore) ListComments(ctx context.Context) ([]model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("ListComments"); err != nil {
		return nil, err
	}
	return append([]model.Comment(nil), s.comments...), nil
}

func (s *fakeStore) ListReactions(ctx context.Context) ([]model.Reaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("ListReactions"); err != nil {
		return nil, err
	}
	return append([]model.Reaction(nil), s.reactions...), nil
}

func (s *fakeStore) ListReactionsForComment(ctx context.Context, commentID string) ([]model.Reaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("ListReactionsForComment"); err != nil {
		return nil, err
	}
	var rows []model.Reaction
	for _, r := range s.reactions {
		if r.CommentID == commentID {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

func (s *fakeStore) ListFlags(ctx context.Context) ([]model.Flag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("ListFlags"); err != nil {
		return nil, err
	}
	return append([]model.Flag(nil), s.flags...), nil
}

func (s *fakeStore) InsertComment(ctx context.Context, userID uint, content string, parentID *string) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("InsertComment"); err != nil {
		return nil, err
	}
	row := model.Comment{
		ID:        uuid.NewString(),
		UserID:    &userID,
		Content:   content,
		ParentID:  parentID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.comments = append(s.comments, row)
	return &row, nil
}

func (s *fakeStore) UpdateCommentContent(ctx context.Context, id, content string) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("UpdateCommentContent"); err != nil {
		return nil, err
	}
	for i := range s.comments {
		if s.comments[i].ID == id {
			s.comments[i].Content = content
			s.comments[i].UpdatedAt = time.Now()
			row := s.comments[i]
			return &row, nil
		}
	}
	return nil, fmt.Errorf("store: comment %s not found", id)
}

func (s *fakeStore) DeleteCommentCascade(ctx context.Context, id string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("DeleteCommentCascade"); err != nil {
		return nil, err
	}

	children := make(map[string][]string)
	for _, c := range s.comments {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	gone := map[string]struct{}{}
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		gone[cur] = struct{}{}
		stack = append(stack, children[cur]...)
	}

	var kept []model.Comment
	var removed []string
	for _, c := range s.comments {
		if _, ok := gone[c.ID]; ok {
			removed = append(removed, c.ID)
		} else {
			kept = append(kept, c)
		}
	}
	s.comments = kept

	var keptReactions []model.Reaction
	for _, r := range s.reactions {
		if _, ok := gone[r.CommentID]; !ok {
			keptReactions = append(keptReactions, r)
		}
	}
	s.reactions = keptReactions

	var keptFlags []model.Flag
	for _, f := range s.flags {
		if _, ok := gone[f.CommentID]; !ok {
			keptFlags = append(keptFlags, f)
		}
	}
	s.flags = keptFlags

	return removed, nil
}

func (s *fakeStore) UpsertReaction(ctx context.Context, userID uint, commentID string, reactionType model.ReactionType) (*model.Reaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("UpsertReaction"); err != nil {
		return nil, err
	}
	for i := range s.reactions {
		if s.reactions[i].UserID == userID && s.reactions[i].CommentID == commentID {
			s.reactions[i].Type = reactionType
			row := s.reactions[i]
			return &row, nil
		}
	}
	row := model.Reaction{
		ID:        uuid.NewString(),
		CommentID: commentID,
		UserID:    userID,
		Type:      reactionType,
		CreatedAt: time.Now(),
	}
	s.reactions = append(s.reactions, row)
	return &row, nil
}

func (s *fakeStore) DeleteReaction(ctx context.Context, userID uint, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("DeleteReaction"); err != nil {
		return err
	}
	var kept []model.Reaction
	for _, r := range s.reactions {
		if r.UserID == userID && r.CommentID == commentID {
			continue
		}
		kept = append(kept, r)
	}
	s.reactions = kept
	return nil
}

func (s *fakeStore) InsertFlag(ctx context.Context, userID uint, commentID string, flagType model.FlagType) (*model.Flag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("InsertFlag"); err != nil {
		return nil, err
	}
	// Same unique (user, comment) index the real table carries.
	for _, f := range s.flags {
		if f.UserID == userID && f.CommentID == commentID {
			return nil, fmt.Errorf("store: duplicate flag for user %d on comment %s", userID, commentID)
		}
	}
	row := model.Flag{
		ID:        uuid.NewString(),
		CommentID: commentID,
		UserID:    userID,
		Type:      flagType,
		CreatedAt: time.Now(),
	}
	s.flags = append(s.flags, row)
	return &row, nil
}

func (s *fakeStore) DeleteFlag(ctx context.Context, userID uint, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("DeleteFlag"); err != nil {
		return err
	}
	var kept []model.Flag
	for _, f := range s.flags {
		if f.UserID == userID && f.CommentID == commentID {
			continue
		}
		kept = append(kept, f)
	}
	s.flags = kept
	return nil
}

func (s *fakeStore) DeleteFlagsByType(ctx context.Context, commentID string, flagType model.FlagType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("DeleteFlagsByType"); err != nil {
		return err
	}
	var kept []model.Flag
	for _, f := range s.flags {
		if f.CommentID == commentID && f.Type == flagType {
			continue
		}
		kept = append(kept, f)
	}
	s.flags = kept
	return nil
}

func (s *fakeStore) DeleteFlagsForComment(ctx context.Context, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("DeleteFlagsForComment"); err != nil {
		return err
	}
	var kept []model.Flag
	for _, f := range s.flags {
		if f.CommentID != commentID {
			kept = append(kept, f)
		}
	}
	s.flags = kept
	return nil
}
