package service

import (
	"context"
	"time"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/internal/feed"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
)

// AuthorView is the display identity rendered next to a comment.
type AuthorView struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// FlagStateView is a comment's aggregate flag state.
type FlagStateView struct {
	Type        string `json:"type"`
	Count       int    `json:"count"`
	FlaggedByMe bool   `json:"flagged_by_me,omitempty"`
}

// CommentView is one rendered comment with its reply subtree.
type CommentView struct {
	ID          string         `json:"id"`
	Content     string         `json:"content"`
	Author      *AuthorView    `json:"author,omitempty"`
	ParentID    *string        `json:"parent_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Reactions   map[string]int `json:"reactions"`
	OwnReaction string         `json:"own_reaction,omitempty"`
	Flag        *FlagStateView `json:"flag,omitempty"`
	Pinned      bool           `json:"pinned"`
	Replies     []CommentView  `json:"replies"`
}

// FeedView is the full rendered comment section.
type FeedView struct {
	Comments []CommentView `json:"comments"`
	Total    int           `json:"total"`
	Sort     string        `json:"sort"`
	Search   string        `json:"search,omitempty"`
	Version  uint64        `json:"version"`
}

// CommentService is the comment section: every mutation goes through
// the feed coordinator and every read renders its current snapshot.
type CommentService interface {
	Feed(ctx context.Context, viewer *feed.Principal, sort, search string) (*FeedView, error)
	Post(ctx context.Context, p *feed.Principal, content string, parentID *string) (*CommentView, error)
	Edit(ctx context.Context, p *feed.Principal, id, content string) error
	Delete(ctx context.Context, p *feed.Principal, id, confirm string) error
	React(ctx context.Context, p *feed.Principal, id string, reactionType model.ReactionType) error
	ToggleFlag(ctx context.Context, p *feed.Principal, id string, flagType model.FlagType) error
	Pin(ctx context.Context, p *feed.Principal, id string) error
	Unpin(ctx context.Context, p *feed.Principal, id string) error
	ClearFlags(ctx context.Context, p *feed.Principal, id string) error
}

type commentService struct {
	coordinator *feed.Coordinator
	notifier    NotificationService
}

func NewCommentService(coordinator *feed.Coordinator, notifier NotificationService) CommentService {
	return &commentService{
		coordinator: coordinator,
		notifier:    notifier,
	}
}

func (s *commentService) Feed(ctx context.Context, viewer *feed.Principal, sort, search string) (*FeedView, error) {
	snap := s.coordinator.Snapshot()
	if snap.Version == 0 {
		// First read before the background refresher has run.
		if err := s.coordinator.Refresh(ctx); err != nil {
			return nil, err
		}
		snap = s.coordinator.Snapshot()
	}

	mode := feed.SortMode(sort)
	if sort == "" {
		mode = feed.SortLatest
	}

	roots := snap.View(feed.ViewOptions{Sort: mode, Search: search})

	comments := make([]CommentView, 0, len(roots))
	for _, node := range roots {
		comments = append(comments, s.renderNode(snap, node, viewer))
	}

	return &FeedView{
		Comments: comments,
		Total:    snap.Tree().Size(),
		Sort:     string(mode),
		Search:   search,
		Version:  snap.Version,
	}, nil
}

func (s *commentService) renderNode(snap *feed.Snapshot, node *feed.Node, viewer *feed.Principal) CommentView {
	c := node.Comment

	view := CommentView{
		ID:        c.ID,
		Content:   c.Content,
		ParentID:  c.ParentID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Reactions: make(map[string]int, len(model.ReactionTypes)),
		Replies:   []CommentView{},
	}

	if c.User != nil {
		view.Author = &AuthorView{
			ID:          c.User.ID,
			DisplayName: c.User.DisplayName,
			AvatarURL:   c.User.AvatarURL,
		}
	}

	counts := snap.ReactionTotals().Counts(c.ID)
	for _, t := range model.ReactionTypes {
		view.Reactions[string(t)] = counts[t]
	}

	if viewer != nil {
		if own, ok := snap.OwnReaction(viewer.ID, c.ID); ok {
			view.OwnReaction = string(own)
		}
	}

	if summary := snap.FlagBoard().Summary(c.ID); summary != nil {
		view.Pinned = summary.Pinned()
		state := &FlagStateView{
			Type:  string(summary.Representative),
			Count: summary.Count,
		}
		if viewer != nil {
			state.FlaggedByMe = summary.FlaggedBy(viewer.ID)
		}
		view.Flag = state
	}

	for _, reply := range node.Replies() {
		view.Replies = append(view.Replies, s.renderNode(snap, reply, viewer))
	}
	return view
}

func (s *commentService) Post(ctx context.Context, p *feed.Principal, content string, parentID *string) (*CommentView, error) {
	comment, err := s.coordinator.Post(ctx, p, content, parentID)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyNewComment(p.DisplayName, comment.Content, parentID != nil, comment.CreatedAt)

	snap := s.coordinator.Snapshot()
	node, ok := snap.Tree().Lookup(comment.ID)
	if !ok {
		// The snapshot should contain what we just posted; render a
		// bare view if a concurrent refresh raced us.
		logger.Warn("Posted comment missing from snapshot", map[string]interface{}{
			"comment_id": comment.ID,
		})
		node = &feed.Node{Comment: *comment}
	}
	view := s.renderNode(snap, node, p)
	return &view, nil
}

func (s *commentService) Edit(ctx context.Context, p *feed.Principal, id, content string) error {
	return s.coordinator.Edit(ctx, p, id, content)
}

func (s *commentService) Delete(ctx context.Context, p *feed.Principal, id, confirm string) error {
	return s.coordinator.Delete(ctx, p, id, confirm)
}

func (s *commentService) React(ctx context.Context, p *feed.Principal, id string, reactionType model.ReactionType) error {
	return s.coordinator.React(ctx, p, id, reactionType)
}

func (s *commentService) ToggleFlag(ctx context.Context, p *feed.Principal, id string, flagType model.FlagType) error {
	return s.coordinator.ToggleFlag(ctx, p, id, flagType)
}

func (s *commentService) Pin(ctx context.Context, p *feed.Principal, id string) error {
	return s.coordinator.Pin(ctx, p, id)
}

func (s *commentService) Unpin(ctx context.Context, p *feed.Principal, id string) error {
	return s.coordinator.Unpin(ctx, p, id)
}

func (s *commentService) ClearFlags(ctx context.Context, p *feed.Principal, id string) error {
	return s.coordinator.RemoveAllFlags(ctx, p, id)
}
