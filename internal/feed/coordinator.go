package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
)

// DeleteConfirmation is the phrase a caller must echo back before a
// comment delete cascades.
const DeleteConfirmation = "DELETE"

// Coordinator owns the feed's in-memory state and pushes every
// mutation through the same lifecycle: validate locally, apply an
// optimistic patch, call the store, then confirm or roll back. Reads
// are pure derivations over the current snapshot.
//
// Calls are safe from multiple goroutines. A per-action key blocks
// duplicate submission of the same action while it is in flight;
// different actions interleave freely. Keys for per-user actions
// (edit, react, flag) include the principal, so two users acting on
// the same comment never block each other.
type Coordinator struct {
	store Store

	mu       sync.Mutex
	snap     *Snapshot
	inflight map[string]struct{}
}

func NewCoordinator(store Store) *Coordinator {
	return &Coordinator{
		store:    store,
		snap:     newSnapshot(0, nil, nil, nil),
		inflight: make(map[string]struct{}),
	}
}

// Snapshot returns the current immutable state.
func (c *Coordinator) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Refresh replaces the whole snapshot with the store's current
// records. It is the only full re-sync path; everything else patches
// incrementally.
func (c *Coordinator) Refresh(ctx context.Context) error {
	comments, err := c.store.ListComments(ctx)
	if err != nil {
		logger.Error("Feed refresh failed: comments", err, nil)
		return remoteErr("refresh", err)
	}
	reactions, err := c.store.ListReactions(ctx)
	if err != nil {
		logger.Error("Feed refresh failed: reactions", err, nil)
		return remoteErr("refresh", err)
	}
	flags, err := c.store.ListFlags(ctx)
	if err != nil {
		logger.Error("Feed refresh failed: flags", err, nil)
		return remoteErr("refresh", err)
	}

	c.mu.Lock()
	c.snap = newSnapshot(c.snap.Version+1, comments, reactions, flags)
	version := c.snap.Version
	c.mu.Unlock()

	logger.Debug("Feed refreshed", map[string]interface{}{
		"version":   version,
		"comments":  len(comments),
		"reactions": len(reactions),
		"flags":     len(flags),
	})
	return nil
}

// Post creates a top-level comment (nil parentID) or a reply. Nothing
// is applied locally until the store returns the created row, since
// the ID and timestamps are server-assigned. The new comment is
// prepended so it renders first under the default sort.
func (c *Coordinator) Post(ctx context.Context, p *Principal, content string, parentID *string) (*model.Comment, error) {
	if p == nil {
		return nil, ErrAuthenticationRequired
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment body is empty", ErrValidationFailed)
	}
	if parentID != nil {
		if _, ok := c.Snapshot().Comment(*parentID); !ok {
			return nil, ErrCommentNotFound
		}
	}

	key := fmt.Sprintf("post:%d", p.ID)
	if err := c.begin(key); err != nil {
		return nil, err
	}
	defer c.end(key)

	row, err := c.store.InsertComment(ctx, p.ID, content, parentID)
	if err != nil {
		logger.Error("Comment post failed", err, map[string]interface{}{
			"user_id": p.ID,
		})
		return nil, remoteErr("post", err)
	}

	c.commit(func(d *draft) {
		d.comments = append([]model.Comment{*row}, d.comments...)
	})

	logger.Info("Comment posted", map[string]interface{}{
		"comment_id": row.ID,
		"user_id":    p.ID,
		"is_reply":   parentID != nil,
	})
	return row, nil
}

// Edit replaces a comment's body. Only the author or an admin may
// edit. The patch is applied optimistically and reverted if the store
// rejects it.
func (c *Coordinator) Edit(ctx context.Context, p *Principal, id, content string) error {
	if p == nil {
		return ErrAuthenticationRequired
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("%w: comment body is empty", ErrValidationFailed)
	}

	snap := c.Snapshot()
	current, ok := snap.Comment(id)
	if !ok {
		return ErrCommentNotFound
	}
	if !c.mayModify(p, current) {
		return ErrPermissionDenied
	}

	key := fmt.Sprintf("edit:%d:%s", p.ID, id)
	if err := c.begin(key); err != nil {
		return err
	}
	defer c.end(key)

	prevContent := current.Content
	prevUpdated := current.UpdatedAt

	c.commit(func(d *draft) {
		d.patchComment(id, func(cm *model.Comment) {
			cm.Content = content
			cm.UpdatedAt = time.Now()
		})
	})

	row, err := c.store.UpdateCommentContent(ctx, id, content)
	if err != nil {
		c.commit(func(d *draft) {
			d.patchComment(id, func(cm *model.Comment) {
				cm.Content = prevContent
				cm.UpdatedAt = prevUpdated
			})
		})
		logger.Error("Comment edit failed, rolled back", err, map[string]interface{}{
			"comment_id": id,
			"user_id":    p.ID,
		})
		return remoteErr("edit", err)
	}

	c.commit(func(d *draft) {
		d.patchComment(id, func(cm *model.Comment) {
			cm.Content = row.Content
			cm.UpdatedAt = row.UpdatedAt
		})
	})

	logger.Info("Comment edited", map[string]interface{}{
		"comment_id": id,
		"user_id":    p.ID,
	})
	return nil
}

// Delete removes a comment and its whole reply subtree. The caller
// must pass DeleteConfirmation exactly; anything else fails validation
// before the store is touched. The store performs the cascade and
// reports which IDs went away; those are pruned locally together with
// any descendants the local tree knows about.
func (c *Coordinator) Delete(ctx context.Context, p *Principal, id, confirm string) error {
	if p == nil {
		return ErrAuthenticationRequired
	}
	if confirm != DeleteConfirmation {
		return fmt.Errorf("%w: delete not confirmed", ErrValidationFailed)
	}

	snap := c.Snapshot()
	current, ok := snap.Comment(id)
	if !ok {
		return ErrCommentNotFound
	}
	if !c.mayModify(p, current) {
		return ErrPermissionDenied
	}

	// Delete cascades through comment-global state, so the key stays
	// comment scoped: while one delete is in flight nobody else gets
	// to race a second one on the same subtree.
	key := "delete:" + id
	if err := c.begin(key); err != nil {
		return err
	}
	defer c.end(key)

	removed, err := c.store.DeleteCommentCascade(ctx, id)
	if err != nil {
		logger.Error("Comment delete failed", err, map[string]interface{}{
			"comment_id": id,
			"user_id":    p.ID,
		})
		return remoteErr("delete", err)
	}

	gone := make(map[string]struct{}, len(removed)+1)
	for _, rid := range removed {
		gone[rid] = struct{}{}
	}
	for _, did := range c.Snapshot().descendants(id) {
		gone[did] = struct{}{}
	}

	c.commit(func(d *draft) {
		d.removeComments(gone)
	})

	logger.Info("Comment deleted", map[string]interface{}{
		"comment_id": id,
		"user_id":    p.ID,
		"removed":    len(gone),
	})
	return nil
}

// React toggles the principal's reaction on a comment: same type off,
// different type switched, none set. The count change is applied
// optimistically, then the comment's reaction rows are refetched so
// the final state is authoritative whether the call succeeded or not.
func (c *Coordinator) React(ctx context.Context, p *Principal, id string, reactionType model.ReactionType) error {
	if p == nil {
		return ErrAuthenticationRequired
	}
	if !reactionType.Valid() {
		return fmt.Errorf("%w: unknown reaction type %q", ErrValidationFailed, reactionType)
	}

	snap := c.Snapshot()
	if _, ok := snap.Comment(id); !ok {
		return ErrCommentNotFound
	}

	key := fmt.Sprintf("react:%d:%s", p.ID, id)
	if err := c.begin(key); err != nil {
		return err
	}
	defer c.end(key)

	previous := snap.reactionsForComment(id)
	existing, had := snap.OwnReaction(p.ID, id)
	removing := had && existing == reactionType

	c.commit(func(d *draft) {
		d.removeOwnReaction(p.ID, id)
		if !removing {
			d.reactions = append(d.reactions, model.Reaction{
				ID:        "pending-" + uuid.NewString(),
				CommentID: id,
				UserID:    p.ID,
				Type:      reactionType,
				CreatedAt: time.Now(),
			})
		}
	})

	var opErr error
	if removing {
		opErr = c.store.DeleteReaction(ctx, p.ID, id)
	} else {
		_, opErr = c.store.UpsertReaction(ctx, p.ID, id, reactionType)
	}

	rows, fetchErr := c.store.ListReactionsForComment(ctx, id)
	if fetchErr == nil {
		c.commit(func(d *draft) {
			d.replaceCommentReactions(id, rows)
		})
	} else if opErr != nil {
		// Both the write and the authoritative refetch failed: put the
		// captured rows back so the optimistic patch does not stick.
		c.commit(func(d *draft) {
			d.replaceCommentReactions(id, previous)
		})
	} else {
		logger.Warn("Reaction confirmed but refetch failed, keeping optimistic counts", map[string]interface{}{
			"comment_id": id,
			"error":      fetchErr.Error(),
		})
	}

	if opErr != nil {
		logger.Error("Reaction toggle failed, rolled back", opErr, map[string]interface{}{
			"comment_id": id,
			"user_id":    p.ID,
			"type":       reactionType,
		})
		return remoteErr("react", opErr)
	}

	logger.Info("Reaction toggled", map[string]interface{}{
		"comment_id": id,
		"user_id":    p.ID,
		"type":       reactionType,
		"removed":    removing,
	})
	return nil
}

// ToggleFlag flags or unflags a comment for the principal. The toggle
// keys on membership: if the user has any flag on the comment it is
// removed, whatever type it was stored under; otherwise a flag of the
// given report type is added. Pinning is not reachable from here.
func (c *Coordinator) ToggleFlag(ctx context.Context, p *Principal, id string, flagType model.FlagType) error {
	if p == nil {
		return ErrAuthenticationRequired
	}
	if flagType != model.FlagInappropriate && flagType != model.FlagSpam {
		return fmt.Errorf("%w: unknown flag type %q", ErrValidationFailed, flagType)
	}

	snap := c.Snapshot()
	if _, ok := snap.Comment(id); !ok {
		return ErrCommentNotFound
	}

	key := fmt.Sprintf("flag:%d:%s", p.ID, id)
	if err := c.begin(key); err != nil {
		return err
	}
	defer c.end(key)

	if snap.FlaggedBy(p.ID, id) {
		removed := snap.ownFlags(p.ID, id)
		c.commit(func(d *draft) {
			d.removeOwnFlags(p.ID, id)
		})

		if err := c.store.DeleteFlag(ctx, p.ID, id); err != nil {
			c.commit(func(d *draft) {
				d.flags = append(d.flags, removed...)
			})
			logger.Error("Unflag failed, rolled back", err, map[string]interface{}{
				"comment_id": id,
				"user_id":    p.ID,
			})
			return remoteErr("unflag", err)
		}

		logger.Info("Comment unflagged", map[string]interface{}{
			"comment_id": id,
			"user_id":    p.ID,
		})
		return nil
	}

	tempID := "pending-" + uuid.NewString()
	c.commit(func(d *draft) {
		d.flags = append(d.flags, model.Flag{
			ID:        tempID,
			CommentID: id,
			UserID:    p.ID,
			Type:      flagType,
			CreatedAt: time.Now(),
		})
	})

	row, err := c.store.InsertFlag(ctx, p.ID, id, flagType)
	if err != nil {
		c.commit(func(d *draft) {
			d.removeFlagByID(tempID)
		})
		logger.Error("Flag failed, rolled back", err, map[string]interface{}{
			"comment_id": id,
			"user_id":    p.ID,
			"type":       flagType,
		})
		return remoteErr("flag", err)
	}

	c.commit(func(d *draft) {
		d.removeFlagByID(tempID)
		d.flags = append(d.flags, *row)
	})

	logger.Info("Comment flagged", map[string]interface{}{
		"comment_id": id,
		"user_id":    p.ID,
		"type":       flagType,
	})
	return nil
}

// Pin marks a comment as pinned. Admin only. Pinning an already
// pinned comment is a no-op.
func (c *Coordinator) Pin(ctx context.Context, p *Principal, id string) error {
	if p == nil {
		return ErrAuthenticationRequired
	}
	if !p.IsAdmin() {
		return ErrPermissionDenied
	}

	snap := c.Snapshot()
	if _, ok := snap.Comment(id); !ok {
		return ErrCommentNotFound
	}
	if snap.FlagBoard().Summary(id).Pinned() {
		return nil
	}

	// Pinned is a single comment-level marker, so pin and unpin share
	// a comment-scoped key.
	key := "pin:" + id
	if err := c.begin(key); err != nil {
		return err
	}
	defer c.end(key)

	// An admin who already report-flagged the comment holds its unique
	// (user, comment) slot; convert that row instead of colliding with
	// the index on insert.
	if snap.FlaggedBy(p.ID, id) {
		if err := c.store.DeleteFlag(ctx, p.ID, id); err != nil {
			logger.Error("Pin failed: existing flag not converted", err, map[string]interface{}{
				"comment_id": id,
				"admin_id":   p.ID,
			})
			return remoteErr("pin", err)
		}
		c.commit(func(d *draft) {
			d.removeOwnFlags(p.ID, id)
		})
	}

	row, err := c.store.InsertFlag(ctx, p.ID, id, model.FlagPinned)
	if err != nil {
		logger.Error("Pin failed", err, map[string]interface{}{
			"comment_id": id,
			"admin_id":   p.ID,
		})
		return remoteErr("pin", err)
	}

	c.commit(func(d *draft) {
		d.flags = append(d.flags, *row)
	})

	logger.Info("Comment pinned", map[string]interface{}{
		"comment_id": id,
		"admin_id":   p.ID,
	})
	return nil
}

// Unpin removes the pinned marker. Admin only. The store deletes only
// pinned rows; locally the comment's whole flag entry is dropped, and
// any report flags reappear on the next refresh.
func (c *Coordinator) Unpin(ctx context.Context, p *Principal, id string) error {
	if p == nil {
		return ErrAuthenticationRequired
	}
	if !p.IsAdmin() {
		return ErrPermissionDenied
	}

	snap := c.Snapshot()
	if _, ok := snap.Comment(id); !ok {
		return ErrCommentNotFound
	}
	if !snap.FlagBoard().Summary(id).Pinned() {
		return nil
	}

	key := "pin:" + id
	if err := c.begin(key); err != nil {
		return err
	}
	defer c.end(key)

	if err := c.store.DeleteFlagsByType(ctx, id, model.FlagPinned); err != nil {
		logger.Error("Unpin failed", err, map[string]interface{}{
			"comment_id": id,
			"admin_id":   p.ID,
		})
		return remoteErr("unpin", err)
	}

	c.commit(func(d *draft) {
		d.removeFlagsForComment(id)
	})

	logger.Info("Comment unpinned", map[string]interface{}{
		"comment_id": id,
		"admin_id":   p.ID,
	})
	return nil
}

// RemoveAllFlags clears every flag from a reported comment. Admin
// only, and only meaningful on a comment that is flagged and not
// pinned.
func (c *Coordinator) RemoveAllFlags(ctx context.Context, p *Principal, id string) error {
	if p == nil {
		return ErrAuthenticationRequired
	}
	if !p.IsAdmin() {
		return ErrPermissionDenied
	}

	snap := c.Snapshot()
	if _, ok := snap.Comment(id); !ok {
		return ErrCommentNotFound
	}
	summary := snap.FlagBoard().Summary(id)
	if summary == nil {
		return fmt.Errorf("%w: comment is not flagged", ErrValidationFailed)
	}
	if summary.Pinned() {
		return fmt.Errorf("%w: unpin the comment instead", ErrValidationFailed)
	}

	key := "clearflags:" + id
	if err := c.begin(key); err != nil {
		return err
	}
	defer c.end(key)

	if err := c.store.DeleteFlagsForComment(ctx, id); err != nil {
		logger.Error("Flag clear failed", err, map[string]interface{}{
			"comment_id": id,
			"admin_id":   p.ID,
		})
		return remoteErr("clearflags", err)
	}

	c.commit(func(d *draft) {
		d.removeFlagsForComment(id)
	})

	logger.Info("Flags cleared", map[string]interface{}{
		"comment_id": id,
		"admin_id":   p.ID,
	})
	return nil
}

func (c *Coordinator) mayModify(p *Principal, cm *model.Comment) bool {
	if p.IsAdmin() {
		return true
	}
	return cm.UserID != nil && *cm.UserID == p.ID
}

func (c *Coordinator) begin(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[key]; busy {
		logger.Warn("Duplicate action rejected", map[string]interface{}{
			"action": key,
		})
		return ErrActionInFlight
	}
	c.inflight[key] = struct{}{}
	return nil
}

func (c *Coordinator) end(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
}

// commit builds the successor snapshot under the lock: clone the
// current record slices, apply the patch, bump the version, swap.
func (c *Coordinator) commit(fn func(d *draft)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := &draft{
		comments:  append([]model.Comment(nil), c.snap.Comments...),
		reactions: append([]model.Reaction(nil), c.snap.Reactions...),
		flags:     append([]model.Flag(nil), c.snap.Flags...),
	}
	fn(d)
	c.snap = newSnapshot(c.snap.Version+1, d.comments, d.reactions, d.flags)
}

type draft struct {
	comments  []model.Comment
	reactions []model.Reaction
	flags     []model.Flag
}

func (d *draft) patchComment(id string, fn func(*model.Comment)) {
	for i := range d.comments {
		if d.comments[i].ID == id {
			fn(&d.comments[i])
			return
		}
	}
}

func (d *draft) removeComments(ids map[string]struct{}) {
	comments := d.comments[:0:0]
	for _, cm := range d.comments {
		if _, gone := ids[cm.ID]; !gone {
			comments = append(comments, cm)
		}
	}
	d.comments = comments

	reactions := d.reactions[:0:0]
	for _, r := range d.reactions {
		if _, gone := ids[r.CommentID]; !gone {
			reactions = append(reactions, r)
		}
	}
	d.reactions = reactions

	flags := d.flags[:0:0]
	for _, f := range d.flags {
		if _, gone := ids[f.CommentID]; !gone {
			flags = append(flags, f)
		}
	}
	d.flags = flags
}

func (d *draft) removeOwnReaction(userID uint, commentID string) {
	reactions := d.reactions[:0:0]
	for _, r := range d.reactions {
		if r.UserID == userID && r.CommentID == commentID {
			continue
		}
		reactions = append(reactions, r)
	}
	d.reactions = reactions
}

func (d *draft) replaceCommentReactions(commentID string, rows []model.Reaction) {
	reactions := d.reactions[:0:0]
	for _, r := range d.reactions {
		if r.CommentID != commentID {
			reactions = append(reactions, r)
		}
	}
	d.reactions = append(reactions, rows...)
}

func (d *draft) removeOwnFlags(userID uint, commentID string) {
	flags := d.flags[:0:0]
	for _, f := range d.flags {
		if f.UserID == userID && f.CommentID == commentID {
			continue
		}
		flags = append(flags, f)
	}
	d.flags = flags
}

func (d *draft) removeFlagByID(id string) {
	flags := d.flags[:0:0]
	for _, f := range d.flags {
		if f.ID != id {
			flags = append(flags, f)
		}
	}
	d.flags = flags
}

func (d *draft) removeFlagsForComment(commentID string) {
	flags := d.flags[:0:0]
	for _, f := range d.flags {
		if f.CommentID != commentID {
			flags = append(flags, f)
		}
	}
	d.flags = flags
}

// descendants walks the local tree from id and returns id plus every
// reply below it.
func (s *Snapshot) descendants(id string) []string {
	node, ok := s.Tree().Lookup(id)
	if !ok {
		return nil
	}
	var ids []string
	stack := []*Node{node}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ids = append(ids, n.Comment.ID)
		stack = append(stack, n.replies...)
	}
	return ids
}

// reactionsForComment snapshots the comment's current reaction rows,
// used as the rollback image for React.
func (s *Snapshot) reactionsForComment(commentID string) []model.Reaction {
	var rows []model.Reaction
	for _, r := range s.Reactions {
		if r.CommentID == commentID {
			rows = append(rows, r)
		}
	}
	return rows
}

// ownFlags snapshots the user's flag rows on a comment.
func (s *Snapshot) ownFlags(userID uint, commentID string) []model.Flag {
	var rows []model.Flag
	for _, f := range s.Flags {
		if f.UserID == userID && f.CommentID == commentID {
			rows = append(rows, f)
		}
	}
	return rows
}
