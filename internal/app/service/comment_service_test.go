package service

import (
	"context"
	"testing"
	"time"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/repository"
	"github.com/sofaspartan/sofaspartan-backend/internal/db"
	"github.com/sofaspartan/sofaspartan-backend/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) NotifyNewComment(authorName, content string, isReply bool, postedAt time.Time) {
	kind := "comment"
	if isReply {
		kind = "reply"
	}
	n.calls = append(n.calls, kind+":"+authorName)
}

type commentServiceFixture struct {
	svc      CommentService
	notifier *recordingNotifier
	store    feed.Store
	alice    *feed.Principal
	bob      *feed.Principal
	artist   *feed.Principal
}

func setupCommentServiceTest(t *testing.T) *commentServiceFixture {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	users := []*model.User{
		{Email: "alice@example.com", PasswordHash: "x", DisplayName: "alice", Role: model.RoleRegular},
		{Email: "bob@example.com", PasswordHash: "x", DisplayName: "bob", Role: model.RoleRegular},
		{Email: "artist@example.com", PasswordHash: "x", DisplayName: "sofaspartan", Role: model.RoleAdmin},
	}
	for _, u := range users {
		require.NoError(t, testDB.Create(u).Error)
	}

	store := repository.NewFeedStore(testDB)
	coordinator := feed.NewCoordinator(store)
	require.NoError(t, coordinator.Refresh(context.Background()))

	notifier := &recordingNotifier{}

	return &commentServiceFixture{
		svc:      NewCommentService(coordinator, notifier),
		notifier: notifier,
		store:    store,
		alice:    &feed.Principal{ID: users[0].ID, DisplayName: "alice", Role: model.RoleRegular},
		bob:      &feed.Principal{ID: users[1].ID, DisplayName: "bob", Role: model.RoleRegular},
		artist:   &feed.Principal{ID: users[2].ID, DisplayName: "sofaspartan", Role: model.RoleAdmin},
	}
}

func TestCommentService_PostAndFeed(t *testing.T) {
	f := setupCommentServiceTest(t)
	ctx := context.Background()

	posted, err := f.svc.Post(ctx, f.alice, "first!", nil)
	require.NoError(t, err)
	require.NotNil(t, posted)
	require.NotNil(t, posted.Author)
	assert.Equal(t, "alice", posted.Author.DisplayName)

	reply, err := f.svc.Post(ctx, f.bob, "welcome aboard", &posted.ID)
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, posted.ID, *reply.ParentID)

	// A guest sees the whole tree.
	view, err := f.svc.Feed(ctx, nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, "latest", view.Sort)
	require.Len(t, view.Comments, 1)
	require.Len(t, view.Comments[0].Replies, 1)
	assert.Equal(t, "welcome aboard", view.Comments[0].Replies[0].Content)

	assert.Equal(t, []string{"comment:alice", "reply:bob"}, f.notifier.calls)
}

func TestCommentService_ReactShowsInFeed(t *testing.T) {
	f := setupCommentServiceTest(t)
	ctx := context.Background()

	posted, err := f.svc.Post(ctx, f.alice, "rate this", nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.React(ctx, f.bob, posted.ID, model.ReactionLike))

	// Bob sees his own reaction, alice does not.
	bobView, err := f.svc.Feed(ctx, f.bob, "", "")
	require.NoError(t, err)
	require.Len(t, bobView.Comments, 1)
	assert.Equal(t, string(model.ReactionLike), bobView.Comments[0].OwnReaction)
	assert.Equal(t, 1, bobView.Comments[0].Reactions[string(model.ReactionLike)])

	aliceView, err := f.svc.Feed(ctx, f.alice, "", "")
	require.NoError(t, err)
	assert.Empty(t, aliceView.Comments[0].OwnReaction)
}

func TestCommentService_DeleteRemovesSubtree(t *testing.T) {
	f := setupCommentServiceTest(t)
	ctx := context.Background()

	root, err := f.svc.Post(ctx, f.alice, "parent", nil)
	require.NoError(t, err)
	_, err = f.svc.Post(ctx, f.bob, "child", &root.ID)
	require.NoError(t, err)

	// Wrong confirmation phrase fails validation.
	err = f.svc.Delete(ctx, f.alice, root.ID, "delete")
	assert.ErrorIs(t, err, feed.ErrValidationFailed)

	require.NoError(t, f.svc.Delete(ctx, f.alice, root.ID, feed.DeleteConfirmation))

	view, err := f.svc.Feed(ctx, nil, "", "")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Total)
	assert.Empty(t, view.Comments)
}

func TestCommentService_PinOrdersFeed(t *testing.T) {
	f := setupCommentServiceTest(t)
	ctx := context.Background()

	first, err := f.svc.Post(ctx, f.alice, "older comment", nil)
	require.NoError(t, err)
	_, err = f.svc.Post(ctx, f.bob, "newer comment", nil)
	require.NoError(t, err)

	// Only the artist can pin.
	err = f.svc.Pin(ctx, f.bob, first.ID)
	assert.ErrorIs(t, err, feed.ErrPermissionDenied)

	require.NoError(t, f.svc.Pin(ctx, f.artist, first.ID))

	view, err := f.svc.Feed(ctx, nil, "latest", "")
	require.NoError(t, err)
	require.Len(t, view.Comments, 2)
	assert.Equal(t, first.ID, view.Comments[0].ID)
	assert.True(t, view.Comments[0].Pinned)

	require.NoError(t, f.svc.Unpin(ctx, f.artist, first.ID))

	view, err = f.svc.Feed(ctx, nil, "latest", "")
	require.NoError(t, err)
	assert.False(t, view.Comments[0].Pinned)
}

func TestCommentService_FlagStateInFeed(t *testing.T) {
	f := setupCommentServiceTest(t)
	ctx := context.Background()

	posted, err := f.svc.Post(ctx, f.alice, "looks spammy", nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.ToggleFlag(ctx, f.bob, posted.ID, model.FlagSpam))

	bobView, err := f.svc.Feed(ctx, f.bob, "", "")
	require.NoError(t, err)
	require.NotNil(t, bobView.Comments[0].Flag)
	assert.Equal(t, string(model.FlagSpam), bobView.Comments[0].Flag.Type)
	assert.Equal(t, 1, bobView.Comments[0].Flag.Count)
	assert.True(t, bobView.Comments[0].Flag.FlaggedByMe)

	// The artist clears the reports.
	require.NoError(t, f.svc.ClearFlags(ctx, f.artist, posted.ID))

	view, err := f.svc.Feed(ctx, nil, "", "")
	require.NoError(t, err)
	assert.Nil(t, view.Comments[0].Flag)
}

func TestCommentService_FeedSearch(t *testing.T) {
	f := setupCommentServiceTest(t)
	ctx := context.Background()

	_, err := f.svc.Post(ctx, f.alice, "the new album is great", nil)
	require.NoError(t, err)
	_, err = f.svc.Post(ctx, f.bob, "when is the next show", nil)
	require.NoError(t, err)

	view, err := f.svc.Feed(ctx, nil, "latest", "album")
	require.NoError(t, err)
	require.Len(t, view.Comments, 1)
	assert.Contains(t, view.Comments[0].Content, "album")
	assert.Equal(t, "album", view.Search)
}
