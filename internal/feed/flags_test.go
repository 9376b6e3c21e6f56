package feed

import (
	"testing"
	"time"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateFlags_PinnedDominatesRepresentative(t *testing.T) {
	base := time.Now()
	flags := []model.Flag{
		{ID: "f1", CommentID: "a", UserID: 1, Type: model.FlagSpam, CreatedAt: base},
		{ID: "f2", CommentID: "a", UserID: 2, Type: model.FlagPinned, CreatedAt: base.Add(time.Minute)},
		{ID: "f3", CommentID: "a", UserID: 3, Type: model.FlagInappropriate, CreatedAt: base.Add(2 * time.Minute)},
	}

	board := AggregateFlags(flags)

	summary := board.Summary("a")
	require.NotNil(t, summary)
	assert.True(t, summary.Pinned())
	assert.Equal(t, model.FlagPinned, summary.Representative)
	assert.Equal(t, 3, summary.Count)
}

func TestAggregateFlags_EarliestReportRepresents(t *testing.T) {
	base := time.Now()
	flags := []model.Flag{
		// Inserted out of order; the earliest CreatedAt wins.
		{ID: "f2", CommentID: "a", UserID: 2, Type: model.FlagInappropriate, CreatedAt: base.Add(time.Hour)},
		{ID: "f1", CommentID: "a", UserID: 1, Type: model.FlagSpam, CreatedAt: base},
	}

	board := AggregateFlags(flags)

	summary := board.Summary("a")
	require.NotNil(t, summary)
	assert.Equal(t, model.FlagSpam, summary.Representative)
	assert.False(t, summary.Pinned())
}

func TestAggregateFlags_TimestampTieBrokenByID(t *testing.T) {
	base := time.Now()
	flags := []model.Flag{
		{ID: "f2", CommentID: "a", UserID: 2, Type: model.FlagInappropriate, CreatedAt: base},
		{ID: "f1", CommentID: "a", UserID: 1, Type: model.FlagSpam, CreatedAt: base},
	}

	board := AggregateFlags(flags)

	assert.Equal(t, model.FlagSpam, board.Summary("a").Representative)
}

func TestFlagSummary_FlaggedBy(t *testing.T) {
	flags := []model.Flag{
		{ID: "f1", CommentID: "a", UserID: 7, Type: model.FlagSpam},
	}

	board := AggregateFlags(flags)

	assert.True(t, board.Summary("a").FlaggedBy(7))
	assert.False(t, board.Summary("a").FlaggedBy(8))
	// Nil summary is safe to query.
	assert.False(t, board.Summary("unflagged").FlaggedBy(7))
	assert.False(t, board.Summary("unflagged").Pinned())
}

func TestFlagBoard_Flagged(t *testing.T) {
	board := AggregateFlags([]model.Flag{
		{ID: "f1", CommentID: "a", UserID: 1, Type: model.FlagSpam},
	})

	assert.True(t, board.Flagged("a"))
	assert.False(t, board.Flagged("b"))
}
