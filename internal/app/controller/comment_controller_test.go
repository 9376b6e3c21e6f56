package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/repository"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/service"
	"github.com/sofaspartan/sofaspartan-backend/internal/db"
	"github.com/sofaspartan/sofaspartan-backend/internal/feed"
	"github.com/sofaspartan/sofaspartan-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type silentNotifier struct{}

func (silentNotifier) NotifyNewComment(authorName, content string, isReply bool, postedAt time.Time) {}

type commentControllerFixture struct {
	router      *gin.Engine
	listenerTok string
}

func setupCommentControllerTest(t *testing.T) *commentControllerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	store := repository.NewFeedStore(testDB)
	coordinator := feed.NewCoordinator(store)
	require.NoError(t, coordinator.Refresh(context.Background()))

	authService := service.NewAuthService(
		userRepo,
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
	commentService := service.NewCommentService(coordinator, silentNotifier{})

	_, listenerTokens, err := authService.Register("listener@example.com", "password123", "listener")
	require.NoError(t, err)

	ctrl := NewCommentController(commentService, authService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret", false)

	router := gin.New()
	comments := router.Group("/comments")
	{
		comments.GET("/feed", authMiddleware.OptionalAuthenticate(), ctrl.Feed)
		comments.POST("", authMiddleware.Authenticate(), ctrl.Post)
		comments.PUT("/:id", authMiddleware.Authenticate(), ctrl.Edit)
		comments.DELETE("/:id", authMiddleware.Authenticate(), ctrl.Delete)
		comments.POST("/:id/reactions", authMiddleware.Authenticate(), ctrl.React)
		comments.POST("/:id/flags", authMiddleware.Authenticate(), ctrl.ToggleFlag)
		comments.PUT("/:id/pin", authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"), ctrl.Pin)
		comments.DELETE("/:id/pin", authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"), ctrl.Unpin)
		comments.DELETE("/:id/flags", authMiddleware.Authenticate(), authMiddleware.RequireRole("admin"), ctrl.ClearFlags)
	}

	return &commentControllerFixture{
		router:      router,
		listenerTok: listenerTokens.AccessToken,
	}
}

func postComment(t *testing.T, f *commentControllerFixture, content string, parentID *string, token string) string {
	t.Helper()

	w := postJSON(t, f.router, "POST", "/comments", model.CreateCommentRequest{
		Content:  content,
		ParentID: parentID,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var response struct {
		Comment struct {
			ID string `json:"id"`
		} `json:"comment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Comment.ID)
	return response.Comment.ID
}

func TestCommentController_PostRequiresAuth(t *testing.T) {
	f := setupCommentControllerTest(t)

	w := postJSON(t, f.router, "POST", "/comments", model.CreateCommentRequest{
		Content: "drive-by comment",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCommentController_PostAndFeed(t *testing.T) {
	f := setupCommentControllerTest(t)

	rootID := postComment(t, f, "great new single", nil, f.listenerTok)
	postComment(t, f, "totally agree", &rootID, f.listenerTok)

	// The feed is readable without signing in.
	w := postJSON(t, f.router, "GET", "/comments/feed", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var view service.FeedView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 2, view.Total)
	require.Len(t, view.Comments, 1)
	require.Len(t, view.Comments[0].Replies, 1)
	assert.Equal(t, "totally agree", view.Comments[0].Replies[0].Content)
}

func TestCommentController_PostInvalidParent(t *testing.T) {
	f := setupCommentControllerTest(t)

	parent := "not-a-uuid"
	w := postJSON(t, f.router, "POST", "/comments", model.CreateCommentRequest{
		Content:  "orphan",
		ParentID: &parent,
	}, f.listenerTok)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentController_EditOwnComment(t *testing.T) {
	f := setupCommentControllerTest(t)

	id := postComment(t, f, "first draft", nil, f.listenerTok)

	w := postJSON(t, f.router, "PUT", "/comments/"+id, model.UpdateCommentRequest{
		Content: "second draft",
	}, f.listenerTok)
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, f.router, "GET", "/comments/feed", nil, "")
	assert.Contains(t, w.Body.String(), "second draft")
}

func TestCommentController_DeleteNeedsConfirmation(t *testing.T) {
	f := setupCommentControllerTest(t)

	id := postComment(t, f, "regrettable", nil, f.listenerTok)

	w := postJSON(t, f.router, "DELETE", "/comments/"+id, model.DeleteCommentRequest{
		Confirm: "yes",
	}, f.listenerTok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_NOT_CONFIRMED")

	w = postJSON(t, f.router, "DELETE", "/comments/"+id, model.DeleteCommentRequest{
		Confirm: "DELETE",
	}, f.listenerTok)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCommentController_React(t *testing.T) {
	f := setupCommentControllerTest(t)

	id := postComment(t, f, "react to this", nil, f.listenerTok)

	w := postJSON(t, f.router, "POST", "/comments/"+id+"/reactions", model.ReactRequest{
		Type: model.ReactionLike,
	}, f.listenerTok)
	assert.Equal(t, http.StatusOK, w.Code)

	// An unknown type never reaches the coordinator.
	w = postJSON(t, f.router, "POST", "/comments/"+id+"/reactions", map[string]string{
		"type": "meh",
	}, f.listenerTok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "REACTION_INVALID_TYPE")
}

func TestCommentController_FlagAndAdminClear(t *testing.T) {
	f := setupCommentControllerTest(t)

	id := postComment(t, f, "borderline", nil, f.listenerTok)

	w := postJSON(t, f.router, "POST", "/comments/"+id+"/flags", model.FlagRequest{
		Type: model.FlagSpam,
	}, f.listenerTok)
	assert.Equal(t, http.StatusOK, w.Code)

	// The pinned marker is not a report; the request validator refuses it.
	w = postJSON(t, f.router, "POST", "/comments/"+id+"/flags", map[string]string{
		"type": "pinned",
	}, f.listenerTok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Regular users cannot clear flags.
	w = postJSON(t, f.router, "DELETE", "/comments/"+id+"/flags", nil, f.listenerTok)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCommentController_PinIsAdminOnly(t *testing.T) {
	f := setupCommentControllerTest(t)

	id := postComment(t, f, "pin me maybe", nil, f.listenerTok)

	w := postJSON(t, f.router, "PUT", "/comments/"+id+"/pin", nil, f.listenerTok)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Only the artist can do that")
}

func TestCommentController_FeedRejectsUnknownSort(t *testing.T) {
	f := setupCommentControllerTest(t)

	w := postJSON(t, f.router, "GET", "/comments/feed?sort=bogus", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_SORT")
}
