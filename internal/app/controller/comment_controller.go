package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/service"
	apperrors "github.com/sofaspartan/sofaspartan-backend/internal/errors"
	"github.com/sofaspartan/sofaspartan-backend/internal/feed"
	"github.com/sofaspartan/sofaspartan-backend/internal/middleware"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
)

type CommentController struct {
	commentService service.CommentService
	authService    service.AuthService
}

func NewCommentController(commentService service.CommentService, authService service.AuthService) *CommentController {
	return &CommentController{
		commentService: commentService,
		authService:    authService,
	}
}

// respondFeedError maps feed coordinator errors onto the standard error
// body.
func respondFeedError(c *gin.Context, log *logger.Logger, err error, context string) {
	switch {
	case errors.Is(err, feed.ErrAuthenticationRequired):
		apperrors.Unauthorized(c, "")
	case errors.Is(err, feed.ErrValidationFailed):
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the fields and try again")
	case errors.Is(err, feed.ErrPermissionDenied):
		apperrors.Forbidden(c, "")
	case errors.Is(err, feed.ErrActionInFlight):
		apperrors.Conflict(c, apperrors.CommentActionBusy, "That action is still being processed. Please wait a moment")
	case errors.Is(err, feed.ErrCommentNotFound):
		apperrors.NotFound(c, apperrors.CommentNotFound, "Comment not found")
	default:
		var remote *feed.RemoteError
		if errors.As(err, &remote) && remote.Unreachable {
			log.Error("Feed store unreachable", err, map[string]interface{}{
				"op": remote.Op,
			})
			apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalStoreOffline, "The service is temporarily unreachable. Please try again shortly")
			return
		}
		log.Error("Comment operation failed", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// principal builds the feed identity for the request, filling the
// display name from the user record so notifications can use it.
func (ctrl *CommentController) principal(c *gin.Context) *feed.Principal {
	p := middleware.GetPrincipal(c)
	if p == nil || p.DisplayName != "" {
		return p
	}
	if user, err := ctrl.authService.GetUserByID(p.ID); err == nil {
		p.DisplayName = user.DisplayName
	}
	return p
}

// Feed returns the rendered comment section
// GET /api/v1/comments/feed
func (ctrl *CommentController) Feed(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var query model.FeedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.Warn("Invalid feed query", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidSort, "Unknown sort mode")
		return
	}

	viewer := middleware.GetPrincipal(c)

	view, err := ctrl.commentService.Feed(c.Request.Context(), viewer, query.Sort, query.Search)
	if err != nil {
		respondFeedError(c, log, err, "comment feed")
		return
	}

	c.JSON(http.StatusOK, view)
}

// Post creates a new comment or reply
// POST /api/v1/comments
func (ctrl *CommentController) Post(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req model.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid create comment request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the fields and try again")
		return
	}

	p := ctrl.principal(c)

	view, err := ctrl.commentService.Post(c.Request.Context(), p, req.Content, req.ParentID)
	if err != nil {
		respondFeedError(c, log, err, "post comment")
		return
	}

	log.Info("Comment posted", map[string]interface{}{
		"comment_id": view.ID,
		"is_reply":   req.ParentID != nil,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment posted",
		"comment": view,
	})
}

// Edit updates a comment's body
// PUT /api/v1/comments/:id
func (ctrl *CommentController) Edit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	var req model.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update comment request", map[string]interface{}{
			"comment_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the fields and try again")
		return
	}

	p := middleware.GetPrincipal(c)

	if err := ctrl.commentService.Edit(c.Request.Context(), p, id, req.Content); err != nil {
		respondFeedError(c, log, err, "edit comment")
		return
	}

	log.Info("Comment edited", map[string]interface{}{
		"comment_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment updated",
	})
}

// Delete removes a comment and its reply subtree
// DELETE /api/v1/comments/:id
func (ctrl *CommentController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	var req model.DeleteCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid delete comment request", map[string]interface{}{
			"comment_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationNotConfirmed, "Type DELETE to confirm")
		return
	}

	p := middleware.GetPrincipal(c)

	if err := ctrl.commentService.Delete(c.Request.Context(), p, id, req.Confirm); err != nil {
		if errors.Is(err, feed.ErrValidationFailed) {
			apperrors.BadRequest(c, apperrors.ValidationNotConfirmed, "Type DELETE to confirm")
			return
		}
		respondFeedError(c, log, err, "delete comment")
		return
	}

	log.Info("Comment deleted", map[string]interface{}{
		"comment_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted",
	})
}

// React toggles a reaction on a comment
// POST /api/v1/comments/:id/reactions
func (ctrl *CommentController) React(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	var req model.ReactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid reaction request", map[string]interface{}{
			"comment_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ReactionInvalidType, "Unknown reaction type")
		return
	}

	p := middleware.GetPrincipal(c)

	if err := ctrl.commentService.React(c.Request.Context(), p, id, req.Type); err != nil {
		respondFeedError(c, log, err, "react to comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reaction updated",
	})
}

// ToggleFlag toggles a report flag on a comment
// POST /api/v1/comments/:id/flags
func (ctrl *CommentController) ToggleFlag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	var req model.FlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid flag request", map[string]interface{}{
			"comment_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.FlagInvalidType, "Unknown flag type")
		return
	}

	p := middleware.GetPrincipal(c)

	if err := ctrl.commentService.ToggleFlag(c.Request.Context(), p, id, req.Type); err != nil {
		respondFeedError(c, log, err, "flag comment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Flag updated",
	})
}

// Pin marks a comment as pinned
// PUT /api/v1/comments/:id/pin
func (ctrl *CommentController) Pin(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	p := middleware.GetPrincipal(c)

	if err := ctrl.commentService.Pin(c.Request.Context(), p, id); err != nil {
		respondFeedError(c, log, err, "pin comment")
		return
	}

	log.Info("Comment pinned", map[string]interface{}{
		"comment_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment pinned",
	})
}

// Unpin removes the pinned marker from a comment
// DELETE /api/v1/comments/:id/pin
func (ctrl *CommentController) Unpin(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	p := middleware.GetPrincipal(c)

	if err := ctrl.commentService.Unpin(c.Request.Context(), p, id); err != nil {
		respondFeedError(c, log, err, "unpin comment")
		return
	}

	log.Info("Comment unpinned", map[string]interface{}{
		"comment_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment unpinned",
	})
}

// ClearFlags removes every report flag from a comment
// DELETE /api/v1/comments/:id/flags
func (ctrl *CommentController) ClearFlags(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	id := c.Param("id")

	p := middleware.GetPrincipal(c)

	if err := ctrl.commentService.ClearFlags(c.Request.Context(), p, id); err != nil {
		if errors.Is(err, feed.ErrValidationFailed) {
			apperrors.BadRequest(c, apperrors.FlagNotFlagged, "That comment has no flags to clear")
			return
		}
		respondFeedError(c, log, err, "clear comment flags")
		return
	}

	log.Info("Comment flags cleared", map[string]interface{}{
		"comment_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Flags cleared",
	})
}
