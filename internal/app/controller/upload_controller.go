package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/sofaspartan/sofaspartan-backend/internal/errors"
	"github.com/sofaspartan/sofaspartan-backend/internal/middleware"
	"github.com/sofaspartan/sofaspartan-backend/internal/storage"
)

const maxAvatarSize = 5 * 1024 * 1024 // 5 MB

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type UploadAvatarRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required,min=1"`
}

// UploadAvatar generates a presigned URL for uploading a profile image
// POST /api/v1/upload/avatar
func (ctrl *UploadController) UploadAvatar(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UploadAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid avatar upload request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Please check the fields and try again")
		return
	}

	allowedTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
	}
	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedTypes); err != nil {
		log.Warn("Invalid avatar content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	if err := ctrl.storage.ValidateFileSize(req.Size, maxAvatarSize); err != nil {
		log.Warn("Avatar too large", map[string]interface{}{
			"size": req.Size,
		})
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Avatars are limited to 5 MB")
		return
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, "avatars")
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Could not prepare the upload")
		return
	}

	log.Info("Avatar upload URL generated", map[string]interface{}{
		"filename": req.Filename,
		"key":      response.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"upload_url": response.UploadURL,
		"file_url":   response.FileURL,
		"key":        response.Key,
	})
}
