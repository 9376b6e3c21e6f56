package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/service"
	apperrors "github.com/sofaspartan/sofaspartan-backend/internal/errors"
	"github.com/sofaspartan/sofaspartan-backend/internal/middleware"
)

type AdminController struct {
	moderationService service.ModerationService
}

func NewAdminController(moderationService service.ModerationService) *AdminController {
	return &AdminController{
		moderationService: moderationService,
	}
}

// ExportModeration downloads the flagged-comment report as a spreadsheet
// GET /api/v1/admin/moderation/export
func (ctrl *AdminController) ExportModeration(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	buf, err := ctrl.moderationService.ExportFlaggedComments()
	if err != nil {
		log.Error("Failed to generate moderation export", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "moderation export")
		return
	}

	filename := fmt.Sprintf("flagged-comments-%s.xlsx", time.Now().Format("2006-01-02"))

	log.Info("Moderation export downloaded", map[string]interface{}{
		"filename": filename,
		"bytes":    buf.Len(),
	})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
