package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/service"
	apperrors "github.com/sofaspartan/sofaspartan-backend/internal/errors"
	"github.com/sofaspartan/sofaspartan-backend/internal/middleware"
)

type TrackController struct {
	trackService service.TrackService
}

func NewTrackController(trackService service.TrackService) *TrackController {
	return &TrackController{
		trackService: trackService,
	}
}

// ListTracks returns the full discography in player order
// GET /api/v1/tracks
func (ctrl *TrackController) ListTracks(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tracks, err := ctrl.trackService.ListTracks()
	if err != nil {
		log.Error("Failed to list tracks", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list tracks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tracks": tracks,
		"total":  len(tracks),
	})
}

// GetTrack returns a single track
// GET /api/v1/tracks/:id
func (ctrl *TrackController) GetTrack(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid track ID")
		return
	}

	track, err := ctrl.trackService.GetTrack(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrTrackNotFound) {
			apperrors.NotFound(c, apperrors.TrackNotFound, "Track not found")
			return
		}
		log.Error("Failed to get track", err, map[string]interface{}{
			"track_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get track")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"track": track,
	})
}
