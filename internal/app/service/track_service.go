package service

import (
	"errors"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/repository"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrTrackNotFound = errors.New("track not found")

type TrackService interface {
	ListTracks() ([]model.Track, error)
	GetTrack(id uint) (*model.Track, error)
}

type trackService struct {
	trackRepo repository.TrackRepository
}

func NewTrackService(trackRepo repository.TrackRepository) TrackService {
	return &trackService{trackRepo: trackRepo}
}

func (s *trackService) ListTracks() ([]model.Track, error) {
	tracks, err := s.trackRepo.List()
	if err != nil {
		logger.Error("Failed to list tracks", err, nil)
		return nil, err
	}

	logger.Debug("Tracks listed", map[string]interface{}{
		"count": len(tracks),
	})
	return tracks, nil
}

func (s *trackService) GetTrack(id uint) (*model.Track, error) {
	track, err := s.trackRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, err
	}
	return track, nil
}
