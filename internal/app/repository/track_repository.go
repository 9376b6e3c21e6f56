package repository

import (
	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
	"gorm.io/gorm"
)

type TrackRepository interface {
	List() ([]model.Track, error)
	FindByID(id uint) (*model.Track, error)
	Create(track *model.Track) error
	Update(track *model.Track) error
}

type trackRepository struct {
	db *gorm.DB
}

func NewTrackRepository(db *gorm.DB) TrackRepository {
	return &trackRepository{db: db}
}

// List returns the catalog in its curated order.
func (r *trackRepository) List() ([]model.Track, error) {
	var tracks []model.Track
	if err := r.db.Order("position ASC").Find(&tracks).Error; err != nil {
		logger.Error("Failed to list tracks", err, nil)
		return nil, err
	}
	return tracks, nil
}

func (r *trackRepository) FindByID(id uint) (*model.Track, error) {
	var track model.Track
	if err := r.db.First(&track, id).Error; err != nil {
		logger.Error("Failed to find track by ID", err, map[string]interface{}{
			"track_id": id,
		})
		return nil, err
	}
	return &track, nil
}

func (r *trackRepository) Create(track *model.Track) error {
	if err := r.db.Create(track).Error; err != nil {
		logger.Error("Failed to create track", err, map[string]interface{}{
			"title": track.Title,
		})
		return err
	}
	return nil
}

func (r *trackRepository) Update(track *model.Track) error {
	if err := r.db.Save(track).Error; err != nil {
		logger.Error("Failed to update track", err, map[string]interface{}{
			"track_id": track.ID,
		})
		return err
	}
	return nil
}
