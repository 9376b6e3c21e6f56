package model

import (
	"time"

	"github.com/lib/pq"
)

// Track is one entry in the artist's catalog. The API serves metadata
// only; audio files live behind the URL.
type Track struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Artist      string         `gorm:"not null;default:'sofaspartan'" json:"artist"`
	URL         string         `gorm:"not null" json:"url"`
	AlbumArtURL string         `json:"album_art_url"`
	Genres      pq.StringArray `gorm:"type:text[]" json:"genres"`
	Position    int            `gorm:"not null;default:0;index" json:"position"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (Track) TableName() string {
	return "tracks"
}
