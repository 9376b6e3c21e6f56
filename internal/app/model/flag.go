package model

import (
	"time"
)

type FlagType string

const (
	FlagInappropriate FlagType = "inappropriate"
	FlagSpam          FlagType = "spam"
	// FlagPinned is a moderation marker, not a report. Only admins may
	// set it and it overrides every other flag in display.
	FlagPinned FlagType = "pinned"
)

func (t FlagType) Valid() bool {
	return t == FlagInappropriate || t == FlagSpam || t == FlagPinned
}

// Flag is one user's single flag on one comment, unique per (user,
// comment) like reactions.
type Flag struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CommentID string   `gorm:"type:uuid;not null;index:idx_flag_user_comment,unique" json:"comment_id"`
	UserID    uint     `gorm:"not null;index:idx_flag_user_comment,unique" json:"user_id"`
	Type      FlagType `gorm:"type:varchar(20);not null" json:"type"`

	Comment Comment `gorm:"foreignKey:CommentID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}

func (Flag) TableName() string {
	return "flags"
}

// FlagRequest toggles a report flag on a comment.
type FlagRequest struct {
	Type FlagType `json:"type" binding:"required,oneof=inappropriate spam"`
}
