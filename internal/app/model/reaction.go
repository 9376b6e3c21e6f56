package model

import (
	"time"
)

type ReactionType string

const (
	ReactionLike     ReactionType = "like"
	ReactionDislike  ReactionType = "dislike"
	ReactionLove     ReactionType = "love"
	ReactionLaugh    ReactionType = "laugh"
	ReactionSurprise ReactionType = "surprise"
	ReactionSad      ReactionType = "sad"
	ReactionMad      ReactionType = "mad"
)

// ReactionTypes lists every valid type in display order.
var ReactionTypes = []ReactionType{
	ReactionLike,
	ReactionDislike,
	ReactionLove,
	ReactionLaugh,
	ReactionSurprise,
	ReactionSad,
	ReactionMad,
}

func (t ReactionType) Valid() bool {
	for _, rt := range ReactionTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// Reaction is one user's single reaction to one comment. The unique
// (user, comment) index enforces at most one row per pair; changing
// type updates the row in place.
type Reaction struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CommentID string       `gorm:"type:uuid;not null;index:idx_reaction_user_comment,unique" json:"comment_id"`
	UserID    uint         `gorm:"not null;index:idx_reaction_user_comment,unique" json:"user_id"`
	Type      ReactionType `gorm:"type:varchar(20);not null" json:"type"`

	Comment Comment `gorm:"foreignKey:CommentID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}

func (Reaction) TableName() string {
	return "reactions"
}

// ReactRequest toggles a reaction on a comment.
type ReactRequest struct {
	Type ReactionType `json:"type" binding:"required,oneof=like dislike love laugh surprise sad mad"`
}
