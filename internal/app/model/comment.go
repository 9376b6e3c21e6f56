package model

import (
	"time"
)

// Comment is a single entry in the site-wide comment section. There is
// one feed for the whole site, so comments carry no page or track key.
// IDs are server-assigned UUIDs so clients never invent identifiers.
type Comment struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Content string `gorm:"type:text;not null" json:"content"`

	// Author is nullable: deleting an account detaches its comments
	// instead of tearing holes in reply threads.
	UserID *uint `gorm:"index" json:"user_id,omitempty"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	ParentID *string   `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Parent   *Comment  `gorm:"foreignKey:ParentID" json:"-"`
	Replies  []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`

	// Denormalized per-type reaction counts, maintained in the same
	// transaction as the reaction rows.
	LikeCount     int `gorm:"default:0" json:"like_count"`
	DislikeCount  int `gorm:"default:0" json:"dislike_count"`
	LoveCount     int `gorm:"default:0" json:"love_count"`
	LaughCount    int `gorm:"default:0" json:"laugh_count"`
	SurpriseCount int `gorm:"default:0" json:"surprise_count"`
	SadCount      int `gorm:"default:0" json:"sad_count"`
	MadCount      int `gorm:"default:0" json:"mad_count"`

	Reactions []Reaction `gorm:"foreignKey:CommentID" json:"-"`
	Flags     []Flag     `gorm:"foreignKey:CommentID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

// CreateCommentRequest posts a new top-level comment or a reply.
type CreateCommentRequest struct {
	Content  string  `json:"content" binding:"required,min=1"`
	ParentID *string `json:"parent_id,omitempty" binding:"omitempty,uuid"`
}

// UpdateCommentRequest edits a comment's body.
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

// DeleteCommentRequest carries the confirmation the caller must echo
// back before a cascade delete runs.
type DeleteCommentRequest struct {
	Confirm string `json:"confirm" binding:"required"`
}

// FeedQuery selects a sorted, filtered rendering of the comment feed.
type FeedQuery struct {
	Sort   string `form:"sort" binding:"omitempty,oneof=latest oldest likes dislikes flagged"`
	Search string `form:"q"`
}
