package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleRegular UserRole = "regular"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	DisplayName  string         `gorm:"not null" json:"display_name"`
	AvatarURL    string         `json:"avatar_url"`
	Role         UserRole       `gorm:"type:varchar(20);default:'regular'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required,min=1,max=50"`
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest updates the fields shown next to the user's comments.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" binding:"omitempty,min=1,max=50"`
	AvatarURL   *string `json:"avatar_url,omitempty" binding:"omitempty,url"`
}

// DeleteAccountRequest carries the typed confirmation phrase. The account
// is only removed when Confirm is exactly "DELETE".
type DeleteAccountRequest struct {
	Confirm string `json:"confirm" binding:"required"`
}
