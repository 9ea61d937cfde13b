package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Handle       string         `gorm:"uniqueIndex;size:64;not null" json:"handle"`
	Email        string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	DisplayName  string         `gorm:"size:128" json:"display_name"`
	Gender       string         `gorm:"size:20;index" json:"gender"`
	Seeking      string         `gorm:"size:20" json:"seeking"`
	Bio          string         `gorm:"type:text" json:"bio"`
	AvatarURL    string         `gorm:"size:512" json:"avatar_url"`
	XP           int64          `gorm:"not null;default:0" json:"xp"`
	IsAdmin      bool           `gorm:"default:false" json:"-"`
	IsBanned     bool           `gorm:"default:false;index" json:"-"`
	FCMToken     string         `gorm:"size:512" json:"-"` // For push notifications
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Name returns the best user-facing label for notifications.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Handle != "" {
		return u.Handle
	}
	return u.Email
}
