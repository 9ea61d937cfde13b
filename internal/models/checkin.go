package models

import (
	"time"

	"gorm.io/gorm"
)

// CheckIn is a presence fact: user is (or was) at a venue. At most one row
// per user may be active at a time; the repository enforces this by
// deactivating prior rows in the same transaction that inserts a new one.
type CheckIn struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index:idx_checkins_user_active" json:"user_id"`
	VenueID   uint           `gorm:"not null;index" json:"venue_id"`
	Active    bool           `gorm:"not null;default:true;index:idx_checkins_user_active" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Venue Venue `gorm:"foreignKey:VenueID" json:"-"`
}

func (CheckIn) TableName() string {
	return "checkins"
}
