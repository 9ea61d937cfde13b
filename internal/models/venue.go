package models

import (
	"time"

	"gorm.io/gorm"
)

// Venue is static reference data; coordinates may be missing for legacy rows,
// in which case proximity checks treat the venue as unreachable.
type Venue struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:255;not null;index" json:"name"`
	Category   string         `gorm:"size:64;index" json:"category"`
	Latitude   *float64       `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude  *float64       `gorm:"type:decimal(11,8)" json:"longitude"`
	Address    string         `gorm:"size:512" json:"address"`
	IsPromoted bool           `gorm:"default:false;index" json:"is_promoted"`
	OwnerID    *uint          `gorm:"index" json:"owner_id,omitempty"` // business accounts
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Venue) TableName() string {
	return "venues"
}
