package models

import (
	"time"

	"gorm.io/gorm"
)

// XPEvent records a single XP grant. The running users.xp total is updated in
// the same transaction that inserts the event, so history and total agree.
type XPEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Event     string         `gorm:"size:50;not null;index" json:"event"`
	Points    int            `gorm:"not null" json:"points"`
	PingID    *uint          `gorm:"index" json:"ping_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User  `gorm:"foreignKey:UserID" json:"-"`
	Ping *Ping `gorm:"foreignKey:PingID" json:"-"`
}

func (XPEvent) TableName() string {
	return "xp_events"
}
