package models

import (
	"time"

	"taptap/internal/domain"

	"gorm.io/gorm"
)

// Ping is a directional interest signal between two users checked in at the
// same venue. FromUserID is the initiator and ToUserID the recipient; the
// roles are fixed at creation and the recipient alone may confirm a meeting.
//
// Status moves PENDING → MATCHED when a reverse pending ping exists. Meet
// confirmation is a separate tri-state: nil (unanswered), true (met, XP
// awarded), false (did not meet, optional feedback). Either confirmed value
// is terminal.
type Ping struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	FromUserID    uint           `gorm:"not null;index:idx_pings_pair" json:"from_user_id"`
	ToUserID      uint           `gorm:"not null;index:idx_pings_pair" json:"to_user_id"`
	VenueID       uint           `gorm:"not null;index:idx_pings_pair" json:"venue_id"`
	Status        string         `gorm:"size:20;not null;index" json:"status"` // PENDING, MATCHED
	MeetConfirmed *bool          `json:"meet_confirmed"`
	Feedback      string         `gorm:"type:text" json:"feedback,omitempty"`
	MatchedAt     *time.Time     `json:"matched_at"`
	ConfirmedAt   *time.Time     `json:"confirmed_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	FromUser User  `gorm:"foreignKey:FromUserID" json:"-"`
	ToUser   User  `gorm:"foreignKey:ToUserID" json:"-"`
	Venue    Venue `gorm:"foreignKey:VenueID" json:"-"`
}

func (Ping) TableName() string {
	return "pings"
}

func (p *Ping) IsMatched() bool { return p.Status == domain.PingMatched }

// IsTerminal reports whether the meet confirmation has been answered.
func (p *Ping) IsTerminal() bool { return p.MeetConfirmed != nil }

// RoleOf returns the stored role of the given user on this ping.
func (p *Ping) RoleOf(userID uint) string {
	switch userID {
	case p.FromUserID:
		return domain.RoleInitiator
	case p.ToUserID:
		return domain.RoleRecipient
	}
	return ""
}

// CounterpartID returns the other user on the ping, or 0 when the given user
// is not a party.
func (p *Ping) CounterpartID(userID uint) uint {
	switch userID {
	case p.FromUserID:
		return p.ToUserID
	case p.ToUserID:
		return p.FromUserID
	}
	return 0
}
