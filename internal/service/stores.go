package service

import (
	"context"

	"taptap/internal/models"
)

// Narrow store interfaces implemented by the gorm repositories. The check-in
// and ping services depend on these so their logic can be exercised against
// in-memory fakes.

type UserStore interface {
	GetByID(id uint) (*models.User, error)
}

// CredentialStore is the slice of UserRepository the auth service needs.
type CredentialStore interface {
	Create(u *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByHandle(handle string) (*models.User, error)
}

type VenueStore interface {
	GetByID(id uint) (*models.Venue, error)
}

type CheckinStore interface {
	ActiveByUserID(userID uint) (*models.CheckIn, error)
	Activate(userID, venueID uint) (*models.CheckIn, error)
	Deactivate(userID, venueID uint) (bool, error)
	DeactivateAllForUser(userID uint) (*models.CheckIn, error)
	ListActiveByVenueID(venueID uint) ([]models.CheckIn, error)
	CountActiveByVenueID(venueID uint) (int64, error)
	ListActive() ([]models.CheckIn, error)
	HasActiveAt(userID, venueID uint) (bool, error)
}

type PingStore interface {
	GetByID(id uint) (*models.Ping, error)
	FindOpen(fromID, toID, venueID uint) (*models.Ping, error)
	FindReversePending(fromID, toID, venueID uint) (*models.Ping, error)
	Create(p *models.Ping) error
	CreateMatch(p, reverse *models.Ping) error
	Confirm(p *models.Ping, awards []models.XPEvent) error
	ListByUser(userID uint, limit int) ([]models.Ping, error)
}

type ActivityStore interface {
	Touch(ctx context.Context, userID uint) error
	IsActive(ctx context.Context, userID uint) (bool, error)
	Clear(ctx context.Context, userID uint) error
}

// Notifier is the slice of NotificationService the core services call.
type Notifier interface {
	PingReceived(toUserID uint, fromName string, pingID uint) error
	MatchMade(userID uint, otherName string, pingID uint) error
	MeetConfirmed(userID uint, otherName string, points int) error
	AutoCheckedOut(userID uint, venueName string) error
}

// Broadcaster pushes invalidation events to subscribed realtime clients.
type Broadcaster interface {
	VenuePresenceChanged(venueID uint)
	PingEvent(userID uint, event string, data map[string]interface{})
}
