package service

import (
	"context"
	"time"

	"taptap/internal/domain"
	"taptap/internal/models"

	"gorm.io/gorm"
)

type memUsers struct{ m map[uint]*models.User }

func (f *memUsers) GetByID(id uint) (*models.User, error) {
	if u, ok := f.m[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type memVenues struct{ m map[uint]*models.Venue }

func (f *memVenues) GetByID(id uint) (*models.Venue, error) {
	if v, ok := f.m[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type memCheckins struct {
	rows   []*models.CheckIn
	nextID uint
}

func (f *memCheckins) ActiveByUserID(userID uint) (*models.CheckIn, error) {
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].UserID == userID && f.rows[i].Active {
			return f.rows[i], nil
		}
	}
	return nil, nil
}

func (f *memCheckins) Activate(userID, venueID uint) (*models.CheckIn, error) {
	for _, c := range f.rows {
		if c.UserID == userID {
			c.Active = false
		}
	}
	f.nextID++
	c := &models.CheckIn{ID: f.nextID, UserID: userID, VenueID: venueID, Active: true, CreatedAt: time.Now()}
	f.rows = append(f.rows, c)
	return c, nil
}

func (f *memCheckins) Deactivate(userID, venueID uint) (bool, error) {
	left := false
	for _, c := range f.rows {
		if c.UserID == userID && c.VenueID == venueID && c.Active {
			c.Active = false
			left = true
		}
	}
	return left, nil
}

func (f *memCheckins) DeactivateAllForUser(userID uint) (*models.CheckIn, error) {
	active, _ := f.ActiveByUserID(userID)
	if active == nil {
		return nil, nil
	}
	active.Active = false
	return active, nil
}

func (f *memCheckins) ListActiveByVenueID(venueID uint) ([]models.CheckIn, error) {
	var out []models.CheckIn
	for _, c := range f.rows {
		if c.VenueID == venueID && c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *memCheckins) CountActiveByVenueID(venueID uint) (int64, error) {
	list, _ := f.ListActiveByVenueID(venueID)
	return int64(len(list)), nil
}

func (f *memCheckins) ListActive() ([]models.CheckIn, error) {
	var out []models.CheckIn
	for _, c := range f.rows {
		if c.Active {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *memCheckins) HasActiveAt(userID, venueID uint) (bool, error) {
	for _, c := range f.rows {
		if c.UserID == userID && c.VenueID == venueID && c.Active {
			return true, nil
		}
	}
	return false, nil
}

func (f *memCheckins) activeFor(userID uint) []*models.CheckIn {
	var out []*models.CheckIn
	for _, c := range f.rows {
		if c.UserID == userID && c.Active {
			out = append(out, c)
		}
	}
	return out
}

type memPings struct {
	rows   []*models.Ping
	awards []models.XPEvent
	nextID uint
	clock  time.Time
}

func (f *memPings) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

// GetByID returns a copy, like a real row scan: mutations on the result do
// not land until a write method commits them.
func (f *memPings) GetByID(id uint) (*models.Ping, error) {
	for _, p := range f.rows {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *memPings) FindOpen(fromID, toID, venueID uint) (*models.Ping, error) {
	for i := len(f.rows) - 1; i >= 0; i-- {
		p := f.rows[i]
		if p.FromUserID == fromID && p.ToUserID == toID && p.VenueID == venueID && p.MeetConfirmed == nil {
			return p, nil
		}
	}
	return nil, nil
}

func (f *memPings) FindReversePending(fromID, toID, venueID uint) (*models.Ping, error) {
	for i := len(f.rows) - 1; i >= 0; i-- {
		p := f.rows[i]
		if p.FromUserID == toID && p.ToUserID == fromID && p.VenueID == venueID && p.Status == domain.PingPending {
			return p, nil
		}
	}
	return nil, nil
}

func (f *memPings) Create(p *models.Ping) error {
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = f.tick()
	f.rows = append(f.rows, p)
	return nil
}

func (f *memPings) CreateMatch(p, reverse *models.Ping) error {
	if reverse.Status != domain.PingPending {
		return gorm.ErrRecordNotFound
	}
	now := f.tick()
	p.Status = domain.PingMatched
	p.MatchedAt = &now
	reverse.Status = domain.PingMatched
	reverse.MatchedAt = &now
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = now
	f.rows = append(f.rows, p)
	return nil
}

// Confirm writes through only while the stored row is still unanswered,
// matching the repository's conditional update.
func (f *memPings) Confirm(p *models.Ping, awards []models.XPEvent) error {
	for _, stored := range f.rows {
		if stored.ID != p.ID {
			continue
		}
		if stored.MeetConfirmed != nil {
			return domain.ErrDuplicateAction
		}
		stored.MeetConfirmed = p.MeetConfirmed
		stored.Feedback = p.Feedback
		stored.ConfirmedAt = p.ConfirmedAt
		f.awards = append(f.awards, awards...)
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (f *memPings) ListByUser(userID uint, limit int) ([]models.Ping, error) {
	var out []models.Ping
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		p := f.rows[i]
		if p.FromUserID == userID || p.ToUserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memActivity struct{ active map[uint]bool }

func (f *memActivity) Touch(_ context.Context, userID uint) error {
	f.active[userID] = true
	return nil
}

func (f *memActivity) IsActive(_ context.Context, userID uint) (bool, error) {
	return f.active[userID], nil
}

func (f *memActivity) Clear(_ context.Context, userID uint) error {
	delete(f.active, userID)
	return nil
}

type notifyCall struct {
	kind   string
	userID uint
	pingID uint
	points int
	text   string
}

type recNotifier struct{ calls []notifyCall }

func (r *recNotifier) PingReceived(toUserID uint, fromName string, pingID uint) error {
	r.calls = append(r.calls, notifyCall{kind: "ping", userID: toUserID, pingID: pingID, text: fromName})
	return nil
}

func (r *recNotifier) MatchMade(userID uint, otherName string, pingID uint) error {
	r.calls = append(r.calls, notifyCall{kind: "match", userID: userID, pingID: pingID, text: otherName})
	return nil
}

func (r *recNotifier) MeetConfirmed(userID uint, otherName string, points int) error {
	r.calls = append(r.calls, notifyCall{kind: "meet", userID: userID, points: points, text: otherName})
	return nil
}

func (r *recNotifier) AutoCheckedOut(userID uint, venueName string) error {
	r.calls = append(r.calls, notifyCall{kind: "checkout", userID: userID, text: venueName})
	return nil
}

func (r *recNotifier) count(kind string) int {
	n := 0
	for _, c := range r.calls {
		if c.kind == kind {
			n++
		}
	}
	return n
}

type hubEvent struct {
	venueID uint
	userID  uint
	event   string
}

type recHub struct{ events []hubEvent }

func (r *recHub) VenuePresenceChanged(venueID uint) {
	r.events = append(r.events, hubEvent{venueID: venueID, event: "presence_changed"})
}

func (r *recHub) PingEvent(userID uint, event string, data map[string]interface{}) {
	r.events = append(r.events, hubEvent{userID: userID, event: event})
}

func ptr(f float64) *float64 { return &f }
