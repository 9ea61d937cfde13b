package service

import (
	"errors"
	"fmt"
	"time"

	"taptap/internal/domain"
	"taptap/internal/models"
	"taptap/internal/observability"
	"taptap/internal/repository"
)

// PingService runs the tap lifecycle: pending → matched on a mutual tap, then
// a terminal meet confirmation with XP award.
type PingService struct {
	users    UserStore
	checkins CheckinStore
	pings    PingStore
	notifier Notifier
	hub      Broadcaster
}

func NewPingService(users UserStore, checkins CheckinStore, pings PingStore, notifier Notifier, hub Broadcaster) *PingService {
	return &PingService{users: users, checkins: checkins, pings: pings, notifier: notifier, hub: hub}
}

// SendPing creates a tap from one user to another. Both parties must be
// actively checked in at the venue; this is re-validated here rather than
// trusted from the caller. A repeat tap while a prior one is unconfirmed is
// an idempotent no-op returning the existing ping and ErrDuplicateAction.
// When a reverse pending ping exists both records end MATCHED, committed in
// one transaction, and each side is notified exactly once.
func (s *PingService) SendPing(fromID, toID, venueID uint) (*models.Ping, bool, error) {
	if fromID == toID {
		return nil, false, fmt.Errorf("%w: cannot tap yourself", domain.ErrPrecondition)
	}
	from, err := s.users.GetByID(fromID)
	if err != nil {
		return nil, false, storageErr(err)
	}
	to, err := s.users.GetByID(toID)
	if err != nil {
		return nil, false, storageErr(err)
	}
	if from.IsBanned || to.IsBanned {
		return nil, false, fmt.Errorf("%w: account banned", domain.ErrPrecondition)
	}
	for _, id := range []uint{fromID, toID} {
		here, err := s.checkins.HasActiveAt(id, venueID)
		if err != nil {
			return nil, false, storageErr(err)
		}
		if !here {
			return nil, false, fmt.Errorf("%w: both users must be checked in at the venue", domain.ErrPrecondition)
		}
	}
	existing, err := s.pings.FindOpen(fromID, toID, venueID)
	if err != nil {
		return nil, false, storageErr(err)
	}
	if existing != nil {
		return existing, existing.IsMatched(), domain.ErrDuplicateAction
	}
	reverse, err := s.pings.FindReversePending(fromID, toID, venueID)
	if err != nil {
		return nil, false, storageErr(err)
	}
	p := &models.Ping{FromUserID: fromID, ToUserID: toID, VenueID: venueID, Status: domain.PingPending}
	if reverse != nil {
		err := s.pings.CreateMatch(p, reverse)
		if repository.IsNotFound(err) {
			// reverse ping was answered concurrently; fall back to pending
			p = &models.Ping{FromUserID: fromID, ToUserID: toID, VenueID: venueID, Status: domain.PingPending}
			reverse = nil
			err = s.pings.Create(p)
		}
		if err != nil {
			return nil, false, storageErr(err)
		}
	} else {
		if err := s.pings.Create(p); err != nil {
			return nil, false, storageErr(err)
		}
	}
	observability.PingsTotal.Inc()
	if reverse != nil {
		observability.MatchesTotal.Inc()
		if s.notifier != nil {
			_ = s.notifier.MatchMade(fromID, to.Name(), p.ID)
			_ = s.notifier.MatchMade(toID, from.Name(), p.ID)
		}
		if s.hub != nil {
			s.hub.PingEvent(fromID, "match", map[string]interface{}{"ping_id": p.ID, "user_id": toID})
			s.hub.PingEvent(toID, "match", map[string]interface{}{"ping_id": p.ID, "user_id": fromID})
		}
		return p, true, nil
	}
	if s.notifier != nil {
		_ = s.notifier.PingReceived(toID, from.Name(), p.ID)
	}
	if s.hub != nil {
		s.hub.PingEvent(toID, "ping_received", map[string]interface{}{"ping_id": p.ID, "user_id": fromID})
	}
	return p, false, nil
}

// ConfirmMeeting answers the "did you meet" prompt. Only the recipient of
// the ping may answer; the role was fixed at creation. A yes discards any
// feedback and awards the XPAwards amount to both parties atomically with
// the ping update. A no stores the feedback verbatim and awards nothing.
// Re-confirming a terminal ping is an idempotent no-op.
func (s *PingService) ConfirmMeeting(pingID, confirmerID uint, confirmed bool, feedback string) (*models.Ping, error) {
	p, err := s.pings.GetByID(pingID)
	if err != nil {
		return nil, storageErr(err)
	}
	if p.RoleOf(confirmerID) != domain.RoleRecipient {
		return nil, fmt.Errorf("%w: only the tap recipient may confirm", domain.ErrPrecondition)
	}
	if p.IsTerminal() {
		return p, domain.ErrDuplicateAction
	}
	now := time.Now()
	p.MeetConfirmed = &confirmed
	p.ConfirmedAt = &now
	var awards []models.XPEvent
	if confirmed {
		p.Feedback = ""
		points := domain.XPAwards[domain.EventMeetConfirmed]
		pingRef := p.ID
		awards = []models.XPEvent{
			{UserID: p.FromUserID, Event: domain.EventMeetConfirmed, Points: points, PingID: &pingRef},
			{UserID: p.ToUserID, Event: domain.EventMeetConfirmed, Points: points, PingID: &pingRef},
		}
	} else {
		p.Feedback = feedback
	}
	if err := s.pings.Confirm(p, awards); err != nil {
		// a concurrent confirm won between our read and the write; treat it
		// like the early terminal check and surface the settled row
		if errors.Is(err, domain.ErrDuplicateAction) {
			settled, gerr := s.pings.GetByID(pingID)
			if gerr != nil {
				return nil, storageErr(gerr)
			}
			return settled, domain.ErrDuplicateAction
		}
		return nil, storageErr(err)
	}
	if confirmed {
		observability.MeetConfirmsTotal.WithLabelValues("met").Inc()
		points := domain.XPAwards[domain.EventMeetConfirmed]
		if s.notifier != nil {
			_ = s.notifier.MeetConfirmed(p.FromUserID, p.ToUser.Name(), points)
			_ = s.notifier.MeetConfirmed(p.ToUserID, p.FromUser.Name(), points)
		}
	} else {
		observability.MeetConfirmsTotal.WithLabelValues("no_meet").Inc()
	}
	if s.hub != nil {
		s.hub.PingEvent(p.CounterpartID(confirmerID), "meet_confirmed", map[string]interface{}{
			"ping_id": p.ID, "met": confirmed,
		})
	}
	return p, nil
}

// ActivityEntry is one row of the deduplicated activity feed.
type ActivityEntry struct {
	PingID        uint       `json:"ping_id"`
	Role          string     `json:"role"` // viewer's role on the ping
	Status        string     `json:"status"`
	MeetConfirmed *bool      `json:"meet_confirmed"`
	VenueID       uint       `json:"venue_id"`
	VenueName     string     `json:"venue_name"`
	CreatedAt     time.Time  `json:"created_at"`
	MatchedAt     *time.Time `json:"matched_at,omitempty"`
	Counterpart   struct {
		ID          uint   `json:"id"`
		Handle      string `json:"handle"`
		DisplayName string `json:"display_name"`
		AvatarURL   string `json:"avatar_url"`
	} `json:"counterpart"`
}

// ListActivity builds a most-recent-first feed with one entry per distinct
// counterpart across both directions.
func (s *PingService) ListActivity(userID uint) ([]ActivityEntry, error) {
	pings, err := s.pings.ListByUser(userID, 200)
	if err != nil {
		return nil, storageErr(err)
	}
	seen := make(map[uint]bool)
	out := make([]ActivityEntry, 0, len(pings))
	for i := range pings {
		p := &pings[i]
		otherID := p.CounterpartID(userID)
		if otherID == 0 || seen[otherID] {
			continue
		}
		seen[otherID] = true
		e := ActivityEntry{
			PingID:        p.ID,
			Role:          p.RoleOf(userID),
			Status:        p.Status,
			MeetConfirmed: p.MeetConfirmed,
			VenueID:       p.VenueID,
			VenueName:     p.Venue.Name,
			CreatedAt:     p.CreatedAt,
			MatchedAt:     p.MatchedAt,
		}
		other := p.ToUser
		if otherID == p.FromUserID {
			other = p.FromUser
		}
		e.Counterpart.ID = otherID
		e.Counterpart.Handle = other.Handle
		e.Counterpart.DisplayName = other.DisplayName
		e.Counterpart.AvatarURL = other.AvatarURL
		out = append(out, e)
	}
	return out, nil
}
