package service

import (
	"fmt"

	"taptap/internal/domain"
	"taptap/internal/models"
	"taptap/internal/observability"
	"taptap/internal/repository"
	"taptap/pkg/geo"
)

// CheckinService is the proximity engine: it gates check-ins on distance to
// the venue and keeps presence honest as users move.
type CheckinService struct {
	users    UserStore
	venues   VenueStore
	checkins CheckinStore
	notifier Notifier
	hub      Broadcaster
}

func NewCheckinService(users UserStore, venues VenueStore, checkins CheckinStore, notifier Notifier, hub Broadcaster) *CheckinService {
	return &CheckinService{users: users, venues: venues, checkins: checkins, notifier: notifier, hub: hub}
}

// RequestCheckIn validates the caller's live coordinates against the venue
// and, within the entry radius, activates a new check-in. Any prior active
// check-in is deactivated in the same transaction, so exactly one row stays
// active per user. Distance exactly on the boundary is allowed.
func (s *CheckinService) RequestCheckIn(userID, venueID uint, lat, lng *float64) (*models.CheckIn, error) {
	if lat == nil || lng == nil {
		return nil, domain.ErrLocationUnavailable
	}
	u, err := s.users.GetByID(userID)
	if err != nil {
		return nil, storageErr(err)
	}
	if u.IsBanned {
		return nil, fmt.Errorf("%w: account banned", domain.ErrPrecondition)
	}
	v, err := s.venues.GetByID(venueID)
	if err != nil {
		return nil, storageErr(err)
	}
	// A venue without coordinates is unreachable: DistanceKm yields +Inf.
	d := geo.DistanceKm(lat, lng, v.Latitude, v.Longitude)
	if !domain.WithinEntryRadius(d) {
		return nil, &domain.TooFarError{DistanceKm: d, LimitKm: domain.EntryRadiusKm}
	}
	prev, err := s.checkins.ActiveByUserID(userID)
	if err != nil {
		return nil, storageErr(err)
	}
	c, err := s.checkins.Activate(userID, venueID)
	if err != nil {
		return nil, storageErr(err)
	}
	observability.CheckinsTotal.Inc()
	if s.hub != nil {
		if prev != nil && prev.VenueID != venueID {
			s.hub.VenuePresenceChanged(prev.VenueID)
		}
		s.hub.VenuePresenceChanged(venueID)
	}
	return c, nil
}

// Leave deactivates the matching active check-in. Leaving a venue the user is
// not checked in at is a no-op.
func (s *CheckinService) Leave(userID, venueID uint) error {
	left, err := s.checkins.Deactivate(userID, venueID)
	if err != nil {
		return storageErr(err)
	}
	if left && s.hub != nil {
		s.hub.VenuePresenceChanged(venueID)
	}
	return nil
}

// ReconcilePresence re-checks an active check-in against live coordinates.
// Past the drift radius (looser than entry, so jitter near the boundary does
// not flap) the user is auto-checked-out and told about it. Returns whether
// an eviction happened.
func (s *CheckinService) ReconcilePresence(userID uint, lat, lng float64) (bool, error) {
	active, err := s.checkins.ActiveByUserID(userID)
	if err != nil {
		return false, storageErr(err)
	}
	if active == nil {
		return false, nil
	}
	v, err := s.venues.GetByID(active.VenueID)
	if err != nil {
		return false, storageErr(err)
	}
	d := geo.DistanceKm(&lat, &lng, v.Latitude, v.Longitude)
	if !domain.BeyondDriftRadius(d) {
		return false, nil
	}
	if _, err := s.checkins.Deactivate(userID, active.VenueID); err != nil {
		return false, storageErr(err)
	}
	observability.AutoCheckoutsTotal.Inc()
	if s.notifier != nil {
		_ = s.notifier.AutoCheckedOut(userID, v.Name)
	}
	if s.hub != nil {
		s.hub.VenuePresenceChanged(active.VenueID)
	}
	return true, nil
}

// ForceCheckout clears any active check-in regardless of venue (admin ban,
// idle sweep). Returns the check-in that was cleared, if any.
func (s *CheckinService) ForceCheckout(userID uint) (*models.CheckIn, error) {
	cleared, err := s.checkins.DeactivateAllForUser(userID)
	if err != nil {
		return nil, storageErr(err)
	}
	if cleared != nil {
		observability.AutoCheckoutsTotal.Inc()
		if s.hub != nil {
			s.hub.VenuePresenceChanged(cleared.VenueID)
		}
	}
	return cleared, nil
}

// ActiveCheckin returns the user's current presence, nil when checked out.
func (s *CheckinService) ActiveCheckin(userID uint) (*models.CheckIn, error) {
	c, err := s.checkins.ActiveByUserID(userID)
	if err != nil {
		return nil, storageErr(err)
	}
	return c, nil
}

// Presence recomputes the who's-here projection for a venue from the
// check-in table. No aggregate is cached.
func (s *CheckinService) Presence(venueID uint) ([]models.CheckIn, int64, error) {
	if _, err := s.venues.GetByID(venueID); err != nil {
		return nil, 0, storageErr(err)
	}
	list, err := s.checkins.ListActiveByVenueID(venueID)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	count, err := s.checkins.CountActiveByVenueID(venueID)
	if err != nil {
		return nil, 0, storageErr(err)
	}
	return list, count, nil
}

// storageErr translates repository errors into the domain taxonomy.
func storageErr(err error) error {
	if repository.IsNotFound(err) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
}
