package service

import (
	"context"
	"errors"
	"testing"

	"taptap/internal/domain"
	"taptap/internal/models"
)

func newCheckinFixture() (*CheckinService, *memCheckins, *recNotifier, *recHub) {
	users := &memUsers{m: map[uint]*models.User{
		1: {ID: 1, Handle: "ana"},
		2: {ID: 2, Handle: "ben"},
		3: {ID: 3, Handle: "cal", IsBanned: true},
	}}
	venues := &memVenues{m: map[uint]*models.Venue{
		10: {ID: 10, Name: "Corner Bar", Latitude: ptr(40.001), Longitude: ptr(-104.001)},
		11: {ID: 11, Name: "Roastery", Latitude: ptr(40.002), Longitude: ptr(-104.002)},
		12: {ID: 12, Name: "Ghost Venue"}, // no coordinates
	}}
	checkins := &memCheckins{}
	notifier := &recNotifier{}
	hub := &recHub{}
	return NewCheckinService(users, venues, checkins, notifier, hub), checkins, notifier, hub
}

func TestRequestCheckInNearbySucceeds(t *testing.T) {
	svc, checkins, _, hub := newCheckinFixture()
	// ~0.137 km from Corner Bar, well under the 0.5 km entry radius
	c, err := svc.RequestCheckIn(1, 10, ptr(40.000), ptr(-104.000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Active || c.VenueID != 10 {
		t.Fatalf("bad check-in: %+v", c)
	}
	if got := len(checkins.activeFor(1)); got != 1 {
		t.Fatalf("expected 1 active row, got %d", got)
	}
	if len(hub.events) != 1 || hub.events[0].venueID != 10 {
		t.Fatalf("expected one venue invalidation, got %+v", hub.events)
	}
}

func TestRequestCheckInTooFar(t *testing.T) {
	svc, checkins, _, _ := newCheckinFixture()
	_, err := svc.RequestCheckIn(1, 10, ptr(41.0), ptr(-104.0)) // ~111 km away
	var tooFar *domain.TooFarError
	if !errors.As(err, &tooFar) {
		t.Fatalf("expected TooFarError, got %v", err)
	}
	if tooFar.DistanceKm <= domain.EntryRadiusKm {
		t.Fatalf("distance should exceed limit: %+v", tooFar)
	}
	if len(checkins.rows) != 0 {
		t.Fatal("no check-in should be created")
	}
}

func TestRequestCheckInMissingCoordinates(t *testing.T) {
	svc, _, _, _ := newCheckinFixture()
	if _, err := svc.RequestCheckIn(1, 10, nil, ptr(-104.0)); !errors.Is(err, domain.ErrLocationUnavailable) {
		t.Fatalf("expected ErrLocationUnavailable, got %v", err)
	}
}

func TestRequestCheckInVenueWithoutCoordinates(t *testing.T) {
	svc, _, _, _ := newCheckinFixture()
	// missing venue coordinates mean unbounded distance, so rejection
	_, err := svc.RequestCheckIn(1, 12, ptr(40.0), ptr(-104.0))
	var tooFar *domain.TooFarError
	if !errors.As(err, &tooFar) {
		t.Fatalf("expected TooFarError, got %v", err)
	}
}

func TestRequestCheckInBannedUser(t *testing.T) {
	svc, _, _, _ := newCheckinFixture()
	if _, err := svc.RequestCheckIn(3, 10, ptr(40.0), ptr(-104.0)); !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
}

func TestRequestCheckInUnknownVenue(t *testing.T) {
	svc, _, _, _ := newCheckinFixture()
	if _, err := svc.RequestCheckIn(1, 99, ptr(40.0), ptr(-104.0)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCheckInSwitchesVenue(t *testing.T) {
	svc, checkins, _, hub := newCheckinFixture()
	if _, err := svc.RequestCheckIn(1, 10, ptr(40.001), ptr(-104.001)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RequestCheckIn(1, 11, ptr(40.002), ptr(-104.002)); err != nil {
		t.Fatal(err)
	}
	active := checkins.activeFor(1)
	if len(active) != 1 {
		t.Fatalf("expected exactly one active check-in, got %d", len(active))
	}
	if active[0].VenueID != 11 {
		t.Fatalf("active check-in should be at venue 11, got %d", active[0].VenueID)
	}
	// both the old and the new venue get invalidations on the switch
	var venues []uint
	for _, e := range hub.events[1:] {
		venues = append(venues, e.venueID)
	}
	if len(venues) != 2 || venues[0] != 10 || venues[1] != 11 {
		t.Fatalf("expected invalidations for venues 10 then 11, got %v", venues)
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	svc, _, _, hub := newCheckinFixture()
	if err := svc.Leave(1, 10); err != nil {
		t.Fatalf("leave when not checked in must be a no-op, got %v", err)
	}
	if len(hub.events) != 0 {
		t.Fatal("no broadcast for a no-op leave")
	}
	if _, err := svc.RequestCheckIn(1, 10, ptr(40.001), ptr(-104.001)); err != nil {
		t.Fatal(err)
	}
	if err := svc.Leave(1, 10); err != nil {
		t.Fatal(err)
	}
	if err := svc.Leave(1, 10); err != nil {
		t.Fatalf("second leave must be a no-op, got %v", err)
	}
}

func TestReconcilePresenceDrift(t *testing.T) {
	svc, checkins, notifier, _ := newCheckinFixture()
	if _, err := svc.RequestCheckIn(1, 10, ptr(40.001), ptr(-104.001)); err != nil {
		t.Fatal(err)
	}
	// ~1.2 km away: beyond entry radius but inside the drift radius, so no
	// eviction (this asymmetry is what prevents boundary flapping)
	left, err := svc.ReconcilePresence(1, 40.012, -104.001)
	if err != nil || left {
		t.Fatalf("should stay checked in inside drift radius: left=%v err=%v", left, err)
	}
	// ~11 km away: evicted
	left, err = svc.ReconcilePresence(1, 40.1, -104.0)
	if err != nil || !left {
		t.Fatalf("expected drift eviction: left=%v err=%v", left, err)
	}
	if len(checkins.activeFor(1)) != 0 {
		t.Fatal("check-in should be deactivated after drift")
	}
	if notifier.count("checkout") != 1 {
		t.Fatalf("expected one auto-checkout notice, got %d", notifier.count("checkout"))
	}
	// reconcile with no active check-in is a no-op
	left, err = svc.ReconcilePresence(1, 40.1, -104.0)
	if err != nil || left {
		t.Fatalf("no-op expected: left=%v err=%v", left, err)
	}
}

func TestForceCheckout(t *testing.T) {
	svc, checkins, _, hub := newCheckinFixture()
	if _, err := svc.RequestCheckIn(2, 10, ptr(40.001), ptr(-104.001)); err != nil {
		t.Fatal(err)
	}
	cleared, err := svc.ForceCheckout(2)
	if err != nil || cleared == nil || cleared.VenueID != 10 {
		t.Fatalf("force checkout failed: %+v %v", cleared, err)
	}
	if len(checkins.activeFor(2)) != 0 {
		t.Fatal("check-in should be gone")
	}
	if hub.events[len(hub.events)-1].venueID != 10 {
		t.Fatal("venue invalidation expected")
	}
	// nothing active: no-op, no error
	cleared, err = svc.ForceCheckout(2)
	if err != nil || cleared != nil {
		t.Fatalf("expected no-op, got %+v %v", cleared, err)
	}
}

func TestPresenceProjection(t *testing.T) {
	svc, _, _, _ := newCheckinFixture()
	if _, err := svc.RequestCheckIn(1, 10, ptr(40.001), ptr(-104.001)); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RequestCheckIn(2, 10, ptr(40.001), ptr(-104.001)); err != nil {
		t.Fatal(err)
	}
	list, count, err := svc.Presence(10)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 || len(list) != 2 {
		t.Fatalf("expected 2 present, got count=%d len=%d", count, len(list))
	}
}

func TestSweepEvictsIdleUsers(t *testing.T) {
	venues := &memVenues{m: map[uint]*models.Venue{
		10: {ID: 10, Name: "Corner Bar", Latitude: ptr(40.001), Longitude: ptr(-104.001)},
	}}
	checkins := &memCheckins{}
	notifier := &recNotifier{}
	hub := &recHub{}
	checkins.Activate(1, 10)
	checkins.Activate(2, 10)

	activity := &memActivity{active: map[uint]bool{}}
	ctx := context.Background()
	activity.Touch(ctx, 1) // user 1 interacted recently; user 2 is idle

	sweep := NewSweepService(checkins, venues, activity, notifier, hub)
	sweep.Sweep(ctx)

	if len(checkins.activeFor(1)) != 1 {
		t.Fatal("active user must keep their check-in")
	}
	if len(checkins.activeFor(2)) != 0 {
		t.Fatal("idle user must be checked out")
	}
	if notifier.count("checkout") != 1 {
		t.Fatalf("expected one checkout notice, got %d", notifier.count("checkout"))
	}
}
