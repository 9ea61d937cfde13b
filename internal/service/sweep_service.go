package service

import (
	"context"
	"log"
	"time"

	"taptap/internal/observability"
)

// SweepService evicts idle sessions. Authenticated requests refresh a redis
// activity key with the idle-timeout TTL; a user whose key has expired has
// had no qualifying interaction within the window and loses their active
// check-in.
type SweepService struct {
	checkins CheckinStore
	venues   VenueStore
	activity ActivityStore
	notifier Notifier
	hub      Broadcaster
	interval time.Duration
}

func NewSweepService(checkins CheckinStore, venues VenueStore, activity ActivityStore, notifier Notifier, hub Broadcaster) *SweepService {
	return &SweepService{
		checkins: checkins,
		venues:   venues,
		activity: activity,
		notifier: notifier,
		hub:      hub,
		interval: 5 * time.Minute,
	}
}

// Run sweeps on a ticker until the context is cancelled.
func (s *SweepService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep walks the active check-ins once and evicts idle users.
func (s *SweepService) Sweep(ctx context.Context) {
	list, err := s.checkins.ListActive()
	if err != nil {
		log.Printf("[sweep] list active: %v", err)
		return
	}
	for i := range list {
		c := &list[i]
		active, err := s.activity.IsActive(ctx, c.UserID)
		if err != nil {
			log.Printf("[sweep] activity lookup user=%d: %v", c.UserID, err)
			continue
		}
		if active {
			continue
		}
		left, err := s.checkins.Deactivate(c.UserID, c.VenueID)
		if err != nil {
			log.Printf("[sweep] deactivate user=%d venue=%d: %v", c.UserID, c.VenueID, err)
			continue
		}
		if !left {
			continue
		}
		observability.AutoCheckoutsTotal.Inc()
		_ = s.activity.Clear(ctx, c.UserID)
		venueName := c.Venue.Name
		if venueName == "" {
			if v, err := s.venues.GetByID(c.VenueID); err == nil {
				venueName = v.Name
			}
		}
		if s.notifier != nil {
			_ = s.notifier.AutoCheckedOut(c.UserID, venueName)
		}
		if s.hub != nil {
			s.hub.VenuePresenceChanged(c.VenueID)
		}
		log.Printf("[sweep] idle checkout user=%d venue=%d", c.UserID, c.VenueID)
	}
}
