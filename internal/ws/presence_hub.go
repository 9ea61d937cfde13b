package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// PresenceHub pushes invalidation events, not state. Clients subscribe to
// venue ids; when presence at a venue changes, every subscriber receives a
// small "presence_changed" event and re-fetches the venue view over HTTP.
// Ping and match events reach the affected users on their own channels the
// same way.
type PresenceHub struct {
	*Hub
	mu sync.RWMutex
	// venueID -> subscribed clients
	byVenue map[uint]map[*Client]struct{}
	// client -> venues it watches, for cleanup on unsubscribe/close
	venuesOf map[*Client]map[uint]struct{}
}

func NewPresenceHub() *PresenceHub {
	return &PresenceHub{
		Hub:      NewHub(),
		byVenue:  make(map[uint]map[*Client]struct{}),
		venuesOf: make(map[*Client]map[uint]struct{}),
	}
}

func (h *PresenceHub) Subscribe(c *Client, venueID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.byVenue[venueID] == nil {
		h.byVenue[venueID] = make(map[*Client]struct{})
	}
	h.byVenue[venueID][c] = struct{}{}
	if h.venuesOf[c] == nil {
		h.venuesOf[c] = make(map[uint]struct{})
	}
	h.venuesOf[c][venueID] = struct{}{}
}

func (h *PresenceHub) Unsubscribe(c *Client, venueID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byVenue[venueID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byVenue, venueID)
		}
	}
	if m := h.venuesOf[c]; m != nil {
		delete(m, venueID)
	}
}

// Drop removes every venue subscription for a closing client.
func (h *PresenceHub) Drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for venueID := range h.venuesOf[c] {
		if m := h.byVenue[venueID]; m != nil {
			delete(m, c)
			if len(m) == 0 {
				delete(h.byVenue, venueID)
			}
		}
	}
	delete(h.venuesOf, c)
}

// VenuePresenceChanged notifies subscribers that the venue's presence set
// changed. The payload carries no presence data on purpose.
func (h *PresenceHub) VenuePresenceChanged(venueID uint) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":     "presence_changed",
		"venue_id": venueID,
		"at":       time.Now().Unix(),
	})
	h.mu.RLock()
	m := h.byVenue[venueID]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// PingEvent pushes a ping/match/confirmation event to one user.
func (h *PresenceHub) PingEvent(userID uint, event string, data map[string]interface{}) {
	payload := map[string]interface{}{"type": event, "at": time.Now().Unix()}
	for k, v := range data {
		payload[k] = v
	}
	h.BroadcastToUser(userID, payload)
}
