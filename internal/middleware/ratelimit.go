package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Throttle is a sliding-window request limiter. Authenticated traffic is
// keyed by user ID so a crowd checked in behind one venue NAT does not starve
// each other; anonymous traffic (login, register, webhooks) falls back to the
// client IP.
type Throttle struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	max    int
	window time.Duration
}

func NewThrottle(max int, window time.Duration) *Throttle {
	t := &Throttle{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
	}
	go t.evictLoop()
	return t
}

// Allow records a hit for key and reports whether it is under the limit.
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	cutoff := now.Add(-t.window)
	hits := t.hits[key]
	live := 0
	for live < len(hits) && !hits[live].After(cutoff) {
		live++
	}
	hits = hits[live:]
	if len(hits) >= t.max {
		t.hits[key] = hits
		return false
	}
	t.hits[key] = append(hits, now)
	return true
}

// evictLoop drops keys that have gone fully quiet so the map does not grow
// with every IP that ever hit the API.
func (t *Throttle) evictLoop() {
	for range time.Tick(2 * time.Minute) {
		t.mu.Lock()
		cutoff := time.Now().Add(-t.window)
		for key, hits := range t.hits {
			if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
				delete(t.hits, key)
			}
		}
		t.mu.Unlock()
	}
}

// throttleKey prefers the authenticated user set by AuthRequired.
func throttleKey(c *gin.Context) string {
	if userID := GetUserID(c); userID != 0 {
		return "u:" + strconv.FormatUint(uint64(userID), 10)
	}
	return "ip:" + c.ClientIP()
}

// RateLimit rejects requests over the throttle's budget with 429. Place it
// after AuthRequired on authenticated groups to key by user.
func RateLimit(t *Throttle) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !t.Allow(throttleKey(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			return
		}
		c.Next()
	}
}
