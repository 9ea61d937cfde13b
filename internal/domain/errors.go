package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLocationUnavailable means the caller supplied no usable coordinates.
	ErrLocationUnavailable = errors.New("location unavailable")
	// ErrDuplicateAction marks an idempotent repeat (double tap, double
	// confirmation). Callers should treat it as a no-op, not a failure.
	ErrDuplicateAction = errors.New("duplicate action")
	// ErrPrecondition marks a rejected operation: same-venue requirement not
	// met, wrong confirming party, banned user.
	ErrPrecondition = errors.New("precondition failed")
	// ErrPersistence wraps storage read/write failures. Retries are user
	// initiated.
	ErrPersistence = errors.New("storage failure")
	// ErrNotFound is returned for missing users, venues, check-ins or pings.
	ErrNotFound = errors.New("not found")
)

// TooFarError rejects a check-in whose computed distance exceeds the entry
// radius. It carries the distance for user-facing messaging.
type TooFarError struct {
	DistanceKm float64
	LimitKm    float64
}

func (e *TooFarError) Error() string {
	return fmt.Sprintf("too far from venue: %.2f km (limit %.2f km)", e.DistanceKm, e.LimitKm)
}
