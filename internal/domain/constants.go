package domain

import "time"

// Proximity thresholds. Entry is the gate for a new check-in; drift is the
// looser bound used to auto-evict an already checked-in user so small GPS
// jitter does not toggle presence.
const (
	EntryRadiusKm = 0.5
	DriftRadiusKm = 1.609 // 1.0 mile
)

// WithinEntryRadius reports whether a measured distance qualifies for a new
// check-in. The boundary itself counts as inside.
func WithinEntryRadius(distanceKm float64) bool {
	return distanceKm <= EntryRadiusKm
}

// BeyondDriftRadius reports whether an active check-in has drifted far enough
// to be evicted. At the boundary the user stays checked in.
func BeyondDriftRadius(distanceKm float64) bool {
	return distanceKm > DriftRadiusKm
}

// IdleTimeout is the session-level inactivity window after which an active
// check-in is force-deactivated.
const IdleTimeout = 60 * time.Minute

const (
	PingPending = "PENDING"
	PingMatched = "MATCHED"
)

// Ping roles are fixed at creation time: the sender of the tap is the
// initiator, the target is the recipient. Only the recipient may answer the
// "did you meet" prompt.
const (
	RoleInitiator = "INITIATOR"
	RoleRecipient = "RECIPIENT"
)

const (
	EventMeetConfirmed = "meet_confirmed"
)

// XPAwards maps a qualifying event to the XP granted to each involved party.
// A confirmed meeting awards both sides.
var XPAwards = map[string]int{
	EventMeetConfirmed: 10,
}

const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// ValidGender reports whether v is one of the accepted gender values.
// The empty string is allowed so profiles can leave it unset.
func ValidGender(v string) bool {
	switch v {
	case "", GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}
