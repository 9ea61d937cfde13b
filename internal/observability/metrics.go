package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CheckinsTotal      = promauto.NewCounter(prometheus.CounterOpts{Namespace: "taptap", Name: "checkins_total", Help: "Total successful check-ins"})
	AutoCheckoutsTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "taptap", Name: "auto_checkouts_total", Help: "Check-ins revoked by drift or idle sweep"})
	PingsTotal         = promauto.NewCounter(prometheus.CounterOpts{Namespace: "taptap", Name: "pings_total", Help: "Total pings sent"})
	MatchesTotal       = promauto.NewCounter(prometheus.CounterOpts{Namespace: "taptap", Name: "matches_total", Help: "Total mutual matches"})
	MeetConfirmsTotal  = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taptap", Name: "meet_confirmations_total", Help: "Meet confirmations by outcome"},
		[]string{"outcome"},
	)
)
