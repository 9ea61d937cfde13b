package geo

import (
	"math"
	"testing"
)

func TestHaversineZero(t *testing.T) {
	if d := HaversineKm(40.0, -104.0, 40.0, -104.0); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := HaversineKm(40.0, -104.0, 51.5, -0.12)
	b := HaversineKm(51.5, -0.12, 40.0, -104.0)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("not symmetric: %f vs %f", a, b)
	}
}

func TestHaversineNearbyVenue(t *testing.T) {
	// ~0.137 km apart, well inside a 0.5 km radius
	d := HaversineKm(40.000, -104.000, 40.001, -104.001)
	if d < 0.12 || d > 0.16 {
		t.Fatalf("expected ~0.137 km, got %f", d)
	}
}

func TestDistanceKmNilCoordinates(t *testing.T) {
	lat, lng := 40.0, -104.0
	if d := DistanceKm(nil, &lng, &lat, &lng); !math.IsInf(d, 1) {
		t.Fatalf("expected +Inf for nil latitude, got %f", d)
	}
	if d := DistanceKm(&lat, &lng, &lat, nil); !math.IsInf(d, 1) {
		t.Fatalf("expected +Inf for nil longitude, got %f", d)
	}
	if d := DistanceKm(&lat, &lng, &lat, &lng); d != 0 {
		t.Fatalf("expected 0 for identical points, got %f", d)
	}
}
