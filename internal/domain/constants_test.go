package domain

import (
	"math"
	"testing"
)

func TestEntryRadiusBoundaryIsInside(t *testing.T) {
	if !WithinEntryRadius(0) {
		t.Fatal("zero distance must qualify")
	}
	if !WithinEntryRadius(EntryRadiusKm) {
		t.Fatal("a distance exactly on the entry radius must qualify")
	}
	if WithinEntryRadius(math.Nextafter(EntryRadiusKm, math.Inf(1))) {
		t.Fatal("the smallest distance past the radius must be rejected")
	}
	if WithinEntryRadius(math.Inf(1)) {
		t.Fatal("an unreachable venue (infinite distance) must be rejected")
	}
}

func TestDriftRadiusBoundaryStaysCheckedIn(t *testing.T) {
	if BeyondDriftRadius(DriftRadiusKm) {
		t.Fatal("a user exactly on the drift radius must not be evicted")
	}
	if !BeyondDriftRadius(math.Nextafter(DriftRadiusKm, math.Inf(1))) {
		t.Fatal("the smallest distance past the drift radius must evict")
	}
	if BeyondDriftRadius(EntryRadiusKm) {
		t.Fatal("the drift bound must be looser than the entry bound")
	}
}
