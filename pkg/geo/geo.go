package geo

import "math"

// EarthRadiusKm is the Earth mean radius in kilometers for Haversine.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in km between two points
// (lat/lng in degrees).
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	φ1, φ2 := rad(lat1), rad(lat2)
	Δφ := rad(lat2 - lat1)
	Δλ := rad(lng2 - lng1)
	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) +
		math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// DistanceKm computes HaversineKm between two possibly-missing coordinate
// pairs. A nil latitude or longitude on either side yields +Inf, so callers
// treating distance thresholds reject points with unknown coordinates.
func DistanceKm(lat1, lng1, lat2, lng2 *float64) float64 {
	if lat1 == nil || lng1 == nil || lat2 == nil || lng2 == nil {
		return math.Inf(1)
	}
	return HaversineKm(*lat1, *lng1, *lat2, *lng2)
}
