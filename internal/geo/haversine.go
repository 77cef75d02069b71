// Package geo holds the great-circle and emission arithmetic used by every planner.
package geo

import (
	"math"
	"route-optimizer-service/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between a and b.
func DistanceKm(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// StopDistanceKm is DistanceKm over the stops' coordinates.
func StopDistanceKm(a, b domain.Stop) float64 {
	return DistanceKm(a.Coordinates, b.Coordinates)
}

// WithinZone reports whether c lies inside the avoidance zone.
func WithinZone(c domain.Coordinates, zone domain.AvoidZone) bool {
	return DistanceKm(c, zone.Center) <= zone.RadiusKm
}
