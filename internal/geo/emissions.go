package geo

import "route-optimizer-service/internal/domain"

// Emission factors in kg CO2 per km.
const (
	RoadKgPerKm = 0.98 // heavy goods vehicle average
	RailKgPerKm = 0.027
	SeaKgPerKm  = 0.016
)

// CO2Kg converts a travelled distance into emitted CO2.
// Unknown modes are charged at the road factor.
func CO2Kg(distanceKm float64, mode domain.TransportMode) float64 {
	switch mode {
	case domain.ModeRail:
		return distanceKm * RailKgPerKm
	case domain.ModeSea:
		return distanceKm * SeaKgPerKm
	default:
		return distanceKm * RoadKgPerKm
	}
}
