package services

import (
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/geo"
)

// DefaultAverageSpeedKph is the flat road speed used to estimate leg
// durations when no provider supplies one.
const DefaultAverageSpeedKph = 50.0

// Leg is the travel figure between two consecutive stops of an ordered route.
type Leg struct {
	DistanceKm  float64
	DurationMin float64
}

// TravelMinutes estimates driving time for distanceKm at speedKph.
func TravelMinutes(distanceKm, speedKph float64) float64 {
	if speedKph <= 0 {
		speedKph = DefaultAverageSpeedKph
	}
	return distanceKm / speedKph * 60
}

// EstimatedLeg is the Haversine leg between a and b at speedKph.
func EstimatedLeg(a, b domain.Stop, speedKph float64) Leg {
	km := geo.StopDistanceKm(a, b)
	return Leg{DistanceKm: km, DurationMin: TravelMinutes(km, speedKph)}
}

// BuildRoute assembles a RouteResult from an ordered stop list and the legs
// between them. Totals are summed from the segments, so the result always
// satisfies sum(segments) == totals.
func BuildRoute(provider string, ordered []domain.Stop, legs []Leg) (domain.RouteResult, error) {
	if len(ordered) == 0 {
		if len(legs) != 0 {
			return domain.RouteResult{}, fmt.Errorf("build route: %d legs for an empty route", len(legs))
		}
		return domain.RouteResult{Provider: provider, Stops: []domain.Stop{}, Segments: []domain.RouteSegment{}}, nil
	}

	if len(legs) != len(ordered)-1 {
		return domain.RouteResult{}, fmt.Errorf(
			"build route: %d stops need %d legs, got %d",
			len(ordered), len(ordered)-1, len(legs),
		)
	}

	res := domain.RouteResult{
		Provider: provider,
		Stops:    append([]domain.Stop(nil), ordered...),
		Segments: make([]domain.RouteSegment, 0, len(legs)),
	}

	for i, leg := range legs {
		seg := domain.RouteSegment{
			From:        ordered[i],
			To:          ordered[i+1],
			DistanceKm:  leg.DistanceKm,
			DurationMin: leg.DurationMin,
			CO2Kg:       geo.CO2Kg(leg.DistanceKm, domain.ModeRoad),
			Mode:        domain.ModeRoad,
		}
		res.Segments = append(res.Segments, seg)
		res.TotalDistanceKm += seg.DistanceKm
		res.TotalDurationMin += seg.DurationMin
		res.TotalCO2Kg += seg.CO2Kg
	}

	return res, nil
}
