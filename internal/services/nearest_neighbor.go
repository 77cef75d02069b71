package services

import (
	"context"
	"math"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/geo"
)

// GreedyName identifies results produced by the greedy planner.
const GreedyName = "greedy"

// GreedyPlanner sequences stops with a nearest-neighbor walk over
// Haversine distances computed on demand.
//
// It needs no credentials and no precomputed matrix, which makes it the
// unconditional last strategy and the fallback of every provider adapter.
// It does not attempt global optimization; determinism and availability
// come first.
type GreedyPlanner struct {
	SpeedKph float64
}

func NewGreedyPlanner(speedKph float64) *GreedyPlanner {
	if speedKph <= 0 {
		speedKph = DefaultAverageSpeedKph
	}
	return &GreedyPlanner{SpeedKph: speedKph}
}

func (g *GreedyPlanner) Name() string { return GreedyName }

// Configured is always true: the greedy planner has no requirements.
func (g *GreedyPlanner) Configured() bool { return true }

func (g *GreedyPlanner) Optimize(_ context.Context, stops []domain.Stop, constraints domain.RouteConstraints) domain.RouteResult {
	return g.Plan(stops, constraints)
}

// Plan starts at stops[0] and repeatedly visits the nearest remaining stop.
// Ties go to the stop listed first. Constraint violations become warnings.
func (g *GreedyPlanner) Plan(stops []domain.Stop, constraints domain.RouteConstraints) domain.RouteResult {
	if len(stops) == 0 {
		res, _ := BuildRoute(GreedyName, nil, nil)
		return res
	}

	remaining := make([]int, 0, len(stops)-1)
	for i := 1; i < len(stops); i++ {
		remaining = append(remaining, i)
	}

	current := stops[0]
	ordered := make([]domain.Stop, 0, len(stops))
	ordered = append(ordered, current)
	legs := make([]Leg, 0, len(stops)-1)

	for len(remaining) > 0 {
		bestPos := -1
		bestKm := math.Inf(1)

		// Select next stop by minimum great-circle distance (greedy step).
		for pos, idx := range remaining {
			km := geo.StopDistanceKm(current, stops[idx])
			if bestPos == -1 || km < bestKm {
				bestPos = pos
				bestKm = km
			}
		}

		next := stops[remaining[bestPos]]
		legs = append(legs, Leg{DistanceKm: bestKm, DurationMin: TravelMinutes(bestKm, g.speed())})
		ordered = append(ordered, next)

		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
		current = next
	}

	// Lengths always line up here; BuildRoute cannot fail.
	res, _ := BuildRoute(GreedyName, ordered, legs)
	return Finalize(res, constraints)
}

func (g *GreedyPlanner) speed() float64 {
	if g.SpeedKph <= 0 {
		return DefaultAverageSpeedKph
	}
	return g.SpeedKph
}
