package services

import (
	"context"
	"log"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/metrics"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
)

// Orchestrator is the single entry point for route optimization.
//
// Strategies are held in priority order; the first one whose credentials
// are configured handles the request. The fallback (normally the greedy
// planner) runs when none is configured.
type Orchestrator struct {
	strategies []ports.RouteOptimizer
	fallback   ports.RouteOptimizer
}

func NewOrchestrator(fallback ports.RouteOptimizer, strategies ...ports.RouteOptimizer) *Orchestrator {
	if fallback == nil {
		fallback = NewGreedyPlanner(DefaultAverageSpeedKph)
	}
	return &Orchestrator{
		strategies: append([]ports.RouteOptimizer(nil), strategies...),
		fallback:   fallback,
	}
}

// Select returns the strategy that would handle the next request.
func (o *Orchestrator) Select() ports.RouteOptimizer {
	for _, s := range o.strategies {
		if s != nil && s.Configured() {
			return s
		}
	}
	return o.fallback
}

// OptimizeRoute drops ungeocoded stops, dispatches to exactly one strategy
// and returns its result unmodified.
func (o *Orchestrator) OptimizeRoute(
	ctx context.Context,
	stops []domain.Stop,
	constraints domain.RouteConstraints,
) domain.RouteResult {
	s := o.Select()
	defer obs.Time(ctx, "optimize."+s.Name())(nil)

	resolved := ResolvableStops(stops)
	if dropped := len(stops) - len(resolved); dropped > 0 {
		log.Printf("req_id=%s optimize: dropped %d ungeocoded stops", obs.RequestID(ctx), dropped)
	}

	metrics.RouteOptimizations.WithLabelValues(s.Name()).Inc()
	return s.Optimize(ctx, resolved, constraints)
}

// ResolvableStops keeps stops with real coordinates and applies defaults.
func ResolvableStops(stops []domain.Stop) []domain.Stop {
	out := make([]domain.Stop, 0, len(stops))
	for _, s := range stops {
		if !s.Geocoded() {
			continue
		}
		out = append(out, s.WithDefaults())
	}
	return out
}
