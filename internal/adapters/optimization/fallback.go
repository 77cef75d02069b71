// Package optimization holds the external route-optimization strategies.
//
// Every adapter implements ports.RouteOptimizer. A failed provider call is
// never surfaced to the caller: it is logged, counted and answered by the
// adapter's fallback, which is the greedy planner unless told otherwise.
package optimization

import (
	"context"
	"log"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/metrics"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
	"time"
)

// Options holds the settings shared by all provider adapters.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	// SpeedKph estimates durations where the provider gives none.
	SpeedKph float64
	// Fallback answers requests the provider cannot. Defaults to greedy.
	Fallback ports.RouteOptimizer
}

func (o Options) withDefaults(baseURL string) Options {
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.SpeedKph <= 0 {
		o.SpeedKph = services.DefaultAverageSpeedKph
	}
	if o.Fallback == nil {
		o.Fallback = services.NewGreedyPlanner(o.SpeedKph)
	}
	return o
}

// fallBack records a provider failure and hands the request over.
func fallBack(
	ctx context.Context,
	provider string,
	fallback ports.RouteOptimizer,
	stops []domain.Stop,
	constraints domain.RouteConstraints,
	err error,
) domain.RouteResult {
	log.Printf("req_id=%s provider=%s fallback=%s err=%v", obs.RequestID(ctx), provider, fallback.Name(), err)
	metrics.ProviderFallbacks.WithLabelValues(provider).Inc()
	return fallback.Optimize(ctx, stops, constraints)
}
