package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// RouteOptimizer is one route-optimization strategy.
//
// Optimize never fails: implementations backed by an external service catch
// their own errors and hand the request to a local fallback, so the caller
// always receives a usable RouteResult.
type RouteOptimizer interface {
	Name() string
	// Configured reports whether the credentials this strategy needs are present.
	Configured() bool
	Optimize(ctx context.Context, stops []domain.Stop, constraints domain.RouteConstraints) domain.RouteResult
}
