package optimization

import (
	"route-optimizer-service/internal/config"
	"route-optimizer-service/internal/ports"
	"time"
)

// Deps carries what the strategies need besides credentials.
type Deps struct {
	// Matrix backs the matrix strategy; nil leaves it unconfigured.
	Matrix        ports.MatrixProvider
	Fallback      ports.RouteOptimizer
	Timeout       time.Duration
	RatePerSecond float64
	SpeedKph      float64
}

// Strategies returns the provider strategies in selection priority:
// trip, then VRP, then matrix. Strategies without credentials are still
// listed and report themselves unconfigured.
func Strategies(cfg config.Providers, deps Deps) []ports.RouteOptimizer {
	opts := func(baseURL string) Options {
		return Options{
			BaseURL:       baseURL,
			Timeout:       deps.Timeout,
			RatePerSecond: deps.RatePerSecond,
			SpeedKph:      deps.SpeedKph,
			Fallback:      deps.Fallback,
		}
	}

	return []ports.RouteOptimizer{
		NewTripOptimizer(cfg.TripToken, opts(cfg.TripBaseURL)),
		NewVRPOptimizer(cfg.VRPKey, opts(cfg.VRPBaseURL)),
		NewMatrixOptimizer(deps.Matrix, opts("")),
	}
}
