package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// Distance and travel duration between two locations.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
}

// Contract for resolving free-text addresses to coordinates.
type Geocoder interface {
	// Return coordinates keyed by the (normalized) address. Addresses that
	// cannot be resolved are omitted; an error means the lookup itself failed.
	Geocode(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
}
