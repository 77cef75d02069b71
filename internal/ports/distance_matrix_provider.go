package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// Contract for all-pairs road distance lookups.
type MatrixProvider interface {
	// Return an n×n matrix for the given points. A nil cell means the backend
	// had no answer for that pair; callers substitute their own estimate.
	Matrix(ctx context.Context, points []domain.Coordinates) ([][]*DistanceResult, error)
	// Provider name used in logs and metrics.
	Name() string
}
