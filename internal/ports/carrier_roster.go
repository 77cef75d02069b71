package ports

import (
	"context"
	"route-optimizer-service/internal/domain"
)

// Port: a boundary for retrieving the carrier reference roster.
type CarrierRoster interface {
	// Return every carrier in roster order.
	ListCarriers(ctx context.Context) ([]domain.Carrier, error)
}
