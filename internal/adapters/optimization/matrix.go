package optimization

import (
	"context"
	"errors"
	"fmt"
	"log"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/geo"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
)

const MatrixName = "matrix"

// MatrixOptimizer fetches road distances from a matrix backend and
// sequences the stops locally with nearest-neighbor plus 2-opt.
type MatrixOptimizer struct {
	provider ports.MatrixProvider
	speedKph float64
	fallback ports.RouteOptimizer
}

func NewMatrixOptimizer(provider ports.MatrixProvider, opts Options) *MatrixOptimizer {
	opts = opts.withDefaults("")
	return &MatrixOptimizer{
		provider: provider,
		speedKph: opts.SpeedKph,
		fallback: opts.Fallback,
	}
}

func (m *MatrixOptimizer) Name() string     { return MatrixName }
func (m *MatrixOptimizer) Configured() bool { return m.provider != nil }

func (m *MatrixOptimizer) Optimize(ctx context.Context, stops []domain.Stop, constraints domain.RouteConstraints) domain.RouteResult {
	if len(stops) < 2 {
		return m.fallback.Optimize(ctx, stops, constraints)
	}

	res, err := m.solve(ctx, stops, constraints)
	if err != nil {
		return fallBack(ctx, MatrixName, m.fallback, stops, constraints, err)
	}
	return res
}

func (m *MatrixOptimizer) solve(
	ctx context.Context,
	stops []domain.Stop,
	constraints domain.RouteConstraints,
) (_ domain.RouteResult, err error) {
	defer obs.Time(ctx, "matrix.solve")(&err)

	if m.provider == nil {
		return domain.RouteResult{}, errors.New("matrix: no provider configured")
	}

	points := make([]domain.Coordinates, len(stops))
	for i, s := range stops {
		points[i] = s.Coordinates
	}

	cells, err := m.provider.Matrix(ctx, points)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("matrix from %s: %w", m.provider.Name(), err)
	}
	if len(cells) != len(stops) {
		return domain.RouteResult{}, fmt.Errorf("matrix from %s: %d rows for %d stops", m.provider.Name(), len(cells), len(stops))
	}

	km, minutes, estimated := m.fillMatrix(stops, cells)
	if estimated > 0 {
		log.Printf("req_id=%s matrix provider=%s estimated_cells=%d", obs.RequestID(ctx), m.provider.Name(), estimated)
	}

	tour := services.OptimizeTour(km)

	ordered := make([]domain.Stop, len(tour))
	legs := make([]services.Leg, 0, len(tour)-1)
	for k, idx := range tour {
		ordered[k] = stops[idx]
		if k > 0 {
			prev := tour[k-1]
			legs = append(legs, services.Leg{DistanceKm: km[prev][idx], DurationMin: minutes[prev][idx]})
		}
	}

	res, err := services.BuildRoute(MatrixName, ordered, legs)
	if err != nil {
		return domain.RouteResult{}, err
	}
	return services.Finalize(res, constraints), nil
}

// fillMatrix converts provider cells to km and minutes. Missing cells and
// short rows use the Haversine distance at the configured speed.
func (m *MatrixOptimizer) fillMatrix(
	stops []domain.Stop,
	cells [][]*ports.DistanceResult,
) (km [][]float64, minutes [][]float64, estimated int) {
	n := len(stops)
	km = make([][]float64, n)
	minutes = make([][]float64, n)

	for i := range stops {
		km[i] = make([]float64, n)
		minutes[i] = make([]float64, n)
		for j := range stops {
			if i == j {
				continue
			}

			var cell *ports.DistanceResult
			if j < len(cells[i]) {
				cell = cells[i][j]
			}

			if cell == nil {
				d := geo.StopDistanceKm(stops[i], stops[j])
				km[i][j] = d
				minutes[i][j] = services.TravelMinutes(d, m.speedKph)
				estimated++
				continue
			}

			km[i][j] = float64(cell.DistanceMeters) / 1000
			minutes[i][j] = float64(cell.DurationSeconds) / 60
		}
	}

	return km, minutes, estimated
}
