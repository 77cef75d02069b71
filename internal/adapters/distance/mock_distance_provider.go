package distance

import (
	"context"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"strings"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   int
	Seconds  int
}

// MockMatrixProvider answers matrix and geocode lookups from fixed tables.
// Pairs that are not listed come back as nil cells.
type MockMatrixProvider struct {
	m         map[string]ports.DistanceResult
	addresses map[string]domain.Coordinates
	Err       error
	Calls     int
}

func NewMockMatrixProvider(pairs []MockPair) *MockMatrixProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From.Key()+"|"+p.To.Key()] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockMatrixProvider{m: m, addresses: map[string]domain.Coordinates{}}
}

// WithAddress registers an address the mock can geocode.
func (p *MockMatrixProvider) WithAddress(address string, c domain.Coordinates) *MockMatrixProvider {
	p.addresses[strings.Join(strings.Fields(address), " ")] = c
	return p
}

func (p *MockMatrixProvider) Name() string { return "mock" }

func (p *MockMatrixProvider) Matrix(ctx context.Context, points []domain.Coordinates) ([][]*ports.DistanceResult, error) {
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}

	out := make([][]*ports.DistanceResult, len(points))
	for i, from := range points {
		out[i] = make([]*ports.DistanceResult, len(points))
		for j, to := range points {
			if i == j {
				out[i][j] = &ports.DistanceResult{}
				continue
			}
			if r, ok := p.m[from.Key()+"|"+to.Key()]; ok {
				r := r
				out[i][j] = &r
			}
		}
	}

	return out, nil
}

func (p *MockMatrixProvider) Geocode(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	if p.Err != nil {
		return nil, fmt.Errorf("geocode: %w", p.Err)
	}

	out := make(map[string]domain.Coordinates, len(addresses))
	for _, a := range addresses {
		n := strings.Join(strings.Fields(a), " ")
		if c, ok := p.addresses[n]; ok {
			out[n] = c
		}
	}
	return out, nil
}
