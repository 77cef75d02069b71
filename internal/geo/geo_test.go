package geo

import (
	"math"
	"route-optimizer-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	brighton   = domain.Coordinates{Lat: 50.8225, Lon: -0.1372}
	manchester = domain.Coordinates{Lat: 53.4808, Lon: -2.2426}
	bristol    = domain.Coordinates{Lat: 51.4545, Lon: -2.5879}
)

func TestDistanceKm_SymmetricAndZero(t *testing.T) {
	points := []domain.Coordinates{brighton, manchester, bristol, {Lat: -33.86, Lon: 151.21}, {Lat: 0, Lon: 179.9}}

	for _, a := range points {
		assert.InDelta(t, 0, DistanceKm(a, a), 1e-9)
		for _, b := range points {
			assert.InDelta(t, DistanceKm(a, b), DistanceKm(b, a), 1e-9)
		}
	}
}

func TestDistanceKm_KnownPair(t *testing.T) {
	// Brighton -> Manchester is roughly 330 km as the crow flies.
	d := DistanceKm(brighton, manchester)
	require.Greater(t, d, 320.0)
	require.Less(t, d, 340.0)

	// One degree of latitude along a meridian.
	oneDeg := DistanceKm(domain.Coordinates{Lat: 0, Lon: 0}, domain.Coordinates{Lat: 1, Lon: 0})
	assert.InDelta(t, EarthRadiusKm*math.Pi/180, oneDeg, 1e-6)
}

func TestCO2Kg(t *testing.T) {
	assert.InDelta(t, 98.0, CO2Kg(100, domain.ModeRoad), 1e-9)
	assert.InDelta(t, 2.7, CO2Kg(100, domain.ModeRail), 1e-9)
	assert.InDelta(t, 1.6, CO2Kg(100, domain.ModeSea), 1e-9)
	assert.InDelta(t, 98.0, CO2Kg(100, "air"), 1e-9)
	assert.Zero(t, CO2Kg(0, domain.ModeRoad))
}

func TestWithinZone(t *testing.T) {
	zone := domain.AvoidZone{Center: bristol, RadiusKm: 5}
	assert.True(t, WithinZone(bristol, zone))
	assert.False(t, WithinZone(manchester, zone))
}
