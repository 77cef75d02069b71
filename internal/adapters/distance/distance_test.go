package distance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/ports"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	london = domain.Coordinates{Lat: 51.5074, Lon: -0.1278}
	leeds  = domain.Coordinates{Lat: 53.8008, Lon: -1.5491}
	york   = domain.Coordinates{Lat: 53.9600, Lon: -1.0873}
)

type memDistanceCache struct {
	mu   sync.Mutex
	rows map[string]map[string]ports.DistanceResult
}

func newMemDistanceCache() *memDistanceCache {
	return &memDistanceCache{rows: map[string]map[string]ports.DistanceResult{}}
}

func (c *memDistanceCache) GetMany(_ context.Context, origin string, dests []string) (map[string]ports.DistanceResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]ports.DistanceResult{}
	for _, d := range dests {
		if r, ok := c.rows[origin][d]; ok {
			out[d] = r
		}
	}
	return out, nil
}

func (c *memDistanceCache) PutMany(_ context.Context, origin string, results map[string]ports.DistanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rows[origin] == nil {
		c.rows[origin] = map[string]ports.DistanceResult{}
	}
	for k, v := range results {
		c.rows[origin][k] = v
	}
	return nil
}

type memGeocodeCache struct {
	m map[string]domain.Coordinates
}

func (c *memGeocodeCache) GetMany(_ context.Context, addrs []string) (map[string]domain.Coordinates, error) {
	out := map[string]domain.Coordinates{}
	for _, a := range addrs {
		if v, ok := c.m[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (c *memGeocodeCache) PutMany(_ context.Context, results map[string]domain.Coordinates) error {
	for k, v := range results {
		c.m[k] = v
	}
	return nil
}

func TestORSMatrixFetchesThenServesFromCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		assert.Equal(t, "/v2/matrix/driving-hgv", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("Authorization"))

		var body matrixRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		if n == 1 {
			assert.Equal(t, []int{0, 1, 2}, body.Sources)
			assert.Equal(t, []float64{london.Lon, london.Lat}, body.Locations[0])
			_, _ = w.Write([]byte(`{
				"distances": [[0, 300000.4, 320000], [300100, 0, null], [319000, 40000, 0]],
				"durations": [[0, 10800, 11500], [10790, 0, null], [11400, 2400, 0]]
			}`))
			return
		}

		// Row 1 had a null cell so it is fetched again; rows 0 and 2 come from cache.
		assert.Equal(t, []int{1}, body.Sources)
		_, _ = w.Write([]byte(`{"distances": [[300100, 0, 41000]], "durations": [[10790, 0, 2500]]}`))
	}))
	defer srv.Close()

	cache := newMemDistanceCache()
	p, err := NewORSDistanceProvider("secret", ORSOptions{BaseURL: srv.URL, DistanceCache: cache})
	require.NoError(t, err)

	points := []domain.Coordinates{london, leeds, york}
	m, err := p.Matrix(context.Background(), points)
	require.NoError(t, err)
	require.Len(t, m, 3)

	assert.Equal(t, 300000, m[0][1].DistanceMeters)
	assert.Equal(t, 10800, m[0][1].DurationSeconds)
	assert.Nil(t, m[1][2], "null cells stay nil")
	assert.Equal(t, 0, m[2][2].DistanceMeters)

	m, err = p.Matrix(context.Background(), points)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 41000, m[1][2].DistanceMeters)
	assert.Equal(t, 320000, m[0][2].DistanceMeters)

	_, err = p.Matrix(context.Background(), points)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "fully cached matrix needs no request")
}

func TestORSMatrixPropagatesStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	p, err := NewORSDistanceProvider("secret", ORSOptions{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = p.Matrix(context.Background(), []domain.Coordinates{london, leeds})
	require.Error(t, err)
}

func TestNewORSDistanceProviderRequiresKey(t *testing.T) {
	_, err := NewORSDistanceProvider("", ORSOptions{})
	require.Error(t, err)
}

func TestORSGeocodeUsesCacheAndSkipsUnresolved(t *testing.T) {
	var (
		mu      sync.Mutex
		queried []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/search", r.URL.Path)
		text := r.URL.Query().Get("text")
		mu.Lock()
		queried = append(queried, text)
		mu.Unlock()
		if strings.Contains(text, "Nowhere") {
			_, _ = w.Write([]byte(`{"features": []}`))
			return
		}
		_, _ = w.Write([]byte(`{"features": [{"geometry": {"coordinates": [-1.5491, 53.8008]}}]}`))
	}))
	defer srv.Close()

	gc := &memGeocodeCache{m: map[string]domain.Coordinates{"1 Main St London": london}}
	p, err := NewORSDistanceProvider("secret", ORSOptions{BaseURL: srv.URL, GeocodeCache: gc})
	require.NoError(t, err)

	got, err := p.Geocode(context.Background(), []string{"1  Main St London", "Leeds Station", "Nowhere Lane", "Leeds Station"})
	require.NoError(t, err)

	mu.Lock()
	assert.Equal(t, []string{"Leeds Station", "Nowhere Lane"}, queried)
	mu.Unlock()
	assert.Equal(t, london, got["1 Main St London"])
	assert.Equal(t, leeds, got["Leeds Station"])
	_, ok := got["Nowhere Lane"]
	assert.False(t, ok)
	assert.Equal(t, leeds, gc.m["Leeds Station"])
}

func TestGoogleMatrixPartialRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/distancematrix/json", r.URL.Path)
		assert.Equal(t, "gkey", r.URL.Query().Get("key"))

		switch r.URL.Query().Get("origins") {
		case latLng(london):
			_, _ = w.Write([]byte(`{"status": "OK", "rows": [{"elements": [
				{"status": "OK", "distance": {"value": 0}, "duration": {"value": 0}},
				{"status": "OK", "distance": {"value": 310000}, "duration": {"value": 11000}},
				{"status": "ZERO_RESULTS"}
			]}]}`))
		case latLng(leeds):
			_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "bad key"}`))
		default:
			_, _ = w.Write([]byte(`{"status": "OK", "rows": [{"elements": [
				{"status": "OK", "distance": {"value": 330000}, "duration": {"value": 12000}},
				{"status": "OK", "distance": {"value": 40000}, "duration": {"value": 2400}},
				{"status": "OK", "distance": {"value": 0}, "duration": {"value": 0}}
			]}]}`))
		}
	}))
	defer srv.Close()

	cache := newMemDistanceCache()
	g, err := NewGoogleMatrixProvider("gkey", GoogleOptions{BaseURL: srv.URL, DistanceCache: cache})
	require.NoError(t, err)

	m, err := g.Matrix(context.Background(), []domain.Coordinates{london, leeds, york})
	require.NoError(t, err)

	assert.Equal(t, 310000, m[0][1].DistanceMeters)
	assert.Nil(t, m[0][2])
	assert.Nil(t, m[1][0], "failed row leaves nil cells")
	assert.Equal(t, 40000, m[2][1].DistanceMeters)

	assert.NotEmpty(t, cache.rows[york.Key()])
	assert.Empty(t, cache.rows[leeds.Key()])
}

func TestGoogleMatrixFailsWhenEveryRowFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g, err := NewGoogleMatrixProvider("gkey", GoogleOptions{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = g.Matrix(context.Background(), []domain.Coordinates{london, leeds})
	require.Error(t, err)
}

func TestLookupCachedTreatsDuplicatePointsAsZero(t *testing.T) {
	m, missing := lookupCached(context.Background(), nil, []domain.Coordinates{london, london})
	assert.Empty(t, missing)
	assert.Equal(t, 0, m[0][1].DistanceMeters)
	assert.Equal(t, 0, m[1][0].DistanceMeters)
}

func TestMockMatrixProvider(t *testing.T) {
	p := NewMockMatrixProvider([]MockPair{{From: london, To: leeds, Meters: 1000, Seconds: 60}}).
		WithAddress("Leeds", leeds)

	m, err := p.Matrix(context.Background(), []domain.Coordinates{london, leeds})
	require.NoError(t, err)
	assert.Equal(t, 1000, m[0][1].DistanceMeters)
	assert.Nil(t, m[1][0])

	got, err := p.Geocode(context.Background(), []string{" Leeds ", "Paris"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{"Leeds": leeds}, got)
}
