package distance

import (
	"errors"
	"route-optimizer-service/internal/platform/httpclient"
	"route-optimizer-service/internal/ports"
	"strings"
	"time"
)

// ORSDistanceProvider implements MatrixProvider and Geocoder using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - Persistent distance matrix caching
//   - External API calls (geocoding is retried with backoff, matrix calls are not)
//
// The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	client        *httpclient.Client
	apiKey        string
	baseURL       string
	profile       string
	country       string
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
}

// ORSOptions tunes an ORSDistanceProvider; zero values select defaults.
type ORSOptions struct {
	BaseURL       string
	Profile       string
	Country       string
	Timeout       time.Duration
	RatePerSecond float64
	DistanceCache ports.DistanceCache
	GeocodeCache  ports.GeocodeCache
}

func NewORSDistanceProvider(apiKey string, opts ORSOptions) (*ORSDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openrouteservice.org"
	}
	if opts.Profile == "" {
		opts.Profile = "driving-hgv"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	provider := &ORSDistanceProvider{
		client:        httpclient.New("ors", opts.Timeout, opts.RatePerSecond),
		apiKey:        apiKey,
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		profile:       opts.Profile,
		country:       opts.Country,
		distanceCache: opts.DistanceCache,
		geocodeCache:  opts.GeocodeCache,
	}

	return provider, nil
}

func (o *ORSDistanceProvider) Name() string { return "ors" }

// normalize ensures consistent cache keys by collapsing whitespace.
func (o *ORSDistanceProvider) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
