package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves addresses to coordinates, consulting the geocode cache
// first. The result is keyed by the whitespace-normalized address; addresses
// ORS cannot resolve are left out rather than failing the batch.
func (o *ORSDistanceProvider) Geocode(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	needed := make([]string, 0, len(addresses))
	seen := make(map[string]struct{}, len(addresses))
	for _, a := range addresses {
		n := o.normalize(a)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		needed = append(needed, n)
	}

	out := make(map[string]domain.Coordinates, len(needed))
	if len(needed) == 0 {
		return out, nil
	}

	// Resolve coordinates via cache before calling ORS geocoding.
	if o.geocodeCache != nil {
		hits, err := o.geocodeCache.GetMany(ctx, needed)
		if err != nil {
			log.Printf("geocode cache read failed: %v", err)
		}
		for k, v := range hits {
			out[k] = v
		}
	}

	misses := make([]string, 0, len(needed))
	for _, a := range needed {
		if _, ok := out[a]; !ok {
			misses = append(misses, a)
		}
	}

	if len(misses) == 0 {
		return out, nil
	}

	fresh, err := o.geocodeMany(ctx, misses)
	if err != nil {
		return nil, fmt.Errorf("retrieving coordinates: %w", err)
	}

	if o.geocodeCache != nil && len(fresh) > 0 {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	for k, v := range fresh {
		out[k] = v
	}

	return out, nil
}

// geocodeMany resolves addresses individually using OpenRouteService (/geocode/search).
// Calls may be retried via DoWithRetry.
func (o *ORSDistanceProvider) geocodeMany(
	ctx context.Context,
	addresses []string,
) (map[string]domain.Coordinates, error) {
	endpoint := o.baseURL + "/geocode/search"

	out := make(map[string]domain.Coordinates)
	for _, a := range addresses {
		resp, err := o.client.DoWithRetry(ctx, func() (*http.Request, error) {
			req, err := o.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", o.apiKey)

			q := req.URL.Query()
			q.Set("text", a)
			if o.country != "" {
				q.Set("boundary.country", o.country)
			}
			q.Set("size", "1")
			req.URL.RawQuery = q.Encode()
			return req, nil
		})
		if err != nil {
			return nil, fmt.Errorf("execute request: %w", err)
		}

		var decoded geocodeResponse
		err = json.NewDecoder(resp.Body).Decode(&decoded)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode geocode response: %w", err)
		}

		if len(decoded.Features) == 0 {
			log.Printf("geocode: no results for %q", a)
			continue
		}

		coords := decoded.Features[0].Geometry.Coordinates
		if len(coords) != 2 {
			log.Printf("geocode: invalid coordinate format for %q", a)
			continue
		}

		out[a] = domain.Coordinates{
			Lon: coords[0],
			Lat: coords[1],
		}
	}

	return out, nil
}
