package optimization

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/httpclient"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
	"sort"
	"strconv"
	"strings"
)

const (
	TripName = "trip"
	// The optimized-trips endpoint accepts at most 12 coordinates.
	tripMaxStops = 12
)

// TripOptimizer sequences stops with the Mapbox Optimization API (v1).
// The first stop is the fixed origin and the last the fixed destination.
type TripOptimizer struct {
	client   *httpclient.Client
	token    string
	baseURL  string
	profile  string
	fallback ports.RouteOptimizer
}

type tripResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Trips   []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Legs     []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"legs"`
	} `json:"trips"`
	Waypoints []struct {
		WaypointIndex int `json:"waypoint_index"`
		TripsIndex    int `json:"trips_index"`
	} `json:"waypoints"`
}

func NewTripOptimizer(token string, opts Options) *TripOptimizer {
	opts = opts.withDefaults("https://api.mapbox.com")
	return &TripOptimizer{
		client:   httpclient.New(TripName, opts.Timeout, opts.RatePerSecond),
		token:    token,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		profile:  "mapbox/driving",
		fallback: opts.Fallback,
	}
}

func (t *TripOptimizer) Name() string     { return TripName }
func (t *TripOptimizer) Configured() bool { return t.token != "" }

func (t *TripOptimizer) Optimize(ctx context.Context, stops []domain.Stop, constraints domain.RouteConstraints) domain.RouteResult {
	if len(stops) < 2 {
		return t.fallback.Optimize(ctx, stops, constraints)
	}

	res, err := t.solve(ctx, stops, constraints)
	if err != nil {
		return fallBack(ctx, TripName, t.fallback, stops, constraints, err)
	}
	return res
}

func (t *TripOptimizer) solve(
	ctx context.Context,
	stops []domain.Stop,
	constraints domain.RouteConstraints,
) (_ domain.RouteResult, err error) {
	defer obs.Time(ctx, "trip.solve")(&err)

	if len(stops) > tripMaxStops {
		return domain.RouteResult{}, fmt.Errorf("trip: %d stops exceed the limit of %d", len(stops), tripMaxStops)
	}

	endpoint, err := t.endpoint(stops)
	if err != nil {
		return domain.RouteResult{}, err
	}

	req, err := t.client.NewRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.RouteResult{}, err
	}

	var tr tripResponse
	if err := t.client.DoJSON(req, &tr); err != nil {
		return domain.RouteResult{}, fmt.Errorf("trip request failed: %w", err)
	}

	ordered, legs, err := parseTrip(stops, tr)
	if err != nil {
		return domain.RouteResult{}, err
	}

	res, err := services.BuildRoute(TripName, ordered, legs)
	if err != nil {
		return domain.RouteResult{}, err
	}
	return services.Finalize(res, constraints), nil
}

// endpoint builds the request URL including time-window distributions.
func (t *TripOptimizer) endpoint(stops []domain.Stop) (string, error) {
	coords := make([]string, len(stops))
	for i, s := range stops {
		coords[i] = strconv.FormatFloat(s.Coordinates.Lon, 'f', 6, 64) + "," +
			strconv.FormatFloat(s.Coordinates.Lat, 'f', 6, 64)
	}

	q := url.Values{}
	q.Set("access_token", t.token)
	q.Set("source", "first")
	q.Set("destination", "last")
	q.Set("roundtrip", "false")
	q.Set("annotations", "distance,duration")

	dist, err := distributions(stops)
	if err != nil {
		return "", err
	}
	if dist != "" {
		q.Set("distributions", dist)
	}

	return fmt.Sprintf("%s/optimized-trips/v1/%s/%s?%s",
		t.baseURL, t.profile, strings.Join(coords, ";"), q.Encode()), nil
}

// distributions chains stops that carry time windows in order of window
// start, as "a,b;b,c" pickup/dropoff pairs. Fewer than two windows give "".
func distributions(stops []domain.Stop) (string, error) {
	type windowed struct {
		idx   int
		start int
	}

	var ws []windowed
	for i, s := range stops {
		if s.TimeWindow == nil {
			continue
		}
		start, _, err := s.TimeWindow.Seconds()
		if err != nil {
			return "", fmt.Errorf("stop %d: %w", i, err)
		}
		ws = append(ws, windowed{idx: i, start: start})
	}

	if len(ws) < 2 {
		return "", nil
	}

	sort.SliceStable(ws, func(a, b int) bool { return ws[a].start < ws[b].start })

	pairs := make([]string, 0, len(ws)-1)
	for k := 0; k+1 < len(ws); k++ {
		pairs = append(pairs, strconv.Itoa(ws[k].idx)+","+strconv.Itoa(ws[k+1].idx))
	}
	return strings.Join(pairs, ";"), nil
}

// parseTrip maps the trip response back onto the input stops. Waypoint i
// describes input stop i; its waypoint_index is the stop's visit position.
func parseTrip(stops []domain.Stop, tr tripResponse) ([]domain.Stop, []services.Leg, error) {
	if tr.Code != "Ok" {
		return nil, nil, fmt.Errorf("trip: code %q: %s", tr.Code, tr.Message)
	}
	if len(tr.Trips) == 0 {
		return nil, nil, fmt.Errorf("trip: response has no trips")
	}
	if len(tr.Waypoints) != len(stops) {
		return nil, nil, fmt.Errorf("trip: %d waypoints for %d stops", len(tr.Waypoints), len(stops))
	}

	trip := tr.Trips[0]
	if len(trip.Legs) != len(stops)-1 {
		return nil, nil, fmt.Errorf("trip: %d legs for %d stops", len(trip.Legs), len(stops))
	}

	ordered := make([]domain.Stop, len(stops))
	placed := make([]bool, len(stops))
	for i, wp := range tr.Waypoints {
		pos := wp.WaypointIndex
		if pos < 0 || pos >= len(stops) || placed[pos] {
			return nil, nil, fmt.Errorf("trip: invalid waypoint_index %d", pos)
		}
		placed[pos] = true
		ordered[pos] = stops[i]
	}

	legs := make([]services.Leg, len(trip.Legs))
	for i, l := range trip.Legs {
		legs[i] = services.Leg{DistanceKm: l.Distance / 1000, DurationMin: l.Duration / 60}
	}

	return ordered, legs, nil
}
