package optimization

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/httpclient"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
	"strings"
)

const VRPName = "vrp"

// VRPOptimizer solves a single-vehicle problem with a VROOM-compatible
// optimization endpoint (openrouteservice /optimization). The first and last
// stops are the vehicle's start and end; every stop in between is a job.
type VRPOptimizer struct {
	client   *httpclient.Client
	apiKey   string
	baseURL  string
	profile  string
	speedKph float64
	fallback ports.RouteOptimizer
}

type vrpVehicle struct {
	ID       int       `json:"id"`
	Profile  string    `json:"profile"`
	Start    []float64 `json:"start"`
	End      []float64 `json:"end"`
	Capacity []int     `json:"capacity,omitempty"`
	// Seconds of driving allowed; job time windows stay on the wall clock.
	MaxTravelTime int `json:"max_travel_time,omitempty"`
}

type vrpJob struct {
	ID          int       `json:"id"`
	Location    []float64 `json:"location"`
	Service     int       `json:"service"`
	Delivery    []int     `json:"delivery,omitempty"`
	TimeWindows [][]int   `json:"time_windows,omitempty"`
}

type vrpRequest struct {
	Jobs     []vrpJob     `json:"jobs"`
	Vehicles []vrpVehicle `json:"vehicles"`
}

type vrpStep struct {
	Type     string   `json:"type"`
	ID       int      `json:"id"`
	Distance *float64 `json:"distance"`
	Duration *float64 `json:"duration"`
}

type vrpResponse struct {
	Code       int    `json:"code"`
	Error      string `json:"error"`
	Unassigned []struct {
		ID int `json:"id"`
	} `json:"unassigned"`
	Routes []struct {
		Vehicle int       `json:"vehicle"`
		Steps   []vrpStep `json:"steps"`
	} `json:"routes"`
}

func NewVRPOptimizer(apiKey string, opts Options) *VRPOptimizer {
	opts = opts.withDefaults("https://api.openrouteservice.org")
	return &VRPOptimizer{
		client:   httpclient.New(VRPName, opts.Timeout, opts.RatePerSecond),
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		profile:  "driving-hgv",
		speedKph: opts.SpeedKph,
		fallback: opts.Fallback,
	}
}

func (v *VRPOptimizer) Name() string     { return VRPName }
func (v *VRPOptimizer) Configured() bool { return v.apiKey != "" }

// Optimize sends routes with at least one job to the provider. Two stops
// leave nothing to sequence and go straight to the fallback.
func (v *VRPOptimizer) Optimize(ctx context.Context, stops []domain.Stop, constraints domain.RouteConstraints) domain.RouteResult {
	if len(stops) < 3 {
		return v.fallback.Optimize(ctx, stops, constraints)
	}

	res, err := v.solve(ctx, stops, constraints)
	if err != nil {
		return fallBack(ctx, VRPName, v.fallback, stops, constraints, err)
	}
	return res
}

func (v *VRPOptimizer) solve(
	ctx context.Context,
	stops []domain.Stop,
	constraints domain.RouteConstraints,
) (_ domain.RouteResult, err error) {
	defer obs.Time(ctx, "vrp.solve")(&err)

	body, err := buildVRPRequest(stops, constraints, v.profile)
	if err != nil {
		return domain.RouteResult{}, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return domain.RouteResult{}, fmt.Errorf("marshal vrp request: %w", err)
	}

	req, err := v.client.NewRequest(ctx, http.MethodPost, v.baseURL+"/optimization", bytes.NewReader(payload))
	if err != nil {
		return domain.RouteResult{}, err
	}
	req.Header.Set("Authorization", v.apiKey)

	var vr vrpResponse
	if err := v.client.DoJSON(req, &vr); err != nil {
		return domain.RouteResult{}, fmt.Errorf("vrp request failed: %w", err)
	}

	ordered, legs, skipped, err := parseVRP(stops, vr, v.speedKph)
	if err != nil {
		return domain.RouteResult{}, err
	}

	res, err := services.BuildRoute(VRPName, ordered, legs)
	if err != nil {
		return domain.RouteResult{}, err
	}
	if skipped > 0 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("%d stops could not be included", skipped))
	}
	return services.Finalize(res, constraints), nil
}

// buildVRPRequest describes one vehicle and a job per interior stop. Job
// ids are input indexes. Amounts are integers in VROOM, so capacity rounds
// down and demand rounds up.
func buildVRPRequest(stops []domain.Stop, c domain.RouteConstraints, profile string) (vrpRequest, error) {
	first, last := stops[0], stops[len(stops)-1]

	vehicle := vrpVehicle{
		ID:      0,
		Profile: profile,
		Start:   first.Coordinates.CoordsToList(),
		End:     last.Coordinates.CoordsToList(),
	}
	if c.VehicleCapacity != nil {
		vehicle.Capacity = []int{int(math.Floor(*c.VehicleCapacity))}
	}
	if c.MaxDrivingTimeMin != nil {
		vehicle.MaxTravelTime = int(*c.MaxDrivingTimeMin * 60)
	}

	jobs := make([]vrpJob, 0, len(stops)-2)
	for i := 1; i < len(stops)-1; i++ {
		s := stops[i].WithDefaults()
		job := vrpJob{
			ID:       i,
			Location: s.Coordinates.CoordsToList(),
			Service:  int(s.ServiceMinutes * 60),
		}
		if c.VehicleCapacity != nil {
			job.Delivery = []int{int(math.Ceil(s.Demand))}
		}
		if s.TimeWindow != nil {
			start, end, err := s.TimeWindow.Seconds()
			if err != nil {
				return vrpRequest{}, fmt.Errorf("stop %d: %w", i, err)
			}
			job.TimeWindows = [][]int{{start, end}}
		}
		jobs = append(jobs, job)
	}

	return vrpRequest{Jobs: jobs, Vehicles: []vrpVehicle{vehicle}}, nil
}

// parseVRP rebuilds the visit order from the job steps of the first route,
// keeping the start and end stops fixed. It returns the number of jobs the
// solver left unassigned.
func parseVRP(stops []domain.Stop, vr vrpResponse, speedKph float64) ([]domain.Stop, []services.Leg, int, error) {
	if vr.Code != 0 {
		return nil, nil, 0, fmt.Errorf("vrp: code %d: %s", vr.Code, vr.Error)
	}
	if len(vr.Routes) == 0 {
		return nil, nil, 0, fmt.Errorf("vrp: response has no routes")
	}

	n := len(stops)
	ordered := []domain.Stop{stops[0]}
	visited := []*vrpStep{nil}
	seen := make(map[int]bool, n)

	steps := vr.Routes[0].Steps
	for k := range steps {
		st := &steps[k]
		switch st.Type {
		case "start":
			visited[0] = st
		case "job":
			if st.ID < 1 || st.ID > n-2 || seen[st.ID] {
				return nil, nil, 0, fmt.Errorf("vrp: unexpected job id %d", st.ID)
			}
			seen[st.ID] = true
			ordered = append(ordered, stops[st.ID])
			visited = append(visited, st)
		}
	}

	var end *vrpStep
	for k := range steps {
		if steps[k].Type == "end" {
			end = &steps[k]
		}
	}
	ordered = append(ordered, stops[n-1])
	visited = append(visited, end)

	if len(seen)+len(vr.Unassigned) != n-2 {
		return nil, nil, 0, fmt.Errorf("vrp: %d jobs routed and %d unassigned out of %d",
			len(seen), len(vr.Unassigned), n-2)
	}

	legs := make([]services.Leg, len(ordered)-1)
	for i := range legs {
		est := services.EstimatedLeg(ordered[i], ordered[i+1], speedKph)
		from, to := visited[i], visited[i+1]

		// Step distance and duration are cumulative from the route start.
		if from != nil && to != nil && from.Distance != nil && to.Distance != nil {
			est.DistanceKm = (*to.Distance - *from.Distance) / 1000
		}
		if from != nil && to != nil && from.Duration != nil && to.Duration != nil {
			est.DurationMin = (*to.Duration - *from.Duration) / 60
		}
		legs[i] = est
	}

	return ordered, legs, len(vr.Unassigned), nil
}
