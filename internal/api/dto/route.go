package dto

import (
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"strings"
)

type TimeWindowRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// StopRequest is one stop as posted by a client. Leaving lat and lon at
// zero asks the service to geocode the address.
type StopRequest struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Lat            float64            `json:"lat"`
	Lon            float64            `json:"lon"`
	Address        string             `json:"address"`
	TimeWindow     *TimeWindowRequest `json:"time_window"`
	ServiceMinutes float64            `json:"service_minutes"`
	Demand         float64            `json:"demand"`
}

type AvoidZoneRequest struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	RadiusKm float64 `json:"radius_km"`
}

type ConstraintsRequest struct {
	VehicleCapacity       *float64           `json:"vehicle_capacity"`
	MaxDrivingTimeMin     *float64           `json:"max_driving_time_min"`
	MaxDistanceKm         *float64           `json:"max_distance_km"`
	ADRClass              string             `json:"adr_class"`
	TemperatureControlled bool               `json:"temperature_controlled"`
	TunnelRestrictions    []string           `json:"tunnel_restrictions"`
	AvoidZones            []AvoidZoneRequest `json:"avoid_zones"`
}

type OptimizeRouteRequest struct {
	Stops       []StopRequest       `json:"stops"`
	Constraints *ConstraintsRequest `json:"constraints"`
}

// ToDomain validates the stop and converts it.
func (s StopRequest) ToDomain() (domain.Stop, error) {
	if s.Lat < -90 || s.Lat > 90 || s.Lon < -180 || s.Lon > 180 {
		return domain.Stop{}, fmt.Errorf("coordinates %.5f,%.5f out of range", s.Lat, s.Lon)
	}
	if s.ServiceMinutes < 0 {
		return domain.Stop{}, errors.New("service_minutes must not be negative")
	}
	if s.Demand < 0 {
		return domain.Stop{}, errors.New("demand must not be negative")
	}

	stop := domain.Stop{
		ID:             strings.TrimSpace(s.ID),
		Name:           strings.TrimSpace(s.Name),
		Coordinates:    domain.Coordinates{Lat: s.Lat, Lon: s.Lon},
		Address:        strings.TrimSpace(s.Address),
		ServiceMinutes: s.ServiceMinutes,
		Demand:         s.Demand,
	}

	if s.TimeWindow != nil {
		tw := domain.TimeWindow{Start: s.TimeWindow.Start, End: s.TimeWindow.End}
		if _, _, err := tw.Seconds(); err != nil {
			return domain.Stop{}, err
		}
		stop.TimeWindow = &tw
	}

	return stop, nil
}

// ToDomain converts constraints; a nil receiver means unconstrained.
func (c *ConstraintsRequest) ToDomain() (domain.RouteConstraints, error) {
	if c == nil {
		return domain.RouteConstraints{}, nil
	}

	for name, v := range map[string]*float64{
		"vehicle_capacity":     c.VehicleCapacity,
		"max_driving_time_min": c.MaxDrivingTimeMin,
		"max_distance_km":      c.MaxDistanceKm,
	} {
		if v != nil && *v < 0 {
			return domain.RouteConstraints{}, fmt.Errorf("%s must not be negative", name)
		}
	}

	out := domain.RouteConstraints{
		VehicleCapacity:       c.VehicleCapacity,
		MaxDrivingTimeMin:     c.MaxDrivingTimeMin,
		MaxDistanceKm:         c.MaxDistanceKm,
		ADRClass:              strings.TrimSpace(c.ADRClass),
		TemperatureControlled: c.TemperatureControlled,
		TunnelRestrictions:    c.TunnelRestrictions,
	}

	for _, z := range c.AvoidZones {
		if z.RadiusKm <= 0 {
			return domain.RouteConstraints{}, errors.New("avoid_zones radius_km must be positive")
		}
		out.AvoidZones = append(out.AvoidZones, domain.AvoidZone{
			Center:   domain.Coordinates{Lat: z.Lat, Lon: z.Lon},
			RadiusKm: z.RadiusKm,
		})
	}

	return out, nil
}

type StopResponse struct {
	ID             string             `json:"id,omitempty"`
	Name           string             `json:"name,omitempty"`
	Lat            float64            `json:"lat"`
	Lon            float64            `json:"lon"`
	Address        string             `json:"address,omitempty"`
	TimeWindow     *TimeWindowRequest `json:"time_window,omitempty"`
	ServiceMinutes float64            `json:"service_minutes"`
	Demand         float64            `json:"demand"`
}

type SegmentResponse struct {
	From        StopResponse `json:"from"`
	To          StopResponse `json:"to"`
	DistanceKm  float64      `json:"distance_km"`
	DurationMin float64      `json:"duration_min"`
	CO2Kg       float64      `json:"co2_kg"`
	Mode        string       `json:"mode"`
}

type RouteResponse struct {
	Provider         string            `json:"provider"`
	Stops            []StopResponse    `json:"stops"`
	Segments         []SegmentResponse `json:"segments"`
	TotalDistanceKm  float64           `json:"total_distance_km"`
	TotalDurationMin float64           `json:"total_duration_min"`
	TotalCO2Kg       float64           `json:"total_co2_kg"`
	Warnings         []string          `json:"warnings"`
}

func newStopResponse(s domain.Stop) StopResponse {
	out := StopResponse{
		ID:             s.ID,
		Name:           s.Name,
		Lat:            s.Coordinates.Lat,
		Lon:            s.Coordinates.Lon,
		Address:        s.Address,
		ServiceMinutes: s.ServiceMinutes,
		Demand:         s.Demand,
	}
	if s.TimeWindow != nil {
		out.TimeWindow = &TimeWindowRequest{Start: s.TimeWindow.Start, End: s.TimeWindow.End}
	}
	return out
}

func NewRouteResponse(res domain.RouteResult) RouteResponse {
	out := RouteResponse{
		Provider:         res.Provider,
		Stops:            make([]StopResponse, 0, len(res.Stops)),
		Segments:         make([]SegmentResponse, 0, len(res.Segments)),
		TotalDistanceKm:  res.TotalDistanceKm,
		TotalDurationMin: res.TotalDurationMin,
		TotalCO2Kg:       res.TotalCO2Kg,
		Warnings:         append([]string{}, res.Warnings...),
	}

	for _, s := range res.Stops {
		out.Stops = append(out.Stops, newStopResponse(s))
	}
	for _, seg := range res.Segments {
		out.Segments = append(out.Segments, SegmentResponse{
			From:        newStopResponse(seg.From),
			To:          newStopResponse(seg.To),
			DistanceKm:  seg.DistanceKm,
			DurationMin: seg.DurationMin,
			CO2Kg:       seg.CO2Kg,
			Mode:        string(seg.Mode),
		})
	}

	return out
}
