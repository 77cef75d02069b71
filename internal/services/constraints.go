package services

import (
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/geo"
	"strings"
)

// EvaluateConstraints checks a computed route against the declared limits.
// Violations are advisory: one warning per violated dimension, never an error.
func EvaluateConstraints(res domain.RouteResult, c domain.RouteConstraints) []string {
	var warnings []string

	if c.MaxDistanceKm != nil && res.TotalDistanceKm > *c.MaxDistanceKm {
		warnings = append(warnings, fmt.Sprintf(
			"Route distance %.1f km exceeds maximum distance of %.1f km",
			res.TotalDistanceKm, *c.MaxDistanceKm,
		))
	}

	if c.MaxDrivingTimeMin != nil && res.TotalDurationMin > *c.MaxDrivingTimeMin {
		warnings = append(warnings, fmt.Sprintf(
			"Route driving time %.0f min exceeds maximum driving time of %.0f min",
			res.TotalDurationMin, *c.MaxDrivingTimeMin,
		))
	}

	if c.VehicleCapacity != nil {
		demand := 0.0
		for _, s := range res.Stops {
			demand += s.Demand
		}
		if demand > *c.VehicleCapacity {
			warnings = append(warnings, fmt.Sprintf(
				"Total demand %.1f exceeds vehicle capacity of %.1f",
				demand, *c.VehicleCapacity,
			))
		}
	}

	if len(c.AvoidZones) > 0 {
		var inside []string
		for _, s := range res.Stops {
			for _, z := range c.AvoidZones {
				if geo.WithinZone(s.Coordinates, z) {
					inside = append(inside, stopLabel(s))
					break
				}
			}
		}
		if len(inside) > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"%d stops lie inside avoidance zones: %s",
				len(inside), strings.Join(inside, ", "),
			))
		}
	}

	return warnings
}

// Finalize appends constraint warnings to a built route.
func Finalize(res domain.RouteResult, c domain.RouteConstraints) domain.RouteResult {
	res.Warnings = append(res.Warnings, EvaluateConstraints(res, c)...)
	return res
}

func stopLabel(s domain.Stop) string {
	if s.Name != "" {
		return s.Name
	}
	if s.ID != "" {
		return s.ID
	}
	return s.Coordinates.Key()
}
