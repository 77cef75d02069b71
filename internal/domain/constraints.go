package domain

// AvoidZone is a circular area the vehicle should not enter.
type AvoidZone struct {
	Center   Coordinates
	RadiusKm float64
}

// RouteConstraints describes the vehicle and regulatory limits for one route.
// Every field is optional; nil or empty means the dimension is unconstrained.
type RouteConstraints struct {
	VehicleCapacity       *float64
	MaxDrivingTimeMin     *float64
	MaxDistanceKm         *float64
	ADRClass              string
	TemperatureControlled bool
	TunnelRestrictions    []string
	AvoidZones            []AvoidZone
}

// Hazardous reports whether the load requires dangerous-goods routing.
func (c RouteConstraints) Hazardous() bool { return c.ADRClass != "" }
