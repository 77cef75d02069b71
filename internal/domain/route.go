package domain

// TransportMode identifies how a segment is travelled.
type TransportMode string

const (
	ModeRoad TransportMode = "road"
	ModeRail TransportMode = "rail"
	ModeSea  TransportMode = "sea"
)

// Represents travel between two consecutive stops of a route.
type RouteSegment struct {
	From        Stop
	To          Stop
	DistanceKm  float64
	DurationMin float64
	CO2Kg       float64
	Mode        TransportMode
}

// Represents the optimized route for a single vehicle.
// Stops holds the visit order, Segments the legs between consecutive stops,
// so len(Stops) == len(Segments)+1 for any non-empty route and the totals
// are the sums over Segments. Warnings are advisory constraint violations.
type RouteResult struct {
	Stops            []Stop
	Segments         []RouteSegment
	TotalDistanceKm  float64
	TotalDurationMin float64
	TotalCO2Kg       float64
	Warnings         []string
	Provider         string
}
