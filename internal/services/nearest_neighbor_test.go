package services

import (
	"math"
	"route-optimizer-service/internal/domain"
	"strings"
	"testing"
)

// Reference Haversine kept independent of package geo.
func haversineKm(a, b domain.Coordinates) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(b.Lat - a.Lat)
	dLon := rad(b.Lon - a.Lon)
	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Pow(math.Sin(dLon/2), 2)
	return 2 * 6371 * math.Asin(math.Sqrt(h))
}

var (
	brighton   = domain.Stop{ID: "brighton", Name: "Brighton", Coordinates: domain.Coordinates{Lat: 50.8225, Lon: -0.1372}}
	manchester = domain.Stop{ID: "manchester", Name: "Manchester", Coordinates: domain.Coordinates{Lat: 53.4808, Lon: -2.2426}}
	bristol    = domain.Stop{ID: "bristol", Name: "Bristol", Coordinates: domain.Coordinates{Lat: 51.4545, Lon: -2.5879}}
)

func checkRouteInvariants(t *testing.T, res domain.RouteResult) {
	t.Helper()

	if len(res.Stops) > 0 && len(res.Stops) != len(res.Segments)+1 {
		t.Fatalf("stops=%d segments=%d, want stops == segments+1", len(res.Stops), len(res.Segments))
	}

	sum := 0.0
	for i, seg := range res.Segments {
		sum += seg.DistanceKm
		if seg.From.ID != res.Stops[i].ID || seg.To.ID != res.Stops[i+1].ID {
			t.Fatalf("segment %d does not join stops %d and %d", i, i, i+1)
		}
	}
	if math.Abs(sum-res.TotalDistanceKm) > 1e-9 {
		t.Fatalf("sum(segments)=%v, total=%v", sum, res.TotalDistanceKm)
	}
}

func TestGreedyPlanThreeUKStops(t *testing.T) {
	g := NewGreedyPlanner(0)

	res := g.Plan([]domain.Stop{brighton, manchester, bristol}, domain.RouteConstraints{})

	checkRouteInvariants(t, res)

	if len(res.Stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(res.Stops))
	}
	if res.Stops[0].ID != "brighton" || res.Stops[1].ID != "bristol" || res.Stops[2].ID != "manchester" {
		t.Fatalf("unexpected order: %s, %s, %s", res.Stops[0].ID, res.Stops[1].ID, res.Stops[2].ID)
	}

	want := haversineKm(brighton.Coordinates, bristol.Coordinates) + haversineKm(bristol.Coordinates, manchester.Coordinates)
	if math.Abs(res.TotalDistanceKm-want) > 0.01 {
		t.Fatalf("distance = %.3f, want %.3f", res.TotalDistanceKm, want)
	}

	if wantMin := want / 50 * 60; math.Abs(res.TotalDurationMin-wantMin) > 1e-6 {
		t.Fatalf("duration = %.3f, want %.3f", res.TotalDurationMin, wantMin)
	}
	if wantCO2 := want * 0.98; math.Abs(res.TotalCO2Kg-wantCO2) > 1e-6 {
		t.Fatalf("co2 = %.3f, want %.3f", res.TotalCO2Kg, wantCO2)
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	if res.Provider != GreedyName {
		t.Fatalf("provider = %q", res.Provider)
	}
}

func TestGreedyPlanDegenerate(t *testing.T) {
	g := NewGreedyPlanner(DefaultAverageSpeedKph)

	empty := g.Plan(nil, domain.RouteConstraints{})
	if len(empty.Stops) != 0 || len(empty.Segments) != 0 {
		t.Fatalf("empty route = %+v", empty)
	}

	one := g.Plan([]domain.Stop{brighton}, domain.RouteConstraints{})
	if len(one.Stops) != 1 || len(one.Segments) != 0 || len(one.Warnings) != 0 {
		t.Fatalf("one stop: stops=%d segments=%d warnings=%v", len(one.Stops), len(one.Segments), one.Warnings)
	}

	two := g.Plan([]domain.Stop{brighton, bristol}, domain.RouteConstraints{})
	checkRouteInvariants(t, two)
	if len(two.Segments) != 1 || len(two.Warnings) != 0 {
		t.Fatalf("two stops: segments=%d warnings=%v", len(two.Segments), two.Warnings)
	}
}

func TestGreedyPlanMaxDistanceWarning(t *testing.T) {
	// 0.40469 degrees of latitude is about 45 km.
	a := domain.Stop{ID: "a", Coordinates: domain.Coordinates{Lat: 51.0, Lon: 0.5}}
	b := domain.Stop{ID: "b", Coordinates: domain.Coordinates{Lat: 51.40469, Lon: 0.5}}
	limit := 10.0

	res := NewGreedyPlanner(0).Plan([]domain.Stop{a, b}, domain.RouteConstraints{MaxDistanceKm: &limit})

	if math.Abs(res.TotalDistanceKm-45) > 0.05 {
		t.Fatalf("distance = %.3f, want ~45", res.TotalDistanceKm)
	}
	if len(res.Stops) != 2 {
		t.Fatalf("route should still be returned, got %d stops", len(res.Stops))
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", res.Warnings)
	}
	if !strings.Contains(res.Warnings[0], "45.0") || !strings.Contains(res.Warnings[0], "10.0") {
		t.Fatalf("warning %q should name the computed and limit values", res.Warnings[0])
	}
}

func TestGreedyPlanDrivingTimeAndSpeedOverride(t *testing.T) {
	limit := 60.0
	g := NewGreedyPlanner(100)

	res := g.Plan([]domain.Stop{brighton, bristol}, domain.RouteConstraints{MaxDrivingTimeMin: &limit})

	wantMin := haversineKm(brighton.Coordinates, bristol.Coordinates) / 100 * 60
	if math.Abs(res.TotalDurationMin-wantMin) > 1e-6 {
		t.Fatalf("duration = %.3f, want %.3f", res.TotalDurationMin, wantMin)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "driving time") {
		t.Fatalf("expected one driving time warning, got %v", res.Warnings)
	}
}
