package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"route-optimizer-service/internal/api/dto"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"strings"
	"time"
)

// RoutePlanner is the engine entry point the handler depends on.
type RoutePlanner interface {
	OptimizeRoute(ctx context.Context, stops []domain.Stop, constraints domain.RouteConstraints) domain.RouteResult
}

type RouteHandler struct {
	Planner RoutePlanner
	// Geocoder resolves stops posted without coordinates; nil disables it.
	Geocoder ports.Geocoder
	// Timeout bounds one optimization including provider calls.
	Timeout time.Duration
}

// Optimize validates the posted stops, geocodes the ones that only carry an
// address, and returns the optimized route.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.OptimizeRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	stops := make([]domain.Stop, 0, len(req.Stops))
	for i, s := range req.Stops {
		stop, err := s.ToDomain()
		if err != nil {
			writeError(w, r, http.StatusBadRequest, fmt.Sprintf("stops[%d]: %v", i, err))
			return
		}
		stops = append(stops, stop)
	}

	constraints, err := req.Constraints.ToDomain()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "constraints: "+err.Error())
		return
	}

	ctx := r.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	stops = h.geocode(ctx, stops)

	resolvable := 0
	for _, s := range stops {
		if s.Geocoded() {
			resolvable++
		}
	}
	if resolvable < 2 {
		writeError(w, r, http.StatusUnprocessableEntity, "at least two stops with coordinates are required")
		return
	}

	res := h.Planner.OptimizeRoute(ctx, stops, constraints)
	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(res))
}

// geocode fills coordinates for sentinel stops that have an address.
// Lookup failures leave the stops unresolved.
func (h *RouteHandler) geocode(ctx context.Context, stops []domain.Stop) []domain.Stop {
	if h.Geocoder == nil {
		return stops
	}

	var addresses []string
	for _, s := range stops {
		if !s.Geocoded() && s.Address != "" {
			addresses = append(addresses, s.Address)
		}
	}
	if len(addresses) == 0 {
		return stops
	}

	found, err := h.Geocoder.Geocode(ctx, addresses)
	if err != nil {
		log.Printf("req_id=%s geocode failed: %v", obs.RequestID(ctx), err)
		return stops
	}

	for i, s := range stops {
		if s.Geocoded() || s.Address == "" {
			continue
		}
		if c, ok := found[strings.Join(strings.Fields(s.Address), " ")]; ok {
			stops[i].Coordinates = c
		}
	}
	return stops
}
