package api

import (
	"net/http"
	"route-optimizer-service/internal/api/handlers"
	"route-optimizer-service/internal/metrics"
	"route-optimizer-service/internal/ports"
	"route-optimizer-service/internal/services"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Planner  handlers.RoutePlanner
	Geocoder ports.Geocoder
	Scorer   *services.CarrierScorer
	Timeout  time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	if d.Scorer == nil {
		d.Scorer = &services.CarrierScorer{}
	}

	routeHandler := &handlers.RouteHandler{
		Planner:  d.Planner,
		Geocoder: d.Geocoder,
		Timeout:  d.Timeout,
	}
	carrierHandler := &handlers.CarrierHandler{Scorer: d.Scorer}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/routes/optimize", routeHandler.Optimize)
	mux.HandleFunc("/carriers/suggest", carrierHandler.Suggest)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(mux))
}
