package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// ProviderRequests counts outbound optimization/matrix calls by provider and outcome
	ProviderRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "provider_requests_total", Help: "Outbound provider calls by provider and outcome."},
		[]string{"provider", "outcome"},
	)
	// ProviderDuration tracks outbound provider latency in seconds
	ProviderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "provider_request_duration_seconds", Help: "Outbound provider latency in seconds.", Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}},
		[]string{"provider"},
	)
	// ProviderFallbacks counts how often a provider handed a request to the greedy planner
	ProviderFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "provider_fallbacks_total", Help: "Provider failures answered by the greedy fallback."},
		[]string{"provider"},
	)
	// RouteOptimizations counts orchestrated optimizations by selected strategy
	RouteOptimizations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_optimizations_total", Help: "Route optimizations by selected strategy."},
		[]string{"provider"},
	)
)

// RegisterDefault registers collectors to the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(ProviderRequests)
		Registry.MustRegister(ProviderDuration)
		Registry.MustRegister(ProviderFallbacks)
		Registry.MustRegister(RouteOptimizations)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
