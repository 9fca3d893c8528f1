package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Move outcomes used as label values
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Registry holds all metrics for the application
type Registry struct {
	// Navigation Metrics
	MovesTotal   *prometheus.CounterVec
	MoveDuration prometheus.Histogram

	// Exploration Metrics
	RelocationsTotal   prometheus.Counter
	VerticesDiscovered prometheus.Gauge
	EdgesDiscovered    prometheus.Gauge

	// Session Metrics
	SessionsTotal   *prometheus.CounterVec
	SessionDuration prometheus.Histogram
	PathWeight      prometheus.Gauge
	PathLength      prometheus.Gauge

	// Authority Metrics (simulated authority server)
	AuthorityConnections   prometheus.Gauge
	AuthorityCommandsTotal *prometheus.CounterVec

	// System Metrics
	UptimeSeconds prometheus.Gauge
	GoRoutines    prometheus.Gauge

	registry  *prometheus.Registry
	startedAt time.Time
	mu        sync.Mutex
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry:  prometheus.NewRegistry(),
		startedAt: time.Now(),
	}

	r.initNavigationMetrics()
	r.initSessionMetrics()
	r.initAuthorityMetrics()
	r.initSystemMetrics()

	return r
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
