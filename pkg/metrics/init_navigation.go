package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initNavigationMetrics() {
	r.MovesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mazewalk_moves_total",
			Help: "Total number of move commands sent to the authority",
		},
		[]string{"outcome"},
	)

	r.MoveDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mazewalk_move_duration_seconds",
			Help:    "Round trip time of a move command in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)

	r.RelocationsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "mazewalk_relocations_total",
			Help: "Total number of relocation walks planned by the explorer",
		},
	)

	r.VerticesDiscovered = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mazewalk_vertices_discovered",
			Help: "Number of visited vertices in the current session",
		},
	)

	r.EdgesDiscovered = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mazewalk_edges_discovered",
			Help: "Number of known deduplicated edges in the current session",
		},
	)
}
