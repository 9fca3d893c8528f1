package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSessionMetrics() {
	r.SessionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mazewalk_sessions_total",
			Help: "Total number of exploration sessions by final status",
		},
		[]string{"status"},
	)

	r.SessionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mazewalk_session_duration_seconds",
			Help:    "Wall time of a whole exploration session in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	r.PathWeight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mazewalk_path_weight",
			Help: "Total weight of the last shortest path found",
		},
	)

	r.PathLength = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mazewalk_path_length",
			Help: "Number of vertices on the last shortest path found",
		},
	)
}
