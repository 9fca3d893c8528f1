package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAuthorityMetrics() {
	r.AuthorityConnections = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "mazewalk_authority_connections",
			Help: "Number of agents currently connected to the simulated authority",
		},
	)

	r.AuthorityCommandsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "mazewalk_authority_commands_total",
			Help: "Commands handled by the simulated authority by result",
		},
		[]string{"result"},
	)
}
