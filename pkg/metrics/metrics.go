package metrics

import (
	"runtime"
	"time"
)

// RecordMove records one move command and its round trip time
func (r *Registry) RecordMove(outcome string, duration time.Duration) {
	r.MovesTotal.WithLabelValues(outcome).Inc()
	r.MoveDuration.Observe(duration.Seconds())
}

// RecordRelocation counts a relocation walk
func (r *Registry) RecordRelocation() {
	r.RelocationsTotal.Inc()
}

// SetDiscovered updates the size of the known graph
func (r *Registry) SetDiscovered(vertices, edges int) {
	r.VerticesDiscovered.Set(float64(vertices))
	r.EdgesDiscovered.Set(float64(edges))
}

// RecordSession records the end of a session
func (r *Registry) RecordSession(status string, duration time.Duration) {
	r.SessionsTotal.WithLabelValues(status).Inc()
	r.SessionDuration.Observe(duration.Seconds())
}

// SetPath records the shortest path that was found
func (r *Registry) SetPath(length int, weight float64) {
	r.PathLength.Set(float64(length))
	r.PathWeight.Set(weight)
}

// AgentConnected tracks a connection to the simulated authority
func (r *Registry) AgentConnected() {
	r.AuthorityConnections.Inc()
}

// AgentDisconnected tracks the end of a connection to the simulated authority
func (r *Registry) AgentDisconnected() {
	r.AuthorityConnections.Dec()
}

// RecordAuthorityCommand counts a command handled by the simulated authority
func (r *Registry) RecordAuthorityCommand(result string) {
	r.AuthorityCommandsTotal.WithLabelValues(result).Inc()
}

// UpdateSystemMetrics refreshes process level gauges
func (r *Registry) UpdateSystemMetrics() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.UptimeSeconds.Set(time.Since(r.startedAt).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
}
