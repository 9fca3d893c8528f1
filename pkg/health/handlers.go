package health

import (
	"encoding/json"
	"net/http"
)

// Handler serves the report of kind. Degraded answers 200; only an unhealthy
// report answers 503.
func (c *Checker) Handler(kind Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := c.Run(kind)
		w.Header().Set("Content-Type", "application/json")
		if report.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(report)
	}
}

// Mount registers /livez and /readyz on mux.
func (c *Checker) Mount(mux *http.ServeMux) {
	mux.Handle("/livez", c.Handler(Liveness))
	mux.Handle("/readyz", c.Handler(Readiness))
}
