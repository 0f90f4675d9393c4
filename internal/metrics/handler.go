package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatsHandler serves the in-memory snapshot as JSON.
func (c *Collector) StatsHandler(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := c.metrics.Snapshot(service)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

// PrometheusHandler serves the collector's registry in the Prometheus
// exposition format.
func (c *Collector) PrometheusHandler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// AdminMux routes the admin listener. It is never mounted on the service port.
func (c *Collector) AdminMux(service string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.PrometheusHandler())
	mux.HandleFunc("/stats", c.StatsHandler(service))
	return mux
}
