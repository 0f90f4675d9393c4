// Package metrics collects per-route request metrics for the service.
//
// Request events are sent to a buffered channel without blocking the request
// path and folded into two stores by a single goroutine:
//   - an in-memory Metrics store with request counts, status codes and
//     latency percentiles (P50, P95, P99), served as JSON on /stats
//   - Prometheus counters and histograms, served on /metrics
//
// Both endpoints live on a separate admin listener so the service port keeps
// its fixed routing table.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.RequestEvent{
//		Route:      "/health",
//		Method:     http.MethodGet,
//		StatusCode: 200,
//		Duration:   150 * time.Microsecond,
//	})
//
//	snapshot := collector.Snapshot("orders")
//
// On shutdown the collector drains pending events before Done is closed.
package metrics
