package metrics

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// RequestEvent describes one completed request on the service listener.
type RequestEvent struct {
	Timestamp  time.Time
	Route      string
	Method     string
	StatusCode int
	Duration   time.Duration
}

type Collector struct {
	eventCh  chan RequestEvent
	metrics  *Metrics
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	dropped  prometheus.Counter
	logger   *slog.Logger
	done     chan struct{}
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "microservice_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "method", "status"},
	)
	latency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "microservice_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"route", "method"},
	)
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "microservice_metric_events_dropped_total",
		Help: "Request events dropped because the collector buffer was full",
	})

	registry.MustRegister(
		requests,
		latency,
		dropped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		eventCh:  make(chan RequestEvent, bufferSize),
		metrics:  NewMetrics(),
		registry: registry,
		requests: requests,
		latency:  latency,
		dropped:  dropped,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Emit queues an event without blocking the request path. Events are
// dropped when the buffer is full.
func (c *Collector) Emit(event RequestEvent) {
	select {
	case c.eventCh <- event:
	default:
		c.dropped.Inc()
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

// Done is closed once the collector has drained its buffer after the
// context passed to Start was cancelled.
func (c *Collector) Done() <-chan struct{} {
	return c.done
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Debug("Metrics collector started")
	defer c.logger.Debug("Metrics collector stopped")
	defer close(c.done)

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event RequestEvent) {
	c.metrics.RecordRequest(event.Route, event.Duration, event.StatusCode)
	c.requests.WithLabelValues(event.Route, event.Method, statusLabel(event.StatusCode)).Inc()
	c.latency.WithLabelValues(event.Route, event.Method).Observe(event.Duration.Seconds())
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot(service string) Snapshot {
	return c.metrics.Snapshot(service)
}

// Registry exposes the Prometheus registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
