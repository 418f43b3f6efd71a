package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AllocatorMetrics records collision/exhaustion counts for the sequential
// identifier allocator.
type AllocatorMetrics struct {
	collisions *prometheus.CounterVec
	exhausted  *prometheus.CounterVec
}

// NewAllocatorMetrics registers the allocator metrics on the provided registerer.
func NewAllocatorMetrics(reg prometheus.Registerer) *AllocatorMetrics {
	if reg == nil {
		return &AllocatorMetrics{}
	}
	collisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "id_alloc_collisions_total",
		Help: "Duplicate-key rejections observed while allocating identifiers.",
	}, []string{"table"})
	exhausted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "id_alloc_exhausted_total",
		Help: "Allocations abandoned after the retry budget ran out.",
	}, []string{"table"})
	reg.MustRegister(collisions, exhausted)
	return &AllocatorMetrics{
		collisions: collisions,
		exhausted:  exhausted,
	}
}

// IncCollision increments the collision counter for the named table.
func (a *AllocatorMetrics) IncCollision(table string) {
	if a == nil || a.collisions == nil {
		return
	}
	a.collisions.WithLabelValues(normalizeLabel(table)).Inc()
}

// IncExhausted increments the exhaustion counter for the named table.
func (a *AllocatorMetrics) IncExhausted(table string) {
	if a == nil || a.exhausted == nil {
		return
	}
	a.exhausted.WithLabelValues(normalizeLabel(table)).Inc()
}

// RequestMetrics records HTTP request durations per route.
type RequestMetrics struct {
	duration *prometheus.HistogramVec
}

// NewRequestMetrics registers the request metrics on the provided registerer.
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	if reg == nil {
		return &RequestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reg.MustRegister(duration)
	return &RequestMetrics{duration: duration}
}

// ObserveRequest records the duration of a completed request.
func (r *RequestMetrics) ObserveRequest(method, route, status string, duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(normalizeLabel(method), normalizeLabel(route), normalizeLabel(status)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
