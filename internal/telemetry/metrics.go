// Package telemetry provides Prometheus metrics and the side HTTP listener
// that exposes them.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leonardcser/lol-esports-mcp/internal/cache"
)

const namespace = "lolmcp"

// Metrics holds all Prometheus collectors for the server. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	CacheLookups     *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	UpstreamErrors   *prometheus.CounterVec
	ToolCalls        *prometheus.CounterVec
}

// NewMetrics creates and registers all metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Read-through cache lookups by operation and result.",
		}, []string{"op", "result"}),

		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_duration_seconds",
			Help:      "Esports API call duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),

		UpstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Esports API calls that failed.",
		}, []string{"op"}),

		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "MCP tool invocations by tool and outcome.",
		}, []string{"tool", "outcome"}),
	}

	reg.MustRegister(
		m.CacheLookups,
		m.UpstreamDuration,
		m.UpstreamErrors,
		m.ToolCalls,
	)
	return m
}

// CacheHit records a read-through hit for op.
func (m *Metrics) CacheHit(op string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(op, "hit").Inc()
}

// CacheMiss records a read-through miss for op.
func (m *Metrics) CacheMiss(op string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(op, "miss").Inc()
}

// Upstream records one upstream call for op.
func (m *Metrics) Upstream(op string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.UpstreamDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	if err != nil {
		m.UpstreamErrors.WithLabelValues(op).Inc()
	}
}

// ToolCall records a tool invocation outcome ("ok" or "error").
func (m *Metrics) ToolCall(tool, outcome string) {
	if m == nil {
		return
	}
	m.ToolCalls.WithLabelValues(tool, outcome).Inc()
}

// RegisterCacheStats exports a backend's own hit/miss/set counters.
func RegisterCacheStats(reg prometheus.Registerer, s cache.StatsReporter) {
	reg.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Backend cache hits.",
		}, func() float64 { return float64(s.Stats().Hits) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Backend cache misses.",
		}, func() float64 { return float64(s.Stats().Misses) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_sets_total",
			Help:      "Backend cache writes.",
		}, func() float64 { return float64(s.Stats().Sets) }),
	)
}
