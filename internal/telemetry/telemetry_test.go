package telemetry

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/leonardcser/lol-esports-mcp/internal/cache"
)

type fixedStats cache.Stats

func (f fixedStats) Stats() cache.Stats { return cache.Stats(f) }

func TestMetrics_Record(t *testing.T) {
	t.Parallel()
	m := NewMetrics(prometheus.NewRegistry())

	m.CacheHit("schedule")
	m.CacheHit("schedule")
	m.CacheMiss("schedule")
	m.Upstream("live", 20*time.Millisecond, nil)
	m.Upstream("live", time.Second, errors.New("boom"))
	m.ToolCall("get-leagues", "ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("schedule", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("schedule", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamErrors.WithLabelValues("live")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.UpstreamDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues("get-leagues", "ok")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CacheHit("x")
		m.CacheMiss("x")
		m.Upstream("x", time.Millisecond, errors.New("e"))
		m.ToolCall("x", "ok")
	})
}

func TestRegisterCacheStats(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	RegisterCacheStats(reg, fixedStats{Hits: 7, Misses: 3, Sets: 4})

	expected := `
# HELP lolmcp_cache_hits_total Backend cache hits.
# TYPE lolmcp_cache_hits_total counter
lolmcp_cache_hits_total 7
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "lolmcp_cache_hits_total"))
	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestServer_ServesMetricsAndHealth(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	NewMetrics(reg).ToolCall("get-schedule", "ok")

	srv, err := Listen("127.0.0.1:0", NewHandler(reg))
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- srv.Serve() }()

	get := func(path string) (int, string) {
		resp, err := http.Get("http://" + srv.Addr() + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, body = get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `lolmcp_tool_calls_total{outcome="ok",tool="get-schedule"} 1`)

	code, _ = get("/nope")
	assert.Equal(t, http.StatusNotFound, code)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	assert.NoError(t, <-done)
}

func TestSampler(t *testing.T) {
	t.Parallel()
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}
