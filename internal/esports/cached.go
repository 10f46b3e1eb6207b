package esports

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/leonardcser/lol-esports-mcp/internal/cache"
	"github.com/leonardcser/lol-esports-mcp/internal/logger"
	"github.com/leonardcser/lol-esports-mcp/internal/telemetry"
)

// allLeagues stands in for an absent league filter in schedule keys.
const allLeagues = "all"

// Cached is a read-through Datasource. A hit is served from the cache without
// touching the wrapped source; a miss fetches once, stores the result with the
// TTL of the operation's class, and returns it. Upstream errors are returned
// unchanged and never cached.
//
// Values returned on a miss may be shared between coalesced callers and must
// be treated as read-only.
type Cached struct {
	source  Datasource
	cache   cache.Cache
	metrics *telemetry.Metrics
	tracer  trace.Tracer
	flights *singleflight.Group
}

// CachedOption configures a Cached decorator.
type CachedOption func(*Cached)

// WithCoalescing collapses concurrent misses on the same key into a single
// upstream fetch. Every waiter receives that fetch's result or error. The
// fetch is not canceled by any one caller; a caller whose own context ends
// stops waiting and gets its context error.
func WithCoalescing() CachedOption {
	return func(c *Cached) { c.flights = &singleflight.Group{} }
}

// WithMetrics records hit/miss and upstream latency per operation.
func WithMetrics(m *telemetry.Metrics) CachedOption {
	return func(c *Cached) { c.metrics = m }
}

// WithTracer replaces the tracer taken from the global provider.
func WithTracer(t trace.Tracer) CachedOption {
	return func(c *Cached) { c.tracer = t }
}

// NewCached wraps source with read-through caching in store.
func NewCached(source Datasource, store cache.Cache, opts ...CachedOption) *Cached {
	c := &Cached{
		source: source,
		cache:  store,
		tracer: telemetry.Tracer("github.com/leonardcser/lol-esports-mcp/internal/esports"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ScheduleKey is the cache key for a schedule, "all" standing in for no league.
func ScheduleKey(language, leagueID string) string {
	if leagueID == "" {
		leagueID = allLeagues
	}
	return OpSchedule + ":" + normLanguage(language) + ":" + leagueID
}

// LiveKey is the cache key for the live feed.
func LiveKey(language string) string {
	return OpLive + ":" + normLanguage(language)
}

// EventDetailsKey is the cache key for one event's details.
func EventDetailsKey(eventID, language string) string {
	return OpEventDetails + ":" + eventID + ":" + normLanguage(language)
}

// LeaguesKey is the cache key for the league catalog.
func LeaguesKey(language string) string {
	return OpLeagues + ":" + normLanguage(language)
}

// Schedule implements Datasource.
func (c *Cached) Schedule(ctx context.Context, language, leagueID string) (*ScheduleResponse, error) {
	language = normLanguage(language)
	return readThrough(ctx, c, OpSchedule, ScheduleKey(language, leagueID),
		func(ctx context.Context) (*ScheduleResponse, error) {
			return c.source.Schedule(ctx, language, leagueID)
		})
}

// Live implements Datasource.
func (c *Cached) Live(ctx context.Context, language string) (*LiveResponse, error) {
	language = normLanguage(language)
	return readThrough(ctx, c, OpLive, LiveKey(language),
		func(ctx context.Context) (*LiveResponse, error) {
			return c.source.Live(ctx, language)
		})
}

// EventDetails implements Datasource.
func (c *Cached) EventDetails(ctx context.Context, eventID, language string) (*EventDetailsResponse, error) {
	language = normLanguage(language)
	return readThrough(ctx, c, OpEventDetails, EventDetailsKey(eventID, language),
		func(ctx context.Context) (*EventDetailsResponse, error) {
			return c.source.EventDetails(ctx, eventID, language)
		})
}

// Leagues implements Datasource.
func (c *Cached) Leagues(ctx context.Context, language string) (*LeaguesResponse, error) {
	language = normLanguage(language)
	return readThrough(ctx, c, OpLeagues, LeaguesKey(language),
		func(ctx context.Context) (*LeaguesResponse, error) {
			return c.source.Leagues(ctx, language)
		})
}

// Invalidate drops every cached entry of op, e.g. Invalidate(ctx, OpLive).
func (c *Cached) Invalidate(ctx context.Context, op string) error {
	return c.cache.Delete(ctx, op+":*")
}

func readThrough[T any](ctx context.Context, c *Cached, op, key string, fetch func(context.Context) (*T, error)) (*T, error) {
	ctx, span := c.tracer.Start(ctx, "esports."+op, trace.WithAttributes(
		attribute.String("cache.key", key),
		attribute.String("cache.class", ClassOf(op).String()),
	))
	defer span.End()

	raw, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, spanError(span, err)
	}
	if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			c.metrics.CacheHit(op)
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &v, nil
		}
		logger.Warnf("Discarding undecodable cache entry %s", key)
	}
	c.metrics.CacheMiss(op)
	span.SetAttributes(attribute.Bool("cache.hit", false))

	if c.flights == nil {
		v, err := fill(ctx, c, op, key, fetch)
		if err != nil {
			return nil, spanError(span, err)
		}
		return v, nil
	}
	// The shared fetch must not die with whichever caller started it; the
	// client timeout still bounds it. Each caller stops waiting on its own ctx.
	ch := c.flights.DoChan(key, func() (any, error) {
		return fill(context.WithoutCancel(ctx), c, op, key, fetch)
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, spanError(span, ctx.Err())
	case res = <-ch:
	}
	span.SetAttributes(attribute.Bool("cache.coalesced", res.Shared))
	if res.Err != nil {
		return nil, spanError(span, res.Err)
	}
	if res.Shared {
		logger.Debugf("Coalesced miss on %s", key)
	}
	return res.Val.(*T), nil
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func fill[T any](ctx context.Context, c *Cached, op, key string, fetch func(context.Context) (*T, error)) (*T, error) {
	start := time.Now()
	v, err := fetch(ctx)
	c.metrics.Upstream(op, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		logger.Warnf("Not caching %s: %v", key, err)
		return v, nil
	}
	if err := c.cache.Set(ctx, key, raw, ClassOf(op).TTL()); err != nil {
		logger.Warnf("Cache write for %s failed: %v", key, err)
	}
	return v, nil
}

func normLanguage(language string) string {
	if language == "" {
		return DefaultLanguage
	}
	return language
}
