package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

// DefaultMaxSize is the entry count above which Set sweeps expired entries.
const DefaultMaxSize = 1000

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is an in-process TTL cache. MaxSize is a soft threshold: once the
// store grows past it, Set removes expired entries before inserting. Live
// entries are never evicted to make room.
// It is safe for concurrent use by multiple goroutines.
type Memory struct {
	mu      sync.Mutex
	store   map[string]entry
	maxSize int
	now     func() time.Time
	stats   counters
}

// Option configures a Memory cache.
type Option func(*Memory)

// WithMaxSize overrides DefaultMaxSize. Values <= 0 are ignored.
func WithMaxSize(n int) Option {
	return func(m *Memory) {
		if n > 0 {
			m.maxSize = n
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemory creates an empty in-memory cache.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		store:   make(map[string]entry),
		maxSize: DefaultMaxSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the value under key if present and not expired. An expired
// entry is removed and counted as a miss.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[key]
	if !ok {
		m.stats.miss()
		return nil, false, nil
	}
	if m.expired(e, m.now()) {
		m.stats.miss()
		delete(m.store, key)
		return nil, false, nil
	}
	m.stats.hit()
	return slices.Clone(e.value), true, nil
}

// Set stores value with an absolute expiration computed as now+ttl.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if len(m.store) > m.maxSize {
		m.sweep(now)
	}
	m.store[key] = entry{value: slices.Clone(value), expiresAt: now.Add(ttl)}
	m.stats.set()
	return nil
}

// Delete removes every key matching the '*' glob pattern.
func (m *Memory) Delete(_ context.Context, pattern string) error {
	re := compilePattern(pattern)
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.store {
		if re.MatchString(key) {
			delete(m.store, key)
		}
	}
	return nil
}

// Clear drops all entries.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.store)
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store)
}

// Stats returns a snapshot of the hit/miss/set counters.
func (m *Memory) Stats() Stats { return m.stats.snapshot() }

// expired reports whether e is no longer readable at now.
func (m *Memory) expired(e entry, now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// sweep removes expired entries. Caller holds mu.
func (m *Memory) sweep(now time.Time) {
	for key, e := range m.store {
		if m.expired(e, now) {
			delete(m.store, key)
		}
	}
}
