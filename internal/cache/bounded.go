package cache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/maypok86/otter/v2"
)

// DefaultTTLCeiling bounds how long otter keeps any entry, independent of the
// per-entry TTL checked on read. Set rejects longer TTLs.
const DefaultTTLCeiling = 7 * 24 * time.Hour

// ErrTTLTooLong is returned by Bounded.Set for a TTL above DefaultTTLCeiling.
var ErrTTLTooLong = errors.New("cache: ttl exceeds bounded cache ceiling")

// Bounded is an in-memory W-TinyLFU cache backed by otter. Unlike Memory it
// enforces a hard entry limit, evicting live entries when full.
type Bounded struct {
	cache *otter.Cache[string, entry]
	now   func() time.Time
	stats counters
}

// NewBounded creates a cache holding at most maxSize entries.
func NewBounded(maxSize int, now func() time.Time) (*Bounded, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if now == nil {
		now = time.Now
	}
	c, err := otter.New[string, entry](&otter.Options[string, entry]{
		MaximumSize:      maxSize,
		ExpiryCalculator: otter.ExpiryWriting[string, entry](DefaultTTLCeiling),
	})
	if err != nil {
		return nil, fmt.Errorf("create bounded cache: %w", err)
	}
	return &Bounded{cache: c, now: now}, nil
}

// Get retrieves a value if present and not expired.
func (b *Bounded) Get(_ context.Context, key string) ([]byte, bool, error) {
	e, ok := b.cache.GetIfPresent(key)
	if !ok {
		b.stats.miss()
		return nil, false, nil
	}
	if !b.now().Before(e.expiresAt) {
		b.stats.miss()
		b.cache.Invalidate(key)
		return nil, false, nil
	}
	b.stats.hit()
	return slices.Clone(e.value), true, nil
}

// Set stores a value with per-entry TTL. otter drops every entry
// DefaultTTLCeiling after its write, so a longer ttl is refused with
// ErrTTLTooLong rather than stored to expire early.
func (b *Bounded) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl > DefaultTTLCeiling {
		return fmt.Errorf("%w: %s for %s", ErrTTLTooLong, ttl, key)
	}
	b.cache.Set(key, entry{value: slices.Clone(value), expiresAt: b.now().Add(ttl)})
	b.stats.set()
	return nil
}

// Delete removes every key matching the '*' glob pattern.
func (b *Bounded) Delete(_ context.Context, pattern string) error {
	re := compilePattern(pattern)
	var matched []string
	for key := range b.cache.All() {
		if re.MatchString(key) {
			matched = append(matched, key)
		}
	}
	for _, key := range matched {
		b.cache.Invalidate(key)
	}
	return nil
}

// Clear removes all values from the cache.
func (b *Bounded) Clear(_ context.Context) error {
	b.cache.InvalidateAll()
	return nil
}

// Stats returns a snapshot of the hit/miss/set counters.
func (b *Bounded) Stats() Stats { return b.stats.snapshot() }
