// Package cache provides the TTL key-value stores sitting in front of the
// esports upstream.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend wraps failures raised by a non-memory storage backend.
var ErrBackend = errors.New("cache: backend failure")

// Cache defines the minimal key-value cache contract with TTL semantics.
// Implementations must be safe for concurrent use by multiple goroutines.
//
// A missing or expired key is reported as ok=false with a nil error; an error
// is only returned when the storage itself fails.
type Cache interface {
	// Get returns the raw bytes stored under key. The slice belongs to the
	// caller; mutating it never changes the stored entry.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores val under key for ttl, overwriting any existing entry. The
	// cache does not retain val itself.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	// Delete removes every key matching pattern, where '*' matches any
	// sequence of characters and everything else matches literally.
	Delete(ctx context.Context, pattern string) error
	// Clear removes all entries. Metrics are kept.
	Clear(ctx context.Context) error
}

// StatsReporter is implemented by backends that count lookups.
type StatsReporter interface {
	Stats() Stats
}
