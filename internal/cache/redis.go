package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// scanBatch is the COUNT hint passed to SCAN during Delete and Clear.
const scanBatch = 256

// Redis stores entries in a Redis server under a key prefix. Expiry is
// delegated to Redis TTLs.
type Redis struct {
	r      redis.Cmdable
	prefix string
	stats  counters
}

// NewRedis creates a Redis-backed cache. Keys are stored as prefix:key.
func NewRedis(r redis.Cmdable, prefix string) *Redis {
	return &Redis{r: r, prefix: prefix}
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: connect to redis: %v", ErrBackend, err)
	}
	return client, nil
}

func (c *Redis) namespaced(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// Get implements Cache.Get.
func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.r.Get(ctx, c.namespaced(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.stats.miss()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %v", ErrBackend, key, err)
	}
	c.stats.hit()
	return val, true, nil
}

// Set implements Cache.Set.
func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.r.Set(ctx, c.namespaced(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrBackend, key, err)
	}
	c.stats.set()
	return nil
}

// Delete implements Cache.Delete using SCAN MATCH on the escaped pattern.
func (c *Redis) Delete(ctx context.Context, pattern string) error {
	return c.deleteMatching(ctx, redisPattern(c.namespaced(pattern)))
}

// Clear removes every key under the prefix. Without a prefix it would touch
// unrelated data, so it refuses.
func (c *Redis) Clear(ctx context.Context) error {
	if c.prefix == "" {
		return fmt.Errorf("%w: clear requires a key prefix", ErrBackend)
	}
	return c.deleteMatching(ctx, redisPattern(c.prefix)+":*")
}

// Stats returns a snapshot of the hit/miss/set counters.
func (c *Redis) Stats() Stats { return c.stats.snapshot() }

func (c *Redis) deleteMatching(ctx context.Context, match string) error {
	var cursor uint64
	for {
		keys, next, err := c.r.Scan(ctx, cursor, match, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("%w: scan %s: %v", ErrBackend, match, err)
		}
		if len(keys) > 0 {
			if err := c.r.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("%w: del: %v", ErrBackend, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
