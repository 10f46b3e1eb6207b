package cache

import (
	"fmt"
	"sync/atomic"
)

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Sets    int64  `json:"sets"`
	HitRate string `json:"hitRate"`
}

// counters are process-lifetime and never reset.
type counters struct {
	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

func (c *counters) hit()  { c.hits.Add(1) }
func (c *counters) miss() { c.misses.Add(1) }
func (c *counters) set()  { c.sets.Add(1) }

func (c *counters) snapshot() Stats {
	h, m := c.hits.Load(), c.misses.Load()
	return Stats{
		Hits:    h,
		Misses:  m,
		Sets:    c.sets.Load(),
		HitRate: hitRate(h, m),
	}
}

// hitRate formats hits/(hits+misses) with one decimal, or "0%" before any lookup.
func hitRate(hits, misses int64) string {
	total := hits + misses
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(hits)/float64(total)*100)
}
