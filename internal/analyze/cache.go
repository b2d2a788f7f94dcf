package analyze

import (
	"sync"
	"time"
)

// cacheTTL is how long a computed report stays fresh.
const cacheTTL = 30 * time.Second

// Cache holds the most recent full report for a short window so repeated
// reads between imports do not recompute everything. The caller owns the
// instance; there is no package-level cache.
type Cache struct {
	mu         sync.Mutex
	report     *FullReport
	computedAt time.Time
	valid      bool
}

func NewCache() *Cache {
	return &Cache{}
}

// Get returns the cached report when one is present, not invalidated, and
// computed within the staleness window ending at now.
func (c *Cache) Get(now time.Time) (*FullReport, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid || c.report == nil {
		return nil, false
	}
	if now.Sub(c.computedAt) > cacheTTL {
		return nil, false
	}
	return c.report, true
}

// Put stores a freshly computed report.
func (c *Cache) Put(report *FullReport, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = report
	c.computedAt = now
	c.valid = true
}

// Invalidate drops the cached report; the next Get misses regardless of
// age. Called after new commands are imported.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.valid = false
}
