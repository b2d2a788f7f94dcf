package analyze

import (
	"testing"
	"time"
)

func TestCache_HitWithinWindow(t *testing.T) {
	c := NewCache()
	report := &FullReport{GeneratedAt: statsNow}
	c.Put(report, statsNow)

	got, ok := c.Get(statsNow.Add(29 * time.Second))
	if !ok {
		t.Fatal("expected a cache hit inside the window")
	}
	if got != report {
		t.Error("cache returned a different report")
	}

	// The window is inclusive at exactly the TTL.
	if _, ok := c.Get(statsNow.Add(cacheTTL)); !ok {
		t.Error("expected a hit at exactly the TTL")
	}
}

func TestCache_MissWhenStale(t *testing.T) {
	c := NewCache()
	c.Put(&FullReport{}, statsNow)

	if _, ok := c.Get(statsNow.Add(cacheTTL + time.Nanosecond)); ok {
		t.Error("expected a miss past the TTL")
	}
}

func TestCache_MissWhenEmpty(t *testing.T) {
	if _, ok := NewCache().Get(statsNow); ok {
		t.Error("expected a miss from a fresh cache")
	}
}

func TestCache_Invalidate(t *testing.T) {
	c := NewCache()
	c.Put(&FullReport{}, statsNow)
	c.Invalidate()

	if _, ok := c.Get(statsNow.Add(time.Second)); ok {
		t.Error("expected a miss after Invalidate")
	}

	// A later Put makes the cache usable again.
	c.Put(&FullReport{}, statsNow)
	if _, ok := c.Get(statsNow.Add(time.Second)); !ok {
		t.Error("expected a hit after re-Put")
	}
}
