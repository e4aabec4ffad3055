package cache

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	return New(zap.NewNop().Sugar(), nil, time.Hour)
}

func TestInvalidateReturnsProcessedSubset(t *testing.T) {
	c := newTestCache(t)
	c.Put("a", 100)
	c.Put("b", 200)

	processed := c.Invalidate([]string{"a", "missing", "b"})
	if len(processed) != 2 {
		t.Fatalf("expected 2 processed keys, got %v", processed)
	}
	for _, key := range processed {
		if key != "a" && key != "b" {
			t.Errorf("unexpected processed key %q", key)
		}
	}
}

func TestInvalidateIsIdempotent(t *testing.T) {
	c := newTestCache(t)
	c.Put("a", 100)

	first := c.Invalidate([]string{"a"})
	if len(first) != 1 {
		t.Fatalf("expected [a], got %v", first)
	}

	second := c.Invalidate([]string{"a"})
	if len(second) != 0 {
		t.Errorf("repeat invalidation must process nothing, got %v", second)
	}
}

func TestStats(t *testing.T) {
	c := newTestCache(t)
	c.Put("a", 1024*1024)
	c.Put("b", 1024*1024)

	c.Touch("a")    // hit
	c.Touch("gone") // miss

	stats := c.Stats()
	if stats.Entries != 2 {
		t.Errorf("entries = %d, want 2", stats.Entries)
	}
	if stats.SizeMB != 2.0 {
		t.Errorf("sizeMB = %f, want 2.0", stats.SizeMB)
	}
	if stats.HitRatio != 0.5 {
		t.Errorf("hitRatio = %f, want 0.5", stats.HitRatio)
	}
	if stats.Expired != 0 {
		t.Errorf("expired = %d, want 0", stats.Expired)
	}
}

func TestStatsWithoutLookups(t *testing.T) {
	c := newTestCache(t)
	if ratio := c.Stats().HitRatio; ratio != 0 {
		t.Errorf("hit ratio without lookups = %f, want 0", ratio)
	}
}

func TestTouchExpiredEntryMisses(t *testing.T) {
	c := New(zap.NewNop().Sugar(), nil, -time.Second)
	c.Put("a", 10)

	if c.Touch("a") {
		t.Error("expired entry must not count as a hit")
	}
}
