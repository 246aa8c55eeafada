package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(16, nil)

	if err := c.Set(ctx, SlotsKey("int-1", "2026-01-05", 20), `["09:00"]`, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	val, ok, err := c.Get(ctx, SlotsKey("int-1", "2026-01-05", 20))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || val != `["09:00"]` {
		t.Fatalf("expected hit with stored value, got ok=%v val=%q", ok, val)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := NewMemoryCache(16, clock)

	if err := c.Set(ctx, "calendar:a:b", "v", 30*time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}

	now = now.Add(31 * time.Second)
	if _, ok, _ := c.Get(ctx, "calendar:a:b"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestMemoryCacheInvalidatePattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(16, nil)

	_ = c.Set(ctx, SlotsKey("int-1", "2026-01-05", 20), "a", time.Minute)
	_ = c.Set(ctx, SlotsKey("int-1", "2026-01-06", 30), "b", time.Minute)
	_ = c.Set(ctx, SlotsKey("int-2", "2026-01-05", 20), "c", time.Minute)
	_ = c.Set(ctx, CalendarKey("2026-01-01", "2026-01-31"), "d", time.Minute)

	if err := c.Invalidate(ctx, SlotsPattern("int-1")); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if _, ok, _ := c.Get(ctx, SlotsKey("int-1", "2026-01-05", 20)); ok {
		t.Fatal("int-1 slot entry should be gone")
	}
	if _, ok, _ := c.Get(ctx, SlotsKey("int-1", "2026-01-06", 30)); ok {
		t.Fatal("second int-1 slot entry should be gone")
	}
	if _, ok, _ := c.Get(ctx, SlotsKey("int-2", "2026-01-05", 20)); !ok {
		t.Fatal("int-2 entry should survive")
	}
	if _, ok, _ := c.Get(ctx, CalendarKey("2026-01-01", "2026-01-31")); !ok {
		t.Fatal("calendar entry should survive")
	}
}

func TestMemoryCachePatternAnchoredBothEnds(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(16, nil)

	_ = c.Set(ctx, "calendar:2026-01-01:2026-01-31", "v", time.Minute)
	// A pattern without wildcards must match exactly, not as a prefix.
	if err := c.Invalidate(ctx, "calendar:2026-01-01"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "calendar:2026-01-01:2026-01-31"); !ok {
		t.Fatal("non-matching pattern must not remove the entry")
	}
}

func TestMemoryCacheBounded(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2, nil)

	_ = c.Set(ctx, "k1", "a", time.Minute)
	_ = c.Set(ctx, "k2", "b", 2*time.Minute)
	_ = c.Set(ctx, "k3", "c", 3*time.Minute)

	hits := 0
	for _, k := range []string{"k1", "k2", "k3"} {
		if _, ok, _ := c.Get(ctx, k); ok {
			hits++
		}
	}
	if hits != 2 {
		t.Fatalf("expected the cache bounded at 2 entries, got %d hits", hits)
	}
}
