package cache

import (
	"fmt"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestGetReturnsFreshValueWithAge(t *testing.T) {
	clk := newFakeClock()
	c := NewTTLCache[string, string](0, clk)

	c.Set("WX1234567890123", "pending", 30*time.Second)
	clk.Advance(10 * time.Second)

	value, age, ok := c.Get("WX1234567890123")
	if !ok {
		t.Fatalf("expected hit")
	}
	if value != "pending" {
		t.Fatalf("expected %q, got %q", "pending", value)
	}
	if age != 10*time.Second {
		t.Fatalf("expected age 10s, got %v", age)
	}
}

func TestGetEvictsExpiredEntry(t *testing.T) {
	clk := newFakeClock()
	c := NewTTLCache[string, string](0, clk)

	c.Set("WX1234567890123", "pending", 30*time.Second)
	clk.Advance(31 * time.Second)

	if _, _, ok := c.Get("WX1234567890123"); ok {
		t.Fatalf("expected stale read to miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expected lazy eviction to remove the entry, len=%d", c.Len())
	}
}

func TestStaleReadEvictionKeepsRacingWrite(t *testing.T) {
	clk := newFakeClock()
	c := NewTTLCache[string, string](0, clk)

	c.Set("WX1234567890123", "pending", 30*time.Second)
	clk.Advance(31 * time.Second)
	staleNow := clk.Now()

	// A fresh write lands between the stale read and its eviction.
	c.Set("WX1234567890123", "paid", 30*time.Second)
	c.deleteExpired("WX1234567890123", staleNow)

	got, _, ok := c.Get("WX1234567890123")
	if !ok || got != "paid" {
		t.Fatalf("fresh write must survive a stale-read eviction, got %q ok=%v", got, ok)
	}
}

func TestSetOverwritesUnconditionally(t *testing.T) {
	clk := newFakeClock()
	c := NewTTLCache[string, string](0, clk)

	c.Set("WX1234567890123", "pending", 30*time.Second)
	c.Set("WX1234567890123", "paid", 300*time.Second)

	value, _, ok := c.Get("WX1234567890123")
	if !ok || value != "paid" {
		t.Fatalf("expected last write to win, got %q ok=%v", value, ok)
	}
}

func TestSweepRemovesExpiredEntries(t *testing.T) {
	clk := newFakeClock()
	c := NewTTLCache[string, string](0, clk)

	c.Set("a", "1", 10*time.Second)
	c.Set("b", "2", 100*time.Second)
	clk.Advance(50 * time.Second)

	if evicted := c.Sweep(); evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry left, got %d", c.Len())
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	clk := newFakeClock()
	c := NewTTLCache[string, string](0, clk)

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("WX%013d", i), "x", 10*time.Second)
	}
	clk.Advance(20 * time.Second)

	c.Sweep()
	sizeAfterFirst := c.Len()
	if evicted := c.Sweep(); evicted != 0 {
		t.Fatalf("second sweep evicted %d entries", evicted)
	}
	if c.Len() != sizeAfterFirst {
		t.Fatalf("second sweep changed size from %d to %d", sizeAfterFirst, c.Len())
	}
}

func TestSweepEnforcesEntryCeiling(t *testing.T) {
	clk := newFakeClock()
	c := NewTTLCache[string, string](3, clk)

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("WX%013d", i), "x", time.Hour)
		clk.Advance(time.Second)
	}

	if evicted := c.Sweep(); evicted != 2 {
		t.Fatalf("expected 2 evictions over the ceiling, got %d", evicted)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.Len())
	}
	// The oldest-written entries go first.
	if _, _, ok := c.Get("WX0000000000000"); ok {
		t.Fatalf("expected oldest entry evicted")
	}
	if _, _, ok := c.Get("WX0000000000004"); !ok {
		t.Fatalf("expected newest entry kept")
	}
}

func TestClear(t *testing.T) {
	clk := newFakeClock()
	c := NewTTLCache[string, string](0, clk)

	c.Set("a", "1", time.Hour)
	c.Set("b", "2", time.Hour)
	c.Clear()

	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Len())
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	clk := newFakeClock()
	c := NewTTLCache[string, string](0, clk)

	c.Set("a", "1", 0)
	clk.Advance(24 * time.Hour)

	if _, _, ok := c.Get("a"); !ok {
		t.Fatalf("expected entry without TTL to survive")
	}
	if evicted := c.Sweep(); evicted != 0 {
		t.Fatalf("sweep evicted a TTL-less entry")
	}
}
