package throttle

import (
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

func newLimiter() (*Limiter, *fakeClock) {
	clk := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewLimiter(5, 2*time.Second, 10*time.Minute, clk), clk
}

func TestAllowPermitsBurstWithinWindow(t *testing.T) {
	l, _ := newLimiter()

	for i := 0; i < 5; i++ {
		if !l.Allow("10.0.0.1", "WX1234567890123") {
			t.Fatalf("call %d unexpectedly rejected", i+1)
		}
	}
	if l.Allow("10.0.0.1", "WX1234567890123") {
		t.Fatalf("6th call within window should be rejected")
	}
}

func TestWindowAgesOutNaturally(t *testing.T) {
	l, clk := newLimiter()

	for i := 0; i < 6; i++ {
		l.Allow("10.0.0.1", "WX1234567890123")
	}
	clk.Advance(2 * time.Second)

	if !l.Allow("10.0.0.1", "WX1234567890123") {
		t.Fatalf("call after a full window should succeed")
	}
}

func TestRejectionDoesNotExtendWindow(t *testing.T) {
	l, clk := newLimiter()

	for i := 0; i < 5; i++ {
		l.Allow("10.0.0.1", "WX1234567890123")
	}
	// Keep hammering just before the window closes; the window start must
	// stay pinned so the next window still opens on schedule.
	clk.Advance(1900 * time.Millisecond)
	if l.Allow("10.0.0.1", "WX1234567890123") {
		t.Fatalf("still inside window, should reject")
	}
	clk.Advance(100 * time.Millisecond)
	if !l.Allow("10.0.0.1", "WX1234567890123") {
		t.Fatalf("window elapsed, should accept")
	}
}

func TestPairsAreIndependent(t *testing.T) {
	l, _ := newLimiter()

	for i := 0; i < 5; i++ {
		l.Allow("10.0.0.1", "WX1234567890123")
	}
	if !l.Allow("10.0.0.2", "WX1234567890123") {
		t.Fatalf("different caller should have its own window")
	}
	if !l.Allow("10.0.0.1", "WX9999999999999") {
		t.Fatalf("different order should have its own window")
	}
}

func TestAllowRejectsEmptyKeys(t *testing.T) {
	l, _ := newLimiter()

	if l.Allow("", "WX1234567890123") {
		t.Fatalf("empty caller key should be rejected")
	}
	if l.Allow("10.0.0.1", "") {
		t.Fatalf("empty order id should be rejected")
	}
}

func TestSweepPurgesStalePairs(t *testing.T) {
	l, clk := newLimiter()

	l.Allow("10.0.0.1", "WX1234567890123")
	clk.Advance(5 * time.Minute)
	l.Allow("10.0.0.2", "WX9999999999999")
	clk.Advance(6 * time.Minute)

	if purged := l.Sweep(); purged != 1 {
		t.Fatalf("expected 1 purge, got %d", purged)
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 tracked pair, got %d", l.Len())
	}
}

func TestClearAndReset(t *testing.T) {
	l, _ := newLimiter()

	for i := 0; i < 5; i++ {
		l.Allow("10.0.0.1", "WX1234567890123")
	}
	l.Reset("10.0.0.1", "WX1234567890123")
	if !l.Allow("10.0.0.1", "WX1234567890123") {
		t.Fatalf("reset pair should be admitted")
	}

	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("expected no tracked pairs after clear")
	}
}
