package throttle

import (
	"sync"
	"time"

	"github.com/debdutisardar8903/wallineex-backend/internal/clock"
)

// Limiter bounds verification calls per (caller, order) pair with a
// fixed-window counter. The window is pinned at the first call; a rejected
// call does not extend it, so a hammering caller is admitted again once the
// window ages out. Bursts straddling a window boundary can admit up to twice
// the nominal rate.
type Limiter struct {
	limit    int
	window   time.Duration
	staleTTL time.Duration
	clk      clock.Clock

	mu    sync.Mutex
	items map[string]*entry
}

type entry struct {
	windowStart time.Time
	count       int
	lastSeen    time.Time
}

func NewLimiter(limit int, window, staleTTL time.Duration, clk clock.Clock) *Limiter {
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Limiter{
		limit:    limit,
		window:   window,
		staleTTL: staleTTL,
		clk:      clk,
		items:    make(map[string]*entry),
	}
}

// Allow reports whether another verification call is permitted for the pair.
func (l *Limiter) Allow(callerKey, orderID string) bool {
	if callerKey == "" || orderID == "" {
		return false
	}
	key := callerKey + "|" + orderID
	now := l.clk.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.items[key]
	if e == nil || now.Sub(e.windowStart) >= l.window {
		e = &entry{windowStart: now}
		l.items[key] = e
	}
	e.lastSeen = now

	if e.count >= l.limit {
		return false
	}
	e.count++
	return true
}

// Reset forgets the window for one pair.
func (l *Limiter) Reset(callerKey, orderID string) {
	l.mu.Lock()
	delete(l.items, callerKey+"|"+orderID)
	l.mu.Unlock()
}

// Clear forgets all throttle state.
func (l *Limiter) Clear() {
	l.mu.Lock()
	l.items = make(map[string]*entry)
	l.mu.Unlock()
}

// Len returns the tracked pair count.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Sweep purges pairs not seen within the staleness threshold. Returns the
// number of purged entries.
func (l *Limiter) Sweep() int {
	now := l.clk.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	purged := 0
	for key, e := range l.items {
		if now.Sub(e.lastSeen) > l.staleTTL {
			delete(l.items, key)
			purged++
		}
	}
	return purged
}
