package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweepable is any store that can purge dead entries and report how many went.
type Sweepable interface {
	Sweep() int
}

// Sweeper periodically sweeps a set of stores. One sweeper serves both the
// result cache and the throttle so there is a single background ticker in
// the process.
type Sweeper struct {
	log      *zap.Logger
	interval time.Duration
	targets  []Sweepable
}

func NewSweeper(log *zap.Logger, interval time.Duration, targets ...Sweepable) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{
		log:      log.Named("cache.sweeper"),
		interval: interval,
		targets:  targets,
	}
}

// RunForever sweeps on a fixed interval until the context is cancelled.
func (s *Sweeper) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// RunOnce sweeps every registered store once.
func (s *Sweeper) RunOnce() {
	evicted := 0
	for _, target := range s.targets {
		evicted += target.Sweep()
	}
	if evicted > 0 {
		s.log.Debug("sweep evicted entries", zap.Int("evicted", evicted))
	}
}
