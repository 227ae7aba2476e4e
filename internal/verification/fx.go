package verification

import (
	"context"

	"github.com/debdutisardar8903/wallineex-backend/internal/cache"
	"github.com/debdutisardar8903/wallineex-backend/internal/clock"
	"github.com/debdutisardar8903/wallineex-backend/internal/config"
	"github.com/debdutisardar8903/wallineex-backend/internal/processor"
	"github.com/debdutisardar8903/wallineex-backend/internal/throttle"
	"github.com/debdutisardar8903/wallineex-backend/internal/verification/domain"
	"github.com/debdutisardar8903/wallineex-backend/internal/verification/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("verification.service",
	fx.Provide(func(cfg config.Config, clk clock.Clock) *cache.TTLCache[string, domain.Result] {
		return cache.NewTTLCache[string, domain.Result](cfg.Verification.CacheMaxEntries, clk)
	}),
	fx.Provide(func(c *cache.TTLCache[string, domain.Result]) cache.Cache[string, domain.Result] {
		return c
	}),
	fx.Provide(func(cfg config.Config, clk clock.Clock) *throttle.Limiter {
		return throttle.NewLimiter(
			cfg.Verification.ThrottleBurst,
			cfg.Verification.ThrottleWindow,
			cfg.Verification.ThrottleStaleTTL,
			clk,
		)
	}),
	fx.Provide(func(c *processor.Client) service.ProcessorClient {
		return c
	}),
	fx.Provide(service.NewService),
	fx.Invoke(runSweeper),
)

// runSweeper starts the one background task: the periodic sweep bounding
// cache and throttle memory.
func runSweeper(
	lc fx.Lifecycle,
	cfg config.Config,
	log *zap.Logger,
	results *cache.TTLCache[string, domain.Result],
	limiter *throttle.Limiter,
) {
	sweeper := cache.NewSweeper(log, cfg.Verification.SweepInterval, results, limiter)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go sweeper.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
