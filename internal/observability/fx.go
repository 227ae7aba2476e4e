package observability

import (
	"github.com/debdutisardar8903/wallineex-backend/internal/config"
	"github.com/debdutisardar8903/wallineex-backend/internal/observability/metrics"
	"github.com/debdutisardar8903/wallineex-backend/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Invoke(func(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) error {
		_, err := tracing.NewProvider(lc, tracing.Config{
			Enabled:          cfg.Tracing.Enabled,
			ServiceName:      cfg.ServiceName,
			ServiceVersion:   cfg.ServiceVersion,
			Environment:      cfg.Environment,
			ExporterEndpoint: cfg.Tracing.ExporterEndpoint,
			ExporterProtocol: cfg.Tracing.ExporterProtocol,
			SamplingRatio:    cfg.Tracing.SamplingRatio,
		}, log)
		return err
	}),
	fx.Provide(func(cfg config.Config) *metrics.VerificationMetrics {
		return metrics.VerificationWithConfig(metrics.Config{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Environment,
		})
	}),
	fx.Provide(metrics.HTTP),
)
