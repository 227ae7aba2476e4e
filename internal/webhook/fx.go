package webhook

import (
	"github.com/debdutisardar8903/wallineex-backend/internal/clock"
	"github.com/debdutisardar8903/wallineex-backend/internal/config"
	"github.com/debdutisardar8903/wallineex-backend/internal/webhook/service"
	"github.com/debdutisardar8903/wallineex-backend/internal/webhook/signature"
	"go.uber.org/fx"
)

var Module = fx.Module("webhook.service",
	fx.Provide(func(cfg config.Config, clk clock.Clock) *signature.Verifier {
		return signature.NewVerifier(cfg.Cashfree.ClientSecret, cfg.Webhook.FreshnessWindow, clk)
	}),
	fx.Provide(service.NewService),
)
