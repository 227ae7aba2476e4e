package processor

import (
	"github.com/bwmarrin/snowflake"
	"github.com/debdutisardar8903/wallineex-backend/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("processor",
	fx.Provide(func(cfg config.Config, log *zap.Logger, genID *snowflake.Node) *Client {
		return NewClient(cfg.Cashfree, log, genID)
	}),
)
