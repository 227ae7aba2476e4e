package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/debdutisardar8903/wallineex-backend/internal/clock"
	"github.com/debdutisardar8903/wallineex-backend/internal/config"
	"github.com/debdutisardar8903/wallineex-backend/internal/observability"
	"github.com/debdutisardar8903/wallineex-backend/internal/observability/logger"
	"github.com/debdutisardar8903/wallineex-backend/internal/processor"
	"github.com/debdutisardar8903/wallineex-backend/internal/server"
	"github.com/debdutisardar8903/wallineex-backend/internal/verification"
	"github.com/debdutisardar8903/wallineex-backend/internal/webhook"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		clock.Module,

		processor.Module,
		verification.Module,
		webhook.Module,

		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) {
			s.RegisterRoutes()
		}),
		fx.Invoke(server.RunHTTP),
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
