package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/debdutisardar8903/wallineex-backend/internal/config"
	"github.com/debdutisardar8903/wallineex-backend/internal/observability/logger"
	"github.com/debdutisardar8903/wallineex-backend/internal/observability/metrics"
	verificationdomain "github.com/debdutisardar8903/wallineex-backend/internal/verification/domain"
	webhookdomain "github.com/debdutisardar8903/wallineex-backend/internal/webhook/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg         config.Config
	Log         *zap.Logger
	GenID       *snowflake.Node
	VerifySvc   verificationdomain.Service
	WebhookSvc  webhookdomain.Service
	HTTPMetrics *metrics.HTTPMetrics `optional:"true"`
}

type Server struct {
	cfg        config.Config
	log        *zap.Logger
	engine     *gin.Engine
	verifySvc  verificationdomain.Service
	webhookSvc webhookdomain.Service
}

// NewEngine assembles the gin engine with recovery, request logging, and
// HTTP metrics. Routing itself stays thin; all behavior lives in services.
func NewEngine(p Params) *gin.Engine {
	if p.Cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		Log:       p.Log,
		GenID:     p.GenID,
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	engine.Use(metrics.GinMiddleware(p.HTTPMetrics))
	return engine
}

func NewServer(p Params, engine *gin.Engine) *Server {
	return &Server{
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		engine:     engine,
		verifySvc:  p.VerifySvc,
		webhookSvc: p.WebhookSvc,
	}
}

func (s *Server) RegisterRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	api.POST("/verify-payment", s.VerifyPayment)
	api.POST("/payment-webhook", s.PaymentWebhook)

	admin := s.engine.Group("/admin", s.AdminRequired())
	admin.POST("/cache/invalidate", s.AdminInvalidate)
	admin.POST("/cache/clear", s.AdminClear)
}

// RunHTTP binds the listener through fx lifecycle hooks so shutdown drains
// in-flight requests before the sweeper and tracer stop.
func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", s.cfg.ListenAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
