package service

import (
	"context"
	"errors"
	"time"

	"github.com/debdutisardar8903/wallineex-backend/internal/cache"
	"github.com/debdutisardar8903/wallineex-backend/internal/clock"
	"github.com/debdutisardar8903/wallineex-backend/internal/config"
	"github.com/debdutisardar8903/wallineex-backend/internal/observability/metrics"
	"github.com/debdutisardar8903/wallineex-backend/internal/processor"
	"github.com/debdutisardar8903/wallineex-backend/internal/throttle"
	"github.com/debdutisardar8903/wallineex-backend/internal/verification/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ProcessorClient is the slice of the remote API the orchestrator needs.
type ProcessorClient interface {
	GetOrder(ctx context.Context, orderID string) (*processor.Order, error)
	GetOrderPayments(ctx context.Context, orderID string) ([]processor.Payment, error)
}

type Params struct {
	fx.In

	Log       *zap.Logger
	Cfg       config.Config
	Clock     clock.Clock
	Results   cache.Cache[string, domain.Result]
	Throttle  *throttle.Limiter
	Processor ProcessorClient
	Metrics   *metrics.VerificationMetrics `optional:"true"`
}

type Service struct {
	log       *zap.Logger
	cfg       config.Verification
	clk       clock.Clock
	results   cache.Cache[string, domain.Result]
	throttle  *throttle.Limiter
	processor ProcessorClient
	metrics   *metrics.VerificationMetrics
}

func NewService(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("verification.service"),
		cfg:       p.Cfg.Verification,
		clk:       p.Clock,
		results:   p.Results,
		throttle:  p.Throttle,
		processor: p.Processor,
		metrics:   p.Metrics,
	}
}

// Verify runs one verification: validate, throttle, cache, then at most one
// remote fetch. Two near-simultaneous misses may both reach the processor;
// the last write wins and both writes carry the same remote truth.
func (s *Service) Verify(ctx context.Context, orderID string, callerKey string) (*domain.Result, error) {
	if !domain.ValidOrderID(orderID) {
		return nil, domain.ErrInvalidOrderID
	}

	if !s.throttle.Allow(callerKey, orderID) {
		s.metrics.ThrottleRejected()
		return nil, domain.ErrRateLimited
	}

	if cached, age, ok := s.results.Get(orderID); ok {
		s.metrics.CacheHit()
		hit := cached.Clone()
		hit.Cached = true
		hit.CacheAgeSec = int64(age.Seconds())
		return &hit, nil
	}
	s.metrics.CacheMiss()

	start := time.Now()
	order, err := s.processor.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, processor.ErrOrderNotFound) {
			s.metrics.UpstreamCall("not_found", time.Since(start))
			return nil, err
		}
		s.metrics.UpstreamCall("failure", time.Since(start))
		s.log.Warn("processor order lookup failed",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return nil, err
	}
	s.metrics.UpstreamCall("ok", time.Since(start))

	result := s.normalize(order)
	if result.PaymentStatus == domain.PaymentStatusSuccess {
		s.enrich(ctx, &result)
	}

	ttl := s.cfg.CacheTTL
	if result.PaymentStatus == domain.PaymentStatusSuccess {
		ttl = s.cfg.PaidCacheTTL
	}
	s.results.Set(orderID, result.Clone(), ttl)

	return &result, nil
}

// Invalidate drops the cached result for one order.
func (s *Service) Invalidate(orderID string) {
	s.results.Delete(orderID)
}

// ClearState drops all cached results and throttle windows. Privileged
// maintenance surface only.
func (s *Service) ClearState() {
	s.results.Clear()
	s.throttle.Clear()
}

func (s *Service) normalize(order *processor.Order) domain.Result {
	status := domain.OrderStatus(order.OrderStatus)
	return domain.Result{
		OrderID:       order.OrderID,
		OrderStatus:   status,
		PaymentStatus: domain.PaymentStatusFor(status),
		OrderAmount:   order.OrderAmount,
		OrderCurrency: order.OrderCurrency,
		Customer: domain.CustomerSummary{
			Name:  order.Customer.CustomerName,
			Email: domain.MaskEmail(order.Customer.CustomerEmail),
			Phone: domain.MaskPhone(order.Customer.CustomerPhone),
		},
		VerifiedAt: s.clk.Now(),
	}
}

// enrich attaches payment-method detail for a confirmed-paid order. Failure
// here never fails the verification; the detail is simply omitted.
func (s *Service) enrich(ctx context.Context, result *domain.Result) {
	payments, err := s.processor.GetOrderPayments(ctx, result.OrderID)
	if err != nil {
		s.log.Warn("payment detail fetch failed",
			zap.String("order_id", result.OrderID),
			zap.Error(err),
		)
		return
	}
	for _, payment := range payments {
		if payment.PaymentStatus != "SUCCESS" {
			continue
		}
		result.Payment = &domain.PaymentDetail{
			PaymentGroup:  payment.PaymentGroup,
			PaymentMethod: payment.MethodName(),
			BankReference: payment.BankReference,
		}
		return
	}
}
