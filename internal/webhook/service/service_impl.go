package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/debdutisardar8903/wallineex-backend/internal/cache"
	"github.com/debdutisardar8903/wallineex-backend/internal/observability/metrics"
	verificationdomain "github.com/debdutisardar8903/wallineex-backend/internal/verification/domain"
	"github.com/debdutisardar8903/wallineex-backend/internal/webhook/domain"
	"github.com/debdutisardar8903/wallineex-backend/internal/webhook/signature"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Verifier *signature.Verifier
	Results  cache.Cache[string, verificationdomain.Result]
	Metrics  *metrics.VerificationMetrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	verifier *signature.Verifier
	results  cache.Cache[string, verificationdomain.Result]
	metrics  *metrics.VerificationMetrics
}

func NewService(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("webhook.service"),
		verifier: p.Verifier,
		results:  p.Results,
		metrics:  p.Metrics,
	}
}

// IngestEvent authenticates a delivery, parses it, and applies the cache
// mutation for the event type. A PAYMENT_SUCCESS invalidates the entry so
// the next verification re-fetches authoritative state; other known types
// need no mutation because the order status is naturally non-PAID on the
// next query.
func (s *Service) IngestEvent(ctx context.Context, rawBody []byte, headers http.Header) error {
	err := s.verifier.Verify(
		rawBody,
		strings.TrimSpace(headers.Get(domain.HeaderTimestamp)),
		strings.TrimSpace(headers.Get(domain.HeaderSignature)),
	)
	if err != nil {
		s.metrics.WebhookDelivery("auth_failed")
		s.log.Warn("webhook signature rejected", zap.Error(err))
		return err
	}

	var event domain.Event
	if !json.Valid(rawBody) {
		s.metrics.WebhookDelivery("malformed")
		return domain.ErrInvalidPayload
	}
	if err := json.Unmarshal(rawBody, &event); err != nil {
		s.metrics.WebhookDelivery("malformed")
		return domain.ErrInvalidPayload
	}

	orderID := strings.TrimSpace(event.Data.Order.OrderID)
	switch event.Type {
	case domain.EventPaymentSuccess:
		if orderID != "" {
			s.results.Delete(orderID)
		}
		s.metrics.WebhookDelivery("ok")
		s.log.Info("payment success webhook processed",
			zap.String("order_id", orderID),
		)
	case domain.EventPaymentFailed, domain.EventPaymentUserDropped:
		s.metrics.WebhookDelivery("ok")
		s.log.Info("payment webhook acknowledged without mutation",
			zap.String("order_id", orderID),
			zap.String("event_type", event.Type),
		)
	default:
		s.metrics.WebhookDelivery("ignored")
		s.log.Debug("unrecognized webhook event acknowledged",
			zap.String("event_type", event.Type),
		)
	}
	return nil
}
