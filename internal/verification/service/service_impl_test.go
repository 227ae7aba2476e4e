package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/debdutisardar8903/wallineex-backend/internal/cache"
	"github.com/debdutisardar8903/wallineex-backend/internal/config"
	"github.com/debdutisardar8903/wallineex-backend/internal/processor"
	"github.com/debdutisardar8903/wallineex-backend/internal/throttle"
	"github.com/debdutisardar8903/wallineex-backend/internal/verification/domain"
	"go.uber.org/zap"
)

const testOrderID = "WX1234567890123"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fakeProcessor struct {
	order       *processor.Order
	orderErr    error
	payments    []processor.Payment
	paymentsErr error

	orderCalls   int
	paymentCalls int
}

func (f *fakeProcessor) GetOrder(ctx context.Context, orderID string) (*processor.Order, error) {
	f.orderCalls++
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	order := *f.order
	return &order, nil
}

func (f *fakeProcessor) GetOrderPayments(ctx context.Context, orderID string) ([]processor.Payment, error) {
	f.paymentCalls++
	if f.paymentsErr != nil {
		return nil, f.paymentsErr
	}
	return f.payments, nil
}

func activeOrder() *processor.Order {
	return &processor.Order{
		OrderID:       testOrderID,
		OrderStatus:   "ACTIVE",
		OrderAmount:   499.0,
		OrderCurrency: "INR",
		Customer: processor.CustomerDetails{
			CustomerName:  "Test Customer",
			CustomerEmail: "test@example.com",
			CustomerPhone: "9999999999",
		},
	}
}

func paidOrder() *processor.Order {
	order := activeOrder()
	order.OrderStatus = "PAID"
	return order
}

type fixture struct {
	svc      domain.Service
	clk      *fakeClock
	remote   *fakeProcessor
	results  *cache.TTLCache[string, domain.Result]
	throttle *throttle.Limiter
}

func newFixture(remote *fakeProcessor) *fixture {
	clk := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	cfg := config.Config{
		Verification: config.Verification{
			CacheTTL:         30 * time.Second,
			PaidCacheTTL:     300 * time.Second,
			CacheMaxEntries:  100,
			ThrottleWindow:   2 * time.Second,
			ThrottleBurst:    5,
			ThrottleStaleTTL: 10 * time.Minute,
		},
	}
	results := cache.NewTTLCache[string, domain.Result](cfg.Verification.CacheMaxEntries, clk)
	limiter := throttle.NewLimiter(
		cfg.Verification.ThrottleBurst,
		cfg.Verification.ThrottleWindow,
		cfg.Verification.ThrottleStaleTTL,
		clk,
	)
	svc := NewService(Params{
		Log:       zap.NewNop(),
		Cfg:       cfg,
		Clock:     clk,
		Results:   results,
		Throttle:  limiter,
		Processor: remote,
	})
	return &fixture{svc: svc, clk: clk, remote: remote, results: results, throttle: limiter}
}

func TestVerifyRejectsMalformedOrderIDBeforeAnySideEffect(t *testing.T) {
	remote := &fakeProcessor{order: activeOrder()}
	f := newFixture(remote)

	for _, id := range []string{"", "WX123", "AB1234567890123", "WX1234567890123X", "wx1234567890123"} {
		if _, err := f.svc.Verify(context.Background(), id, "10.0.0.1"); !errors.Is(err, domain.ErrInvalidOrderID) {
			t.Fatalf("id %q: expected ErrInvalidOrderID, got %v", id, err)
		}
	}
	if remote.orderCalls != 0 {
		t.Fatalf("validation failure must not reach the processor")
	}
	if f.throttle.Len() != 0 {
		t.Fatalf("validation failure must not touch the throttle")
	}
	if f.results.Len() != 0 {
		t.Fatalf("validation failure must not touch the cache")
	}
}

func TestVerifyMissThenHit(t *testing.T) {
	remote := &fakeProcessor{order: activeOrder()}
	f := newFixture(remote)

	first, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if first.Cached {
		t.Fatalf("first verification must not be flagged cached")
	}
	if first.PaymentStatus != domain.PaymentStatusPending {
		t.Fatalf("ACTIVE order should derive PENDING, got %s", first.PaymentStatus)
	}

	f.clk.Advance(5 * time.Second)
	second, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !second.Cached {
		t.Fatalf("second verification within TTL should be cached")
	}
	if second.CacheAgeSec != 5 {
		t.Fatalf("expected cache age 5s, got %d", second.CacheAgeSec)
	}
	if second.OrderStatus != first.OrderStatus || second.PaymentStatus != first.PaymentStatus {
		t.Fatalf("cached result differs from original")
	}
	if remote.orderCalls != 1 {
		t.Fatalf("cache hit must not trigger a remote call, calls=%d", remote.orderCalls)
	}
}

func TestVerifyRefetchesAfterTTL(t *testing.T) {
	remote := &fakeProcessor{order: activeOrder()}
	f := newFixture(remote)

	if _, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	f.clk.Advance(31 * time.Second)

	result, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Cached {
		t.Fatalf("expired entry should force a re-fetch")
	}
	if remote.orderCalls != 2 {
		t.Fatalf("expected exactly 2 remote calls, got %d", remote.orderCalls)
	}
}

func TestVerifyThrottlesSixthCall(t *testing.T) {
	remote := &fakeProcessor{order: activeOrder()}
	f := newFixture(remote)

	for i := 0; i < 5; i++ {
		if _, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1"); err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
	}
	if _, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1"); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if remote.orderCalls != 1 {
		t.Fatalf("throttle rejection must not reach the processor")
	}

	f.clk.Advance(2 * time.Second)
	if _, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1"); err != nil {
		t.Fatalf("call after window: %v", err)
	}
}

func TestVerifyPaidOrderEnrichedAndCachedLonger(t *testing.T) {
	remote := &fakeProcessor{
		order: paidOrder(),
		payments: []processor.Payment{
			{PaymentStatus: "FAILED", PaymentGroup: "card"},
			{PaymentStatus: "SUCCESS", PaymentGroup: "upi", BankReference: "ref-123"},
		},
	}
	f := newFixture(remote)

	result, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.PaymentStatus != domain.PaymentStatusSuccess {
		t.Fatalf("PAID order should derive SUCCESS, got %s", result.PaymentStatus)
	}
	if result.Payment == nil || result.Payment.PaymentGroup != "upi" || result.Payment.BankReference != "ref-123" {
		t.Fatalf("expected enrichment from the successful payment, got %+v", result.Payment)
	}

	// Confirmed-paid results live under the longer TTL class.
	f.clk.Advance(200 * time.Second)
	cached, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !cached.Cached {
		t.Fatalf("paid result should still be cached after 200s")
	}
	if remote.orderCalls != 1 {
		t.Fatalf("expected 1 remote call, got %d", remote.orderCalls)
	}
}

func TestVerifyReturnsIndependentCopies(t *testing.T) {
	remote := &fakeProcessor{
		order: paidOrder(),
		payments: []processor.Payment{
			{PaymentStatus: "SUCCESS", PaymentGroup: "upi", BankReference: "ref-123"},
		},
	}
	f := newFixture(remote)

	first, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if first.Payment == nil {
		t.Fatalf("expected enrichment detail")
	}
	first.Payment.BankReference = "tampered"
	first.Customer.Email = "tampered"

	second, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !second.Cached {
		t.Fatalf("expected a cache hit")
	}
	if second.Payment == nil || second.Payment.BankReference != "ref-123" {
		t.Fatalf("caller mutation leaked into the cache, got %+v", second.Payment)
	}
	if second.Payment == first.Payment {
		t.Fatalf("cache hit must not share payment detail with an earlier caller")
	}
}

func TestVerifyEnrichmentFailureIsNotFatal(t *testing.T) {
	remote := &fakeProcessor{
		order:       paidOrder(),
		paymentsErr: &processor.UpstreamError{StatusCode: 500, Message: "boom"},
	}
	f := newFixture(remote)

	result, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1")
	if err != nil {
		t.Fatalf("enrichment failure must not fail verification: %v", err)
	}
	if result.PaymentStatus != domain.PaymentStatusSuccess {
		t.Fatalf("expected SUCCESS, got %s", result.PaymentStatus)
	}
	if result.Payment != nil {
		t.Fatalf("failed enrichment should leave payment detail empty")
	}
}

func TestVerifyExpiredOrderDerivesFailed(t *testing.T) {
	order := activeOrder()
	order.OrderStatus = "EXPIRED"
	remote := &fakeProcessor{order: order}
	f := newFixture(remote)

	result, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.PaymentStatus != domain.PaymentStatusFailed {
		t.Fatalf("EXPIRED order should derive FAILED, got %s", result.PaymentStatus)
	}
	if remote.paymentCalls != 0 {
		t.Fatalf("non-PAID order must not trigger enrichment")
	}
}

func TestVerifyNotFoundAndUpstreamFailuresAreNotCached(t *testing.T) {
	remote := &fakeProcessor{orderErr: processor.ErrOrderNotFound}
	f := newFixture(remote)

	if _, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1"); !errors.Is(err, processor.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	remote.orderErr = &processor.UpstreamError{StatusCode: 503, Message: "unavailable"}
	var upstream *processor.UpstreamError
	if _, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1"); !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}

	if f.results.Len() != 0 {
		t.Fatalf("failures must not populate the cache")
	}
	if remote.orderCalls != 2 {
		t.Fatalf("each failed verification makes exactly one remote attempt, calls=%d", remote.orderCalls)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	remote := &fakeProcessor{order: activeOrder()}
	f := newFixture(remote)

	if _, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	f.svc.Invalidate(testOrderID)

	result, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Cached {
		t.Fatalf("invalidated entry should force a re-fetch")
	}
	if remote.orderCalls != 2 {
		t.Fatalf("expected 2 remote calls, got %d", remote.orderCalls)
	}
}

func TestClearStateResetsCacheAndThrottle(t *testing.T) {
	remote := &fakeProcessor{order: activeOrder()}
	f := newFixture(remote)

	for i := 0; i < 5; i++ {
		if _, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1"); err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
	}
	f.svc.ClearState()

	result, err := f.svc.Verify(context.Background(), testOrderID, "10.0.0.1")
	if err != nil {
		t.Fatalf("verify after clear: %v", err)
	}
	if result.Cached {
		t.Fatalf("cleared cache should miss")
	}
}
