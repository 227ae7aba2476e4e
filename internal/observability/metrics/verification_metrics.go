package metrics

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config labels metrics with the service identity.
type Config struct {
	ServiceName string
	Environment string
}

// VerificationMetrics captures the verification hot path: cache behavior,
// throttle rejections, upstream calls, and webhook outcomes.
type VerificationMetrics struct {
	cacheLookups      *prometheus.CounterVec
	throttleRejected  prometheus.Counter
	upstreamCalls     *prometheus.CounterVec
	upstreamLatency   prometheus.Histogram
	webhookDeliveries *prometheus.CounterVec
}

var (
	verificationMetricsOnce sync.Once
	verificationMetrics     *VerificationMetrics
)

func Verification() *VerificationMetrics {
	return VerificationWithConfig(Config{})
}

func VerificationWithConfig(cfg Config) *VerificationMetrics {
	verificationMetricsOnce.Do(func() {
		verificationMetrics = newVerificationMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return verificationMetrics
}

func ResetVerificationMetricsForTest() {
	verificationMetricsOnce = sync.Once{}
	verificationMetrics = nil
}

func newVerificationMetrics(registerer prometheus.Registerer, cfg Config) *VerificationMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "wallineex"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "development"
	}
	constLabels := prometheus.Labels{
		"service":     serviceName,
		"environment": environment,
	}

	m := &VerificationMetrics{
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "verification_cache_lookups_total",
			Help:        "Result cache lookups by outcome (hit, miss).",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		throttleRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "verification_throttle_rejected_total",
			Help:        "Verification calls rejected by the per-(caller, order) throttle.",
			ConstLabels: constLabels,
		}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "verification_upstream_calls_total",
			Help:        "Processor calls by outcome (ok, not_found, failure).",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		upstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "verification_upstream_latency_seconds",
			Help:        "Latency of processor order lookups.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}),
		webhookDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "webhook_deliveries_total",
			Help:        "Webhook deliveries by outcome (ok, auth_failed, malformed, ignored).",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
	}

	collectors := []prometheus.Collector{
		m.cacheLookups,
		m.throttleRejected,
		m.upstreamCalls,
		m.upstreamLatency,
		m.webhookDeliveries,
	}
	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				panic(err)
			}
		}
	}
	return m
}

func (m *VerificationMetrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("hit").Inc()
}

func (m *VerificationMetrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

func (m *VerificationMetrics) ThrottleRejected() {
	if m == nil {
		return
	}
	m.throttleRejected.Inc()
}

func (m *VerificationMetrics) UpstreamCall(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamCalls.WithLabelValues(outcome).Inc()
	m.upstreamLatency.Observe(duration.Seconds())
}

func (m *VerificationMetrics) WebhookDelivery(outcome string) {
	if m == nil {
		return
	}
	m.webhookDeliveries.WithLabelValues(outcome).Inc()
}
