package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	cashfreeSandboxBaseURL    = "https://sandbox.cashfree.com/pg"
	cashfreeProductionBaseURL = "https://api.cashfree.com/pg"
)

// Cashfree holds the credentials and endpoint for the payment processor.
// The client secret signs outbound requests and verifies inbound webhooks.
type Cashfree struct {
	Env          string
	BaseURL      string
	APIVersion   string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Verification tunes the result cache and the per-(caller, order) throttle.
type Verification struct {
	CacheTTL         time.Duration
	PaidCacheTTL     time.Duration
	CacheMaxEntries  int
	SweepInterval    time.Duration
	ThrottleWindow   time.Duration
	ThrottleBurst    int
	ThrottleStaleTTL time.Duration
}

// Webhook tunes signature freshness for processor-pushed events.
type Webhook struct {
	FreshnessWindow time.Duration
}

// Tracing configures the OTLP exporter.
type Tracing struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// Config is resolved once at startup and passed into components.
// Nothing below internal/config reads environment variables directly.
type Config struct {
	ListenAddr     string
	Environment    string
	ServiceName    string
	ServiceVersion string
	AdminToken     string
	Cashfree       Cashfree
	Verification   Verification
	Webhook        Webhook
	Tracing        Tracing
}

// Load reads an optional .env file, then resolves the configuration from the
// environment. Missing processor credentials are a startup error, not a
// runtime surprise.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:     envString("LISTEN_ADDR", ":8080"),
		Environment:    envString("APP_ENV", "development"),
		ServiceName:    envString("SERVICE_NAME", "wallineex-backend"),
		ServiceVersion: envString("SERVICE_VERSION", "dev"),
		AdminToken:     strings.TrimSpace(os.Getenv("ADMIN_TOKEN")),
		Cashfree: Cashfree{
			Env:          strings.ToLower(envString("CASHFREE_ENV", "sandbox")),
			APIVersion:   envString("CASHFREE_API_VERSION", "2023-08-01"),
			ClientID:     strings.TrimSpace(os.Getenv("CASHFREE_CLIENT_ID")),
			ClientSecret: strings.TrimSpace(os.Getenv("CASHFREE_CLIENT_SECRET")),
			Timeout:      envDuration("CASHFREE_TIMEOUT", 30*time.Second),
		},
		Verification: Verification{
			CacheTTL:         envDuration("VERIFY_CACHE_TTL", 30*time.Second),
			PaidCacheTTL:     envDuration("VERIFY_PAID_CACHE_TTL", 300*time.Second),
			CacheMaxEntries:  envInt("VERIFY_CACHE_MAX_ENTRIES", 100),
			SweepInterval:    envDuration("VERIFY_SWEEP_INTERVAL", 5*time.Minute),
			ThrottleWindow:   envDuration("VERIFY_THROTTLE_WINDOW", 2*time.Second),
			ThrottleBurst:    envInt("VERIFY_THROTTLE_BURST", 5),
			ThrottleStaleTTL: envDuration("VERIFY_THROTTLE_STALE_TTL", 10*time.Minute),
		},
		Webhook: Webhook{
			FreshnessWindow: envDuration("WEBHOOK_FRESHNESS_WINDOW", 300*time.Second),
		},
		Tracing: Tracing{
			Enabled:          envBool("TRACING_ENABLED", false),
			ExporterEndpoint: strings.TrimSpace(os.Getenv("OTLP_EXPORTER_ENDPOINT")),
			ExporterProtocol: envString("OTLP_EXPORTER_PROTOCOL", "grpc"),
			SamplingRatio:    envFloat("TRACING_SAMPLING_RATIO", 0.1),
		},
	}

	switch cfg.Cashfree.Env {
	case "production":
		cfg.Cashfree.BaseURL = cashfreeProductionBaseURL
	case "sandbox":
		cfg.Cashfree.BaseURL = cashfreeSandboxBaseURL
	default:
		return Config{}, fmt.Errorf("unsupported CASHFREE_ENV %q", cfg.Cashfree.Env)
	}
	if override := strings.TrimSpace(os.Getenv("CASHFREE_BASE_URL")); override != "" {
		cfg.Cashfree.BaseURL = strings.TrimRight(override, "/")
	}

	if cfg.Cashfree.ClientID == "" || cfg.Cashfree.ClientSecret == "" {
		return Config{}, fmt.Errorf("CASHFREE_CLIENT_ID and CASHFREE_CLIENT_SECRET are required")
	}

	return cfg, nil
}

// IsProduction reports whether the app runs with production error redaction.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func envString(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
