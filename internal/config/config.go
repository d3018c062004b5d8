package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/noah-isme/sales-report/internal/bonus"
	"github.com/noah-isme/sales-report/internal/pricing"
	"github.com/noah-isme/sales-report/internal/sales"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	RedisURL           string
	CORSAllowedOrigins []string

	Report ReportConfig
	Events EventsConfig
	Obs    ObsConfig
}

// ReportConfig controls seller report computation.
type ReportConfig struct {
	CacheTTL          time.Duration
	TopProducts       int
	SkipOrphanRecords bool
	RevenuePolicy     string
	BonusPolicy       string
	MaxBodyBytes      int64
	// RateLimit uses the "<limit>-<period>" form, e.g. "60-M". Empty disables limiting.
	RateLimit string
}

// EventsConfig controls domain event publishing.
type EventsConfig struct {
	ChannelPrefix string
}

// ObsConfig controls logging, metrics and tracing.
type ObsConfig struct {
	LogFormat        string
	LogLevel         string
	MetricsNamespace string
	EnablePrometheus bool
	EnableTracing    bool
	OTLPEndpoint     string
	SamplingRatio    float64
	HTTPBucketsMS    string
}

const defaultMaxBodyBytes = 10 << 20

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		Report: ReportConfig{
			CacheTTL:          parseDuration(k.String("REPORT_CACHE_TTL"), "10m"),
			SkipOrphanRecords: parseBool(k.String("REPORT_SKIP_ORPHAN_RECORDS"), false),
			RevenuePolicy:     valueOrDefault(k.String("REPORT_REVENUE_POLICY"), pricing.NameDiscounted),
			BonusPolicy:       valueOrDefault(k.String("REPORT_BONUS_POLICY"), bonus.NameProfitTiers),
			RateLimit:         strings.TrimSpace(k.String("REPORT_RATE_LIMIT")),
		},
		Events: EventsConfig{
			ChannelPrefix: valueOrDefault(k.String("EVENTS_CHANNEL_PREFIX"), "events:"),
		},
		Obs: ObsConfig{
			LogFormat:        valueOrDefault(k.String("OBS_LOG_FORMAT"), "json"),
			LogLevel:         valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
			MetricsNamespace: valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "sales_report"),
			EnablePrometheus: parseBool(k.String("OBS_ENABLE_PROMETHEUS"), true),
			EnableTracing:    parseBool(k.String("OBS_ENABLE_TRACING"), false),
			OTLPEndpoint:     strings.TrimSpace(k.String("OBS_OTLP_ENDPOINT")),
			HTTPBucketsMS:    k.String("OBS_HTTP_BUCKETS_MS"),
		},
	}

	var err error
	if cfg.Report.TopProducts, err = parseInt(k.String("REPORT_TOP_PRODUCTS"), sales.DefaultTopProducts); err != nil {
		return nil, fmt.Errorf("REPORT_TOP_PRODUCTS: %w", err)
	}
	if cfg.Report.MaxBodyBytes, err = parseInt64(k.String("REPORT_MAX_BODY_BYTES"), defaultMaxBodyBytes); err != nil {
		return nil, fmt.Errorf("REPORT_MAX_BODY_BYTES: %w", err)
	}
	if cfg.Obs.SamplingRatio, err = parseFloat(k.String("OBS_TRACING_SAMPLING_RATIO"), 1); err != nil {
		return nil, fmt.Errorf("OBS_TRACING_SAMPLING_RATIO: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Report.TopProducts < 1 || c.Report.TopProducts > sales.DefaultTopProducts {
		return fmt.Errorf("REPORT_TOP_PRODUCTS must be between 1 and %d", sales.DefaultTopProducts)
	}
	if c.Report.MaxBodyBytes <= 0 {
		return errors.New("REPORT_MAX_BODY_BYTES must be positive")
	}
	if c.Obs.SamplingRatio < 0 || c.Obs.SamplingRatio > 1 {
		return errors.New("OBS_TRACING_SAMPLING_RATIO must be within [0,1]")
	}
	if _, err := c.Policies(); err != nil {
		return err
	}
	return nil
}

// Policies resolves the configured revenue strategy and bonus ladder.
func (c *Config) Policies() (sales.Policies, error) {
	revenue, err := pricing.Lookup(c.Report.RevenuePolicy)
	if err != nil {
		return sales.Policies{}, fmt.Errorf("REPORT_REVENUE_POLICY: %w", err)
	}
	ladder, err := bonus.Lookup(c.Report.BonusPolicy)
	if err != nil {
		return sales.Policies{}, fmt.Errorf("REPORT_BONUS_POLICY: %w", err)
	}
	return sales.Policies{Revenue: revenue, Bonus: ladder}, nil
}

// PolicyKey identifies the configured policy pair for cache keys.
func (c *Config) PolicyKey() string {
	return strings.ToLower(strings.TrimSpace(c.Report.RevenuePolicy)) + "+" +
		strings.ToLower(strings.TrimSpace(c.Report.BonusPolicy))
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func parseInt(value string, fallback int) (int, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return strconv.Atoi(strings.TrimSpace(value))
}

func parseInt64(value string, fallback int64) (int64, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

func parseFloat(value string, fallback float64) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
