package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/warehouse-report/internal/abc"
)

// Data source kinds.
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// DefaultViews lists every report view in print order.
var DefaultViews = []string{"tariffs", "products", "orders", "shares", "abc"}

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DataSource         string
	DataFile           string
	DataURL            string
	DataHTTPTimeout    time.Duration
	DatabaseURL        string
	RedisURL           string
	ReportCacheTTL     time.Duration
	ReportViews        []string
	ABC                abc.Options
	CORSAllowedOrigins []string
	LogFormat          string
	LogLevel           string
}

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
		DataSource:         strings.ToLower(valueOrDefault(k.String("DATA_SOURCE"), SourceFile)),
		DataFile:           valueOrDefault(k.String("DATA_FILE"), "trial_task.json"),
		DataURL:            strings.TrimSpace(k.String("DATA_URL")),
		DataHTTPTimeout:    parseDuration(k.String("DATA_HTTP_TIMEOUT"), "10s"),
		DatabaseURL:        strings.TrimSpace(k.String("DATABASE_URL")),
		RedisURL:           strings.TrimSpace(k.String("REDIS_URL")),
		ReportCacheTTL:     parseDuration(k.String("REPORT_CACHE_TTL"), "5m"),
		ReportViews:        splitAndTrim(k.String("REPORT_VIEWS")),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		LogFormat:          valueOrDefault(k.String("OBS_LOG_FORMAT"), "console"),
		LogLevel:           valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),
	}
	if len(cfg.ReportViews) == 0 {
		cfg.ReportViews = append([]string(nil), DefaultViews...)
	}

	abcOpts, err := parseABC(k)
	if err != nil {
		return nil, err
	}
	cfg.ABC = abcOpts

	switch cfg.DataSource {
	case SourceFile:
	case SourceHTTP:
		if cfg.DataURL == "" {
			return nil, errors.New("DATA_URL is required when DATA_SOURCE=http")
		}
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL is required when DATA_SOURCE=postgres")
		}
	default:
		return nil, fmt.Errorf("DATA_SOURCE must be one of %q, %q, %q; got %q", SourceFile, SourceHTTP, SourcePostgres, cfg.DataSource)
	}
	for _, view := range cfg.ReportViews {
		if !knownView(view) {
			return nil, fmt.Errorf("REPORT_VIEWS: unknown view %q", view)
		}
	}

	return cfg, nil
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

func parseABC(k *koanf.Koanf) (abc.Options, error) {
	opts := abc.DefaultOptions()
	if raw := strings.TrimSpace(k.String("ABC_THRESHOLD_A")); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return opts, fmt.Errorf("ABC_THRESHOLD_A: %w", err)
		}
		opts.ThresholdA = v
	}
	if raw := strings.TrimSpace(k.String("ABC_THRESHOLD_B")); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return opts, fmt.Errorf("ABC_THRESHOLD_B: %w", err)
		}
		opts.ThresholdB = v
	}
	order, err := abc.ParsePercentOrder(k.String("ABC_PERCENT_ORDER"))
	if err != nil {
		return opts, fmt.Errorf("ABC_PERCENT_ORDER: %w", err)
	}
	opts.Order = order
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func knownView(view string) bool {
	for _, v := range DefaultViews {
		if v == view {
			return true
		}
	}
	return false
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
