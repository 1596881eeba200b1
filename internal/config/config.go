package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all console configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Backend
	BaseURL        string
	StripAPIPrefix bool // historical backend revision served paths without /api

	// Tenant injection
	TenantHeader     string
	TenantQueryParam string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Notifications
	NotificationTTL time.Duration

	// Durable client state
	StateFile string

	// Observability
	LogLevel       string
	OTLPEndpoint   string
	TracingEnabled bool

	// Local admin endpoint (/healthz, /metrics)
	AdminEnabled bool
	AdminPort    int
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		BaseURL:        getEnv("NL_API_URL", "https://next-level-backend.onrender.com"),
		StripAPIPrefix: getEnv("NL_STRIP_API_PREFIX", "false") == "true",

		TenantHeader:     getEnv("NL_TENANT_HEADER", "X-Company-Id"),
		TenantQueryParam: getEnv("NL_TENANT_PARAM", "companyId"),

		HTTPTimeout: getEnvDuration("NL_HTTP_TIMEOUT", 15*time.Second),

		MaxRetries:     getEnvInt("NL_MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("NL_INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("NL_MAX_CONCURRENCY", 8),

		NotificationTTL: getEnvDuration("NL_NOTIFICATION_TTL", 3500*time.Millisecond),

		StateFile: getEnv("NL_STATE_FILE", defaultStateFile()),

		LogLevel:       getEnv("NL_LOG_LEVEL", "info"),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled: getEnv("NL_TRACING", "false") == "true",

		AdminEnabled: getEnv("NL_ADMIN", "false") == "true",
		AdminPort:    getEnvInt("NL_ADMIN_PORT", 9464),
	}
}

// defaultStateFile places durable state under the user config dir,
// falling back to the working directory when none is resolvable.
func defaultStateFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".nlc-state.yml"
	}
	return filepath.Join(dir, "nlc", "state.yml")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
