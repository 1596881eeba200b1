package main

import (
	"context"
	"net/http"
	"os"

	"github.com/nextlevel/nl-console-go/internal/admin"
	"github.com/nextlevel/nl-console-go/internal/api"
	"github.com/nextlevel/nl-console-go/internal/config"
	"github.com/nextlevel/nl-console-go/internal/event"
	"github.com/nextlevel/nl-console-go/internal/infra/observability"
	"github.com/nextlevel/nl-console-go/internal/infra/resilience"
	"github.com/nextlevel/nl-console-go/internal/notify"
	"github.com/nextlevel/nl-console-go/internal/session"
	"github.com/nextlevel/nl-console-go/internal/ui"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Debug("configuration loaded",
		zap.String("base_url", cfg.BaseURL),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("notification_ttl", cfg.NotificationTTL),
		zap.String("state_file", cfg.StateFile),
	)

	// --- Tracing ---
	if cfg.TracingEnabled {
		shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "nl-console")
		if err != nil {
			logger.Fatal("failed to init tracer", zap.Error(err))
		}
		defer shutdown(context.Background())
	}

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Event bus ---
	bus := event.NewBus()

	// --- Session store ---
	storage := session.NewFileStorage(cfg.StateFile)
	store := session.NewStore(storage, bus, logger)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("next-level-backend")

	// --- Backend client ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	policy := api.DefaultPolicy()
	policy.StripAPIPrefix = cfg.StripAPIPrefix
	policy.TenantHeader = cfg.TenantHeader
	policy.TenantQueryParam = cfg.TenantQueryParam

	client := api.NewClient(httpClient, cfg.BaseURL, policy, store, cb, resilienceCfg, metrics, logger)
	store.Bind(client, client, client)

	// --- Session bootstrap ---
	store.Bootstrap(context.Background())

	// --- Notifications ---
	notifier := notify.NewStore(cfg.NotificationTTL, metrics, logger)

	// --- Admin endpoint ---
	if cfg.AdminEnabled {
		go admin.Serve(cfg.AdminPort, admin.NewRouter(store, metrics, logger), logger)
	}

	// --- Console ---
	console := ui.NewConsole(os.Stdout, client, store, notifier, bus, metrics, logger)

	repl := newREPL(console, store, bus, notifier, logger)
	if err := repl.run(context.Background(), os.Stdin, os.Stdout); err != nil {
		logger.Fatal("console failed", zap.Error(err))
	}
}
