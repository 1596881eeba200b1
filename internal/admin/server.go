// Package admin exposes a small local HTTP endpoint for the running
// console: liveness, readiness, and Prometheus metrics. It is off by
// default and never required for normal use.
package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nextlevel/nl-console-go/internal/infra/observability"
	"github.com/nextlevel/nl-console-go/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter builds the admin router.
func NewRouter(store *session.Store, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	r.Get("/healthz", healthzHandler(store))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return r
}

// Serve runs the admin endpoint until the process exits. Failures are
// logged, never fatal: the console works fine without its admin port.
func Serve(port int, handler http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", port),
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info("admin endpoint listening", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Warn("admin endpoint stopped", zap.Error(err))
	}
}

type healthStatus struct {
	Status        string `json:"status"`
	Authenticated bool   `json:"authenticated"`
	ActiveCompany string `json:"activeCompany,omitempty"`
}

func healthzHandler(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := store.Snapshot()
		writeJSON(w, http.StatusOK, healthStatus{
			Status:        "healthy",
			Authenticated: snap.IsAuthenticated(),
			ActiveCompany: snap.ActiveCompanyID,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
