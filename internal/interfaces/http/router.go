// Package http assembles the platform's REST surface: the diagnosis resource
// under /api/v1, the health probes, and the metrics endpoint.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/SME-Diagnostics/internal/interfaces/http/handlers"
	"github.com/turtacn/SME-Diagnostics/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies required to
// construct the complete HTTP route tree.  Nil entries are simply skipped, so
// tests can wire only what they exercise.
type RouterConfig struct {
	// Handlers
	DiagnosisHandler *handlers.DiagnosisHandler
	HealthHandler    *handlers.HealthHandler

	// Middleware
	CORSMiddleware *middleware.CORSMiddleware
	RequestLogging func(http.Handler) http.Handler
	RateLimit      func(http.Handler) http.Handler

	// Infrastructure
	AppMetrics       *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter constructs the complete HTTP route tree from the given
// configuration as a single http.Handler suitable for http.Server.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.CORSMiddleware != nil {
		r.Use(cfg.CORSMiddleware.Handler)
	}
	if cfg.RequestLogging != nil {
		r.Use(cfg.RequestLogging)
	}
	if cfg.AppMetrics != nil {
		r.Use(middleware.HTTPMetrics(cfg.AppMetrics))
	}
	if cfg.RateLimit != nil {
		r.Use(cfg.RateLimit)
	}

	// Health probes stay outside /api/v1 so Kubernetes probe paths never
	// change across API versions.
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
		r.Get("/healthz/detail", cfg.HealthHandler.Detailed)
	}

	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerDiagnosisRoutes(api, cfg.DiagnosisHandler)
	})

	return r
}

// registerDiagnosisRoutes mounts the diagnosis resource endpoints.
func registerDiagnosisRoutes(r chi.Router, h *handlers.DiagnosisHandler) {
	if h == nil {
		return
	}
	r.Route("/businesses/{businessID}/diagnosis", func(dr chi.Router) {
		dr.Post("/", h.RunDiagnosis)
		dr.Get("/latest", h.LatestDiagnosis)
		dr.Get("/runs", h.ListRuns)
		dr.Delete("/cache", h.InvalidateCache)
	})

	// Run lookup by ID is not business-scoped: event consumers and support
	// tooling hold only the run ID.
	r.Get("/diagnosis/runs/{runID}", h.GetRun)
}

//Personal.AI order the ending
