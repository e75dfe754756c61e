package routes

import (
	"net/http"
	"time"

	"skyrelief/dispatch/internal/api"
	"skyrelief/dispatch/internal/config"
	"skyrelief/dispatch/internal/logging"
	"skyrelief/dispatch/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes builds the HTTP handler. gatherer backs /metrics and
// should be the registry deps.Metrics was created with.
func RegisterRoutes(deps *api.Dependencies, cfg *config.Config, gatherer prometheus.Gatherer, upSince time.Time) http.Handler {
	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	if cfg.RateLimit.Enabled {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit).Middleware)
	}

	if cfg.Logging.Level == "debug" {
		r.Use(middleware.DebugLogging)
	}

	r.Get("/", api.RootHandler())
	r.Get("/health", api.HealthCheckHandler(deps.Probes, upSince))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	RegisterAPIRoutes(r, deps.Services)

	logging.Info("Router initialized",
		"rate_limit", cfg.RateLimit.Enabled,
		"cors_origins", cfg.CORS.AllowedOrigins,
	)

	return r
}
