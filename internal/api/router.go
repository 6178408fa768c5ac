// Package api provides the HTTP API for the PSI map.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/singaporepsi/psimap/internal/api/handler"
	"github.com/singaporepsi/psimap/internal/api/middleware"
	"github.com/singaporepsi/psimap/internal/provider/resilience"
	"github.com/singaporepsi/psimap/internal/psi"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	RequireTLS  bool

	// PSIService serves the map endpoints.
	PSIService *psi.Service

	// Registry reports upstream health on /v1/ops/status. Optional.
	Registry *resilience.Registry

	// FetchRateLimit overrides middleware.FetchRateLimit for /v1/psi.
	FetchRateLimit *middleware.RateLimitConfig
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "psimap-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))         // Structured logging
	r.Use(middleware.Recovery(cfg.Logger))       // Panic recovery
	r.Use(chimiddleware.RealIP)                  // Real IP extraction
	r.Use(middleware.SecurityHeaders)            // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS(cfg.RequireTLS)) // TLS enforcement
	r.Use(middleware.ContentTypeJSON)            // JSON content type

	opsConfig := handler.OpsHandlerConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Registry:  cfg.Registry,
	}
	if cfg.PSIService != nil {
		opsConfig.Snapshots = cfg.PSIService
	}
	opsHandler := handler.NewOpsHandler(opsConfig)

	fetchLimit := middleware.FetchRateLimit
	if cfg.FetchRateLimit != nil {
		fetchLimit = *cfg.FetchRateLimit
	}
	fetchRateLimit := middleware.RateLimitByIP(fetchLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		if cfg.PSIService == nil {
			return
		}
		psiHandler := handler.NewPSIHandler(cfg.PSIService, cfg.Logger)
		r.Route("/psi", func(r chi.Router) {
			// Each call is an upstream request
			r.With(fetchRateLimit).Get("/", psiHandler.GetMap)
			r.With(standardRateLimit).Get("/regions/{direction}", psiHandler.GetRegion)
		})
	})

	return r
}
