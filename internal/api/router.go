// Package api provides the HTTP API for TerraSense.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/terrasense/terrasense/internal/analysis"
	"github.com/terrasense/terrasense/internal/api/handler"
	"github.com/terrasense/terrasense/internal/api/middleware"
	"github.com/terrasense/terrasense/internal/assistant"
	"github.com/terrasense/terrasense/internal/auth"
	"github.com/terrasense/terrasense/internal/dashboard"
	"github.com/terrasense/terrasense/internal/featureflags"
	"github.com/terrasense/terrasense/internal/insights"
	"github.com/terrasense/terrasense/internal/monitoring"
	"github.com/terrasense/terrasense/internal/notification"
	"github.com/terrasense/terrasense/internal/project"
	"github.com/terrasense/terrasense/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version        string
	BuildTime      string
	Logger         zerolog.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *middleware.Metrics

	// Optional infrastructure surfaced by the ops endpoints.
	DB       *pgxpool.Pool
	Registry *resilience.Registry

	AuthService         *auth.Service
	AnalysisEngine      *analysis.Engine
	ProjectService      *project.Service
	MonitoringService   *monitoring.Service
	InsightsService     *insights.Service
	DashboardService    *dashboard.Service
	NotificationService *notification.Service
	NotificationHub     *notification.Hub
	AssistantService    *assistant.Service
	FeatureFlagService  *featureflags.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "terrasense-api"
	}
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id", "Retry-After"},
		MaxAge:         300,
	}))
	r.Use(middleware.SecurityHeaders) // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)      // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON) // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		DB:        cfg.DB,
		Registry:  cfg.Registry,
		Flags:     cfg.FeatureFlagService,
		Hub:       cfg.NotificationHub,
	})
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	analysisHandler := handler.NewAnalysisHandler(cfg.AnalysisEngine)
	projectHandler := handler.NewProjectHandler(cfg.ProjectService)
	monitoringHandler := handler.NewMonitoringHandler(cfg.ProjectService, cfg.MonitoringService, cfg.NotificationService, cfg.FeatureFlagService)
	insightsHandler := handler.NewInsightsHandler(cfg.ProjectService, cfg.InsightsService)
	dashboardHandler := handler.NewDashboardHandler(cfg.DashboardService)
	notificationHandler := handler.NewNotificationHandler(cfg.NotificationService, cfg.NotificationHub, cfg.FeatureFlagService)
	assistantHandler := handler.NewAssistantHandler(cfg.AssistantService)
	metadataHandler := handler.NewMetadataHandler()
	featureFlagsHandler := handler.NewFeatureFlagsHandler(cfg.FeatureFlagService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)

			// Requires valid access token
			r.With(authMiddleware).Post("/logout-all", authHandler.LogoutAll)
		})

		// Operational endpoints
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)

			// Status requires auth (exposes internal info)
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Metadata endpoints (public, cacheable)
		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/enums", metadataHandler.GetEnums)
		})

		// Ad-hoc land analysis - expensive (fans out to external providers)
		r.With(authMiddleware, expensiveRateLimit).Post("/analysis", analysisHandler.Analyze)

		// Project endpoints (authenticated)
		r.Route("/projects", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user
			r.Get("/", projectHandler.ListProjects)
			r.Post("/", projectHandler.CreateProject)
			r.Route("/{projectId}", func(r chi.Router) {
				r.Get("/", projectHandler.GetProject)
				r.Put("/", projectHandler.UpdateProject)
				r.Delete("/", projectHandler.DeleteProject)
				r.With(expensiveRateLimit).Post("/reanalyze", projectHandler.ReanalyzeProject)

				// Monitoring timeline
				r.Get("/monitoring", monitoringHandler.GetHistory)
				r.With(expensiveRateLimit).Post("/monitoring/refresh", monitoringHandler.Refresh)
				r.With(expensiveRateLimit).Post("/monitoring/backfill", monitoringHandler.Backfill)

				// Generated insight report
				r.With(expensiveRateLimit).Get("/insights", insightsHandler.GetInsights)
			})
		})

		// Dashboard aggregates (authenticated)
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.Get("/stats", dashboardHandler.GetStats)
		})

		// Notification endpoints (authenticated)
		r.Route("/notifications", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.Get("/", notificationHandler.ListNotifications)
			r.Get("/ws", notificationHandler.Subscribe)
			r.Get("/unread-count", notificationHandler.UnreadCount)
			r.Post("/read-all", notificationHandler.MarkAllRead)
			r.Post("/archive-read", notificationHandler.ArchiveRead)

			r.Get("/preferences", notificationHandler.GetPreferences)
			r.Put("/preferences", notificationHandler.UpdatePreferences)

			r.Route("/{notificationId}", func(r chi.Router) {
				r.Post("/read", notificationHandler.MarkRead)
				r.Post("/archive", notificationHandler.Archive)
				r.Delete("/", notificationHandler.DeleteNotification)
			})
		})

		// Assistant endpoints (authenticated)
		r.Route("/assistant", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit))
			r.With(expensiveRateLimit).Post("/chat", assistantHandler.Chat)
			r.Get("/history", assistantHandler.GetHistory)
			r.Delete("/history", assistantHandler.ClearHistory)
			r.Get("/suggestions", assistantHandler.GetSuggestions)
		})

		// Admin endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)

			// Feature flags management
			r.Route("/feature-flags", func(r chi.Router) {
				r.Get("/", featureFlagsHandler.ListFeatureFlags)
				r.Put("/", featureFlagsHandler.UpsertFeatureFlags)
				r.Post("/invalidate", featureFlagsHandler.InvalidateCache)
			})
		})
	})

	return r
}
