// Package main provides the entrypoint for the TerraSense API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/terrasense/terrasense/internal/analysis"
	"github.com/terrasense/terrasense/internal/api"
	"github.com/terrasense/terrasense/internal/api/middleware"
	"github.com/terrasense/terrasense/internal/assistant"
	"github.com/terrasense/terrasense/internal/assistant/huggingface"
	"github.com/terrasense/terrasense/internal/auth"
	"github.com/terrasense/terrasense/internal/climate"
	"github.com/terrasense/terrasense/internal/climate/nasapower"
	"github.com/terrasense/terrasense/internal/dashboard"
	"github.com/terrasense/terrasense/internal/database"
	"github.com/terrasense/terrasense/internal/elevation"
	"github.com/terrasense/terrasense/internal/elevation/openelevation"
	"github.com/terrasense/terrasense/internal/featureflags"
	"github.com/terrasense/terrasense/internal/geocode"
	"github.com/terrasense/terrasense/internal/geocode/nominatim"
	"github.com/terrasense/terrasense/internal/insights"
	"github.com/terrasense/terrasense/internal/monitoring"
	"github.com/terrasense/terrasense/internal/notification"
	"github.com/terrasense/terrasense/internal/project"
	"github.com/terrasense/terrasense/internal/provider/resilience"
	"github.com/terrasense/terrasense/internal/telemetry"
	"github.com/terrasense/terrasense/internal/weather"
	"github.com/terrasense/terrasense/internal/weather/openweathermap"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "terrasense-api"

	// Load a local .env when present. Deployments set the environment directly.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting TerraSense API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize feature flags repository and service
	ffService := featureflags.NewService(featureflags.ServiceConfig{
		Repository: featureflags.NewPostgresRepository(pool),
		Logger:     log,
		CacheTTL:   1 * time.Minute,
	})
	log.Info().Msg("feature flags service initialized")

	// Initialize upstream providers. Clients register with the global
	// resilience registry for health reporting; a missing weather key
	// degrades snapshots to estimates instead of failing startup.
	var weatherProvider weather.Provider
	if apiKey := os.Getenv("OPENWEATHER_API_KEY"); apiKey != "" {
		weatherProvider = openweathermap.NewClient(openweathermap.ClientConfig{APIKey: apiKey})
		log.Info().Str("provider", openweathermap.ProviderName).Msg("weather provider initialized")
	} else {
		log.Warn().Msg("OPENWEATHER_API_KEY not set - weather snapshots will be estimated")
	}

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider:     weatherProvider,
		FeatureFlags: ffService,
		Logger:       log,
	})
	climateService := climate.NewService(climate.ServiceConfig{
		Provider: nasapower.NewClient(nasapower.ClientConfig{}),
		Logger:   log,
	})
	geocodeService := geocode.NewService(nominatim.NewClient(nominatim.ClientConfig{}), log)
	elevationService := elevation.NewService(openelevation.NewClient(openelevation.ClientConfig{}), log)

	// Initialize analysis engine
	engine := analysis.NewEngine(analysis.EngineConfig{
		Weather:   weatherService,
		Climate:   climateService,
		Geocode:   geocodeService,
		Elevation: elevationService,
		Logger:    log,
	})
	log.Info().Msg("analysis engine initialized")

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     "https://api.terrasense.io",
		Audience:   "terrasense-api",
	})

	authService := auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		UserRepo:    auth.NewPostgresUserRepository(pool),
		RefreshRepo: auth.NewPostgresRefreshTokenRepository(pool),
	})
	log.Info().Msg("auth service initialized")

	// Initialize notifications: stored rows plus a websocket hub for live
	// delivery
	notificationHub := notification.NewHub(log)
	notificationService := notification.NewService(notification.ServiceConfig{
		Repository: notification.NewPostgresRepository(pool),
		Publisher:  notificationHub,
		Logger:     log,
	})
	log.Info().Msg("notification service initialized")

	// Initialize project repository and service
	projectRepo := project.NewPostgresRepository(pool)
	projectService := project.NewService(project.ServiceConfig{
		Repository: projectRepo,
		Analyzer:   engine,
		Notifier:   notificationService,
		Logger:     log,
	})
	log.Info().Msg("project service initialized")

	// Initialize monitoring repository and service
	sampleRepo := monitoring.NewPostgresRepository(pool)
	monitoringService := monitoring.NewService(monitoring.ServiceConfig{
		Weather:    weatherService,
		Repository: sampleRepo,
		Logger:     log,
	})
	log.Info().Msg("monitoring service initialized")

	// Initialize insights and dashboard services
	insightsService := insights.NewService(insights.ServiceConfig{
		Samples: sampleRepo,
		Climate: climateService,
		Logger:  log,
	})
	dashboardService := dashboard.NewService(dashboard.ServiceConfig{
		Projects: projectRepo,
		Samples:  sampleRepo,
		Logger:   log,
	})

	// Initialize assistant service (generator optional)
	var generator assistant.Generator
	if apiKey := os.Getenv("HUGGINGFACE_API_KEY"); apiKey != "" {
		generator = huggingface.NewClient(huggingface.ClientConfig{APIKey: apiKey})
		log.Info().Msg("assistant generator initialized")
	} else {
		log.Warn().Msg("HUGGINGFACE_API_KEY not set - assistant will use rule-based replies")
	}

	assistantService := assistant.NewService(assistant.ServiceConfig{
		Generator:    generator,
		FeatureFlags: ffService,
		History:      assistant.NewPostgresRepository(pool),
		Projects:     projectRepo,
		Samples:      sampleRepo,
		Logger:       log,
	})
	log.Info().Msg("assistant service initialized")

	var allowedOrigins []string
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:             Version,
		BuildTime:           BuildTime,
		Logger:              log,
		ServiceName:         serviceName,
		AllowedOrigins:      allowedOrigins,
		Metrics:             metrics,
		DB:                  pool,
		Registry:            resilience.GlobalRegistry,
		AuthService:         authService,
		AnalysisEngine:      engine,
		ProjectService:      projectService,
		MonitoringService:   monitoringService,
		InsightsService:     insightsService,
		DashboardService:    dashboardService,
		NotificationService: notificationService,
		NotificationHub:     notificationHub,
		AssistantService:    assistantService,
		FeatureFlagService:  ffService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
