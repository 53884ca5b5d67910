// Package main provides the entrypoint for the TerraSense background worker.
// It samples every active project on a cron schedule and optionally accepts
// Pub/Sub job messages for operator-triggered runs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/terrasense/terrasense/internal/database"
	"github.com/terrasense/terrasense/internal/featureflags"
	"github.com/terrasense/terrasense/internal/monitoring"
	"github.com/terrasense/terrasense/internal/notification"
	"github.com/terrasense/terrasense/internal/project"
	"github.com/terrasense/terrasense/internal/weather"
	"github.com/terrasense/terrasense/internal/weather/openweathermap"
	"github.com/terrasense/terrasense/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "terrasense-worker"

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
		Msg("starting TerraSense worker")

	// Worker also exposes health endpoints for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	// Initialize the weather provider. A missing key degrades snapshots to
	// estimates instead of failing startup.
	var weatherProvider weather.Provider
	if apiKey := os.Getenv("OPENWEATHER_API_KEY"); apiKey != "" {
		weatherProvider = openweathermap.NewClient(openweathermap.ClientConfig{APIKey: apiKey})
		log.Info().Str("provider", openweathermap.ProviderName).Msg("weather provider initialized")
	} else {
		log.Warn().Msg("OPENWEATHER_API_KEY not set - samples will use estimated weather")
	}

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider:     weatherProvider,
		FeatureFlags: ffService,
		Logger:       log,
	})

	// Initialize the sampling pipeline
	monitoringService := monitoring.NewService(monitoring.ServiceConfig{
		Weather:    weatherService,
		Repository: monitoring.NewPostgresRepository(pool),
		Logger:     log,
	})
	notificationService := notification.NewService(notification.ServiceConfig{
		Repository: notification.NewPostgresRepository(pool),
		Logger:     log,
	})

	snapshotJob := worker.NewSnapshotJob(worker.SnapshotJobConfig{
		Config:   worker.DefaultSnapshotConfig(),
		Logger:   log,
		Projects: project.NewPostgresRepository(pool),
		Sampler:  monitoringService,
		Alerts:   notificationService,
		Flags:    ffService,
	})

	// Schedule snapshot runs
	schedule := os.Getenv("MONITORING_SCHEDULE")
	if schedule == "" {
		schedule = worker.DefaultSchedule
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(schedule, func() {
		if _, runErr := snapshotJob.Run(ctx); runErr != nil {
			log.Error().Err(runErr).Msg("scheduled snapshot run failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", schedule).Msg("invalid monitoring schedule")
	}
	scheduler.Start()
	log.Info().Str("schedule", schedule).Msg("monitoring schedule started")

	// Optional Pub/Sub trigger path for operator-initiated jobs
	var pubsubHandler *worker.PubSubHandler
	pubsubProject := os.Getenv("PUBSUB_PROJECT_ID")
	pubsubSubscription := os.Getenv("PUBSUB_SUBSCRIPTION")
	if pubsubProject != "" && pubsubSubscription != "" {
		pubsubHandler, err = worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        pubsubProject,
			SubscriptionName: pubsubSubscription,
			SnapshotJob:      snapshotJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize pubsub handler")
		}

		go func() {
			if err := pubsubHandler.Start(ctx); err != nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Info().Msg("pubsub trigger not configured, running on schedule only")
	}

	// Create HTTP server for health checks
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":%q}`, Version)
	})

	// Readiness derives a probe sample without recording it.
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		readyCtx, readyCancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer readyCancel()

		w.Header().Set("Content-Type", "application/json")
		if err := snapshotJob.HealthCheck(readyCtx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"unavailable","error":%q}`, err.Error())
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"ready"}`)
	})

	mux.HandleFunc("/metrics/jobs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snapshotJob.MetricsSnapshot()); err != nil {
			log.Error().Err(err).Msg("encoding job metrics")
		}
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	// Let any in-flight cron job finish
	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	if pubsubHandler != nil {
		if err := pubsubHandler.Close(); err != nil {
			log.Error().Err(err).Msg("closing pubsub handler")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
