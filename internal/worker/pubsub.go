package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	snapshotJob      *SnapshotJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	SnapshotJob      *SnapshotJob
	Logger           zerolog.Logger
}

// JobMessage represents a worker job message.
type JobMessage struct {
	JobType string `json:"job_type"`

	// Force runs the snapshot even when the monitoring schedule is
	// paused through the feature flags.
	Force bool `json:"force,omitempty"`
}

// Job types accepted on the worker subscription.
const (
	JobTypeMonitoringRefresh = "monitoring_refresh"
	JobTypeHealthCheck       = "health_check"
)

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		snapshotJob:      cfg.SnapshotJob,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	// Parse message.
	var jobMsg JobMessage
	if err := json.Unmarshal(msg.Data, &jobMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	// Handle based on job type.
	var err error
	switch jobMsg.JobType {
	case JobTypeMonitoringRefresh:
		err = h.handleMonitoringRefresh(ctx, jobMsg)
	case JobTypeHealthCheck:
		err = h.snapshotJob.HealthCheck(ctx)
	default:
		logger.Warn().Str("job_type", jobMsg.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("job_type", jobMsg.JobType).
		Dur("duration", duration).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleMonitoringRefresh(ctx context.Context, msg JobMessage) error {
	h.logger.Info().
		Bool("force", msg.Force).
		Msg("starting monitoring snapshot")

	var (
		result *SnapshotResult
		err    error
	)
	if msg.Force {
		result, err = h.snapshotJob.RunForced(ctx)
	} else {
		result, err = h.snapshotJob.Run(ctx)
	}
	if err != nil {
		return err
	}

	if result.Skipped {
		h.logger.Info().Msg("monitoring snapshot skipped")
		return nil
	}

	h.logger.Info().
		Dur("duration", result.Duration).
		Int("sampled", result.Sampled).
		Int("failed", result.Failed).
		Int("total_projects", result.TotalProjects).
		Msg("monitoring snapshot completed")

	// Consider it successful if more than half succeeded.
	if result.Failed > result.Sampled {
		return fmt.Errorf("too many sample failures: %d/%d", result.Failed, result.TotalProjects)
	}

	return nil
}
