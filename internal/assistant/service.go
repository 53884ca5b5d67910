// Package assistant answers restoration questions in a chat flow. Replies
// are grounded in the user's project portfolio and the selected project's
// latest monitoring reading; a text-generation model produces the answer
// when one is reachable, and deterministic rule-based replies cover every
// question when none is.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/terrasense/terrasense/internal/estimate"
	"github.com/terrasense/terrasense/internal/featureflags"
	"github.com/terrasense/terrasense/internal/monitoring"
	"github.com/terrasense/terrasense/internal/project"
)

// maxSuggestions caps the suggested-question list.
const maxSuggestions = 5

// Generator produces a model completion for a prompt. Implementations return
// an error when no model can serve the request; the service then answers
// with the rule-based fallback.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProjectSource provides the project rows context building reads.
type ProjectSource interface {
	ListByUser(ctx context.Context, userID string) ([]*project.Project, error)
	GetByUserAndID(ctx context.Context, userID, projectID string) (*project.Project, error)
}

// SampleSource provides the latest monitoring reading for a project.
type SampleSource interface {
	Latest(ctx context.Context, projectID string) (*monitoring.Sample, error)
}

// ServiceConfig holds configuration for the assistant service.
type ServiceConfig struct {
	// Generator answers prompts. Optional: when nil every reply comes
	// from the rule-based fallback.
	Generator Generator

	// FeatureFlags is the feature flag service (optional).
	// If provided, model generation can be disabled via feature flag.
	FeatureFlags *featureflags.Service

	// History persists chat exchanges.
	History Repository

	// Projects provides portfolio and per-project context.
	Projects ProjectSource

	// Samples provides the latest monitoring reading per project.
	Samples SampleSource

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service runs the assistant chat flow.
type Service struct {
	generator    Generator
	featureFlags *featureflags.Service
	history      Repository
	projects     ProjectSource
	samples      SampleSource
	logger       zerolog.Logger
}

// NewService creates a new assistant service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		generator:    cfg.Generator,
		featureFlags: cfg.FeatureFlags,
		history:      cfg.History,
		projects:     cfg.Projects,
		samples:      cfg.Samples,
		logger:       cfg.Logger.With().Str("component", "assistant_service").Logger(),
	}
}

// Chat answers a message and records the exchange. An empty projectID means
// the user chatted without selecting a project. The reply is returned even
// when persisting the exchange fails.
func (s *Service) Chat(ctx context.Context, userID, projectID, message string) (*Entry, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	contextInfo := s.contextInfo(ctx, userID, projectID)
	response := s.respond(ctx, message, contextInfo)

	entry := &Entry{
		ID:        "cht_" + uuid.New().String()[:22],
		UserID:    userID,
		ProjectID: projectID,
		Message:   message,
		Response:  response,
		Context:   contextInfo,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.history.Insert(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("saving chat entry")
	}

	return entry, nil
}

// History returns the newest entries for a user, oldest first. An empty
// projectID spans all projects.
func (s *Service) History(ctx context.Context, userID, projectID string, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	return s.history.ListRecent(ctx, userID, projectID, limit)
}

// ClearHistory deletes a user's chat history, optionally scoped to one
// project, and reports how many entries were removed.
func (s *Service) ClearHistory(ctx context.Context, userID, projectID string) (int, error) {
	return s.history.Clear(ctx, userID, projectID)
}

// Suggestions returns suggested questions, front-loading urgent ones when
// the selected project shows low vegetation or heavy degradation.
func (s *Service) Suggestions(ctx context.Context, userID, projectID string) []string {
	suggestions := []string{
		"What does my current NDVI tell me?",
		"When is the best time to plant?",
		"How can I improve soil health?",
		"What restoration techniques should I use?",
	}

	if projectID != "" {
		if p, err := s.projects.GetByUserAndID(ctx, userID, projectID); err == nil {
			// No reading counts as low vegetation.
			sample, sampleErr := s.samples.Latest(ctx, projectID)
			if sampleErr != nil || sample.NDVI < 0.4 {
				suggestions = append([]string{"Why is my vegetation health low?"}, suggestions...)
			}

			if p.DegradationLevel == estimate.DegradationSevere || p.DegradationLevel == estimate.DegradationCritical {
				suggestions = append([]string{"What emergency actions should I take?"}, suggestions...)
			}
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// respond asks the generator, falling back to rule-based replies when it is
// absent, disabled, or fails.
func (s *Service) respond(ctx context.Context, message, contextInfo string) string {
	if s.generator == nil {
		return FallbackReply(message, contextInfo, time.Now())
	}

	if s.modelsDisabled(ctx) {
		s.logger.Debug().Msg("assistant models disabled by feature flag")
		return FallbackReply(message, contextInfo, time.Now())
	}

	prompt := message
	if contextInfo != "" {
		prompt = fmt.Sprintf("Context: %s\nQuestion: %s\nAnswer:", contextInfo, message)
	}

	response, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn().Err(err).Msg("generation failed, using rule-based reply")
		return FallbackReply(message, contextInfo, time.Now())
	}

	return response
}

// modelsDisabled checks the feature flag.
func (s *Service) modelsDisabled(ctx context.Context) bool {
	if s.featureFlags == nil {
		return false
	}
	return s.featureFlags.IsAssistantModelsDisabled(ctx)
}

// contextInfo assembles the context summary that grounds a reply: portfolio
// figures plus, when a project is selected, its identity and latest reading.
func (s *Service) contextInfo(ctx context.Context, userID, projectID string) string {
	var parts []string

	projects, err := s.projects.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("portfolio context unavailable")
	} else if len(projects) > 0 {
		var area float64
		for _, p := range projects {
			area += p.AreaHectares
		}
		parts = append(parts, fmt.Sprintf("User manages %d projects covering %.1f hectares", len(projects), area))
	}

	if projectID != "" {
		parts = append(parts, s.projectParts(ctx, userID, projectID)...)
	}

	return strings.Join(parts, " | ")
}

func (s *Service) projectParts(ctx context.Context, userID, projectID string) []string {
	p, err := s.projects.GetByUserAndID(ctx, userID, projectID)
	if err != nil {
		if !errors.Is(err, project.ErrProjectNotFound) {
			s.logger.Warn().Err(err).Str("project_id", projectID).Msg("project context unavailable")
		}
		return nil
	}

	parts := []string{fmt.Sprintf("Current project: %s (%s)", p.Name, p.Type)}

	sample, err := s.samples.Latest(ctx, projectID)
	if err != nil {
		if !errors.Is(err, monitoring.ErrSampleNotFound) {
			s.logger.Warn().Err(err).Str("project_id", projectID).Msg("monitoring context unavailable")
		}
		return parts
	}

	if sample.NDVI > 0 {
		parts = append(parts, fmt.Sprintf("NDVI: %.2f (%s)", sample.NDVI, ndviHealthWord(sample.NDVI)))
	}
	if sample.VegetationHealth != "" {
		parts = append(parts, fmt.Sprintf("Vegetation health: %s", sample.VegetationHealth))
	}
	if sample.SoilMoisture > 0 {
		parts = append(parts, fmt.Sprintf("Soil moisture: %.1f%%", sample.SoilMoisture))
	}

	return parts
}

func ndviHealthWord(ndvi float64) string {
	switch {
	case ndvi > 0.6:
		return "excellent"
	case ndvi > 0.4:
		return "good"
	case ndvi > 0.2:
		return "fair"
	default:
		return "poor"
	}
}
