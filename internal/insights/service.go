package insights

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/terrasense/terrasense/internal/climate"
	"github.com/terrasense/terrasense/internal/monitoring"
)

// trendWindowDays is how far back the NDVI trend looks.
const trendWindowDays = 90

// SampleSource provides stored monitoring samples for a project.
type SampleSource interface {
	ListSince(ctx context.Context, projectID string, since time.Time) ([]*monitoring.Sample, error)
	Latest(ctx context.Context, projectID string) (*monitoring.Sample, error)
}

// ClimateSource provides recent climate history for drought detection.
type ClimateSource interface {
	RecentHistory(ctx context.Context, lat, lon float64) (*climate.History, error)
}

// ServiceConfig holds configuration for the insights service.
type ServiceConfig struct {
	// Samples is the monitoring sample store.
	Samples SampleSource

	// Climate provides recent history (optional; drought cards are skipped
	// without it).
	Climate ClimateSource

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service generates insight reports for projects.
type Service struct {
	samples SampleSource
	climate ClimateSource
	logger  zerolog.Logger
}

// NewService creates a new insights service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		samples: cfg.Samples,
		climate: cfg.Climate,
		logger:  cfg.Logger,
	}
}

// Generate builds the full insight report for a project site. Missing inputs
// narrow the report instead of failing it: no samples means no vegetation or
// soil cards, no climate history means no drought card.
func (s *Service) Generate(ctx context.Context, site Site) (*Report, error) {
	now := time.Now().UTC()

	samples, err := s.samples.ListSince(ctx, site.ProjectID, now.AddDate(0, 0, -trendWindowDays))
	if err != nil {
		return nil, err
	}
	trend := NDVITrendFrom(samples)

	latest, err := s.samples.Latest(ctx, site.ProjectID)
	if err != nil {
		if !errors.Is(err, monitoring.ErrSampleNotFound) {
			return nil, err
		}
		latest = nil
	}

	var history *climate.History
	if s.climate != nil {
		history, err = s.climate.RecentHistory(ctx, site.Lat, site.Lon)
		if err != nil {
			s.logger.Debug().Err(err).
				Str("project_id", site.ProjectID).
				Msg("Climate history unavailable for insights")
			history = nil
		}
	}

	cards := VegetationCards(trend, history)
	cards = append(cards, SoilCards(latest)...)
	cards = append(cards, SeasonalCards(now.Month())...)

	// Highest confidence first; ties break on kind for a stable order.
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Confidence == cards[j].Confidence {
			return cards[i].Kind < cards[j].Kind
		}
		return cards[i].Confidence > cards[j].Confidence
	})

	s.logger.Info().
		Str("project_id", site.ProjectID).
		Int("samples", len(samples)).
		Int("cards", len(cards)).
		Msg("Insights generated")

	return &Report{
		Trend:       trend,
		Insights:    cards,
		GeneratedAt: now,
	}, nil
}
