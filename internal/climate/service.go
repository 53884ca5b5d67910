// Package climate provides historical climate data for land analysis,
// fetched from daily-resolution providers and cached per grid cell.
package climate

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/terrasense/terrasense/pkg/geo"
)

// HistoryWindowDays is the default lookback window for analysis.
const HistoryWindowDays = 30

// Provider defines the interface for climate history providers.
type Provider interface {
	// History fetches daily climate series for a location and date range.
	// Returns ErrHistoryUnavailable when the provider has no data for the
	// location.
	History(ctx context.Context, lat, lon float64, start, end time.Time) (*History, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the climate service.
type ServiceConfig struct {
	// Provider is the climate history provider. May be nil, in which case
	// every lookup reports ErrHistoryUnavailable.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache history (default: 6 hours).
	// Daily series only change once per day upstream.
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.1).
	// Points within the same grid cell share cached data.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 48 hours).
	StaleIfErrorTTL time.Duration
}

// Service provides climate history with caching. History is advisory for
// analysis: callers treat ErrHistoryUnavailable as a soft failure and
// proceed without the series.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration

	mu              sync.RWMutex
	historyCache    map[string]*cachedHistory
	lastCleanup     time.Time
	cleanupInterval time.Duration
}

type cachedHistory struct {
	history   *History
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new climate service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 6 * time.Hour
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.1 // ~11km at equator
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 48 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		historyCache:    make(map[string]*cachedHistory),
		cleanupInterval: 30 * time.Minute,
	}
}

// RecentHistory returns the last 30 days of climate history for a location.
func (s *Service) RecentHistory(ctx context.Context, lat, lon float64) (*History, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -HistoryWindowDays)
	return s.HistoryRange(ctx, lat, lon, start, end)
}

// HistoryRange returns climate history for a location and date range.
// Uses cached data if available and not expired.
func (s *Service) HistoryRange(ctx context.Context, lat, lon float64, start, end time.Time) (*History, error) {
	if !geo.Valid(lat, lon) {
		return nil, ErrInvalidCoordinates
	}

	cacheKey := s.cacheKey(lat, lon, start, end)

	// Check cache
	s.mu.RLock()
	if cached, ok := s.historyCache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.history, nil
	}
	s.mu.RUnlock()

	// Fetch from provider
	return s.fetchHistory(ctx, lat, lon, start, end, cacheKey)
}

// fetchHistory fetches history from the provider and updates the cache.
func (s *Service) fetchHistory(ctx context.Context, lat, lon float64, start, end time.Time, cacheKey string) (*History, error) {
	if s.provider == nil {
		return nil, ErrHistoryUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.historyCache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		return cached.history, nil
	}

	s.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("provider", s.provider.Name()).
		Msg("fetching climate history from provider")

	history, err := s.provider.History(ctx, lat, lon, start, end)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("failed to fetch climate history")

		// Check for stale data
		if cached, ok := s.historyCache[cacheKey]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale climate history due to provider error")
				return cached.history, nil
			}
		}

		if errors.Is(err, ErrHistoryUnavailable) {
			return nil, err
		}
		return nil, ErrProviderUnavailable
	}

	// Update cache
	now := time.Now()
	s.historyCache[cacheKey] = &cachedHistory{
		history:   history,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	// Periodic cleanup
	s.cleanupIfNeeded()

	return history, nil
}

// cacheKey groups nearby points into grid cells to reduce provider calls.
// The date range is part of the key so backfills don't collide with the
// rolling analysis window.
func (s *Service) cacheKey(lat, lon float64, start, end time.Time) string {
	return geo.CellKey(lat, lon, s.cacheGridSize) + ":" + start.Format("20060102") + ":" + end.Format("20060102")
}

// cleanupIfNeeded removes expired entries if the cleanup interval has passed.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	s.lastCleanup = now
	expired := 0

	for key, cached := range s.historyCache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.historyCache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired climate cache entries")
	}
}

// InvalidateCache clears all cached history.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyCache = make(map[string]*cachedHistory)
}
