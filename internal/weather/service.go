// Package weather provides current conditions for land analysis. A live
// provider is preferred; when it is unavailable the service falls back to a
// deterministic coordinate-based estimate, so callers always get a snapshot.
package weather

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/terrasense/terrasense/internal/featureflags"
	"github.com/terrasense/terrasense/pkg/geo"
)

// Provider defines the interface for weather data providers.
type Provider interface {
	// Current fetches current weather for a location.
	Current(ctx context.Context, lat, lon float64) (*Snapshot, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather data provider. May be nil, in which case
	// every snapshot comes from the fallback estimator.
	Provider Provider

	// FeatureFlags is the feature flag service (optional).
	// If provided, the live provider can be disabled via feature flag.
	FeatureFlags *featureflags.Service

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache weather data (default: 10 minutes).
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.1).
	// Points within the same grid cell share cached data.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 1 hour).
	// Stale real readings beat fresh estimates.
	StaleIfErrorTTL time.Duration
}

// Service provides current weather with caching and estimator fallback.
type Service struct {
	provider        Provider
	featureFlags    *featureflags.Service
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration

	mu              sync.RWMutex
	snapshotCache   map[string]*cachedSnapshot
	lastCleanup     time.Time
	cleanupInterval time.Duration
}

type cachedSnapshot struct {
	snapshot  *Snapshot
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.1 // ~11km at equator
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 1 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		featureFlags:    cfg.FeatureFlags,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		snapshotCache:   make(map[string]*cachedSnapshot),
		cleanupInterval: 5 * time.Minute,
	}
}

// Current returns current weather for a location. The only error it returns
// is ErrInvalidCoordinates; provider failures degrade to the fallback
// estimate instead of failing the call.
func (s *Service) Current(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	if !geo.Valid(lat, lon) {
		return nil, ErrInvalidCoordinates
	}

	cacheKey := geo.CellKey(lat, lon, s.cacheGridSize)

	// Check cache
	s.mu.RLock()
	if cached, ok := s.snapshotCache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.snapshot, nil
	}
	s.mu.RUnlock()

	return s.fetchCurrent(ctx, lat, lon, cacheKey), nil
}

// fetchCurrent fetches weather from the provider, falling back to stale
// cache and then the estimator.
func (s *Service) fetchCurrent(ctx context.Context, lat, lon float64, cacheKey string) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check cache
	if cached, ok := s.snapshotCache[cacheKey]; ok && time.Now().Before(cached.expiresAt) {
		return cached.snapshot
	}

	if s.provider == nil {
		return Estimate(lat, lon)
	}

	if s.liveDisabled(ctx) {
		s.logger.Debug().Msg("live weather disabled by feature flag")
		return Estimate(lat, lon)
	}

	s.logger.Debug().
		Float64("lat", lat).
		Float64("lon", lon).
		Str("provider", s.provider.Name()).
		Msg("fetching weather from provider")

	snapshot, err := s.provider.Current(ctx, lat, lon)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("failed to fetch weather, degrading")

		// Stale real readings beat fresh estimates
		if cached, ok := s.snapshotCache[cacheKey]; ok {
			if time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
				s.logger.Warn().
					Time("fetched_at", cached.fetchedAt).
					Msg("serving stale weather data due to provider error")
				return cached.snapshot
			}
		}

		// Estimates are cheap and deterministic; don't cache them so a
		// recovered provider takes over on the next call.
		return Estimate(lat, lon)
	}

	// Update cache
	now := time.Now()
	s.snapshotCache[cacheKey] = &cachedSnapshot{
		snapshot:  snapshot,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	// Periodic cleanup
	s.cleanupIfNeeded()

	return snapshot
}

// liveDisabled checks the feature flag.
func (s *Service) liveDisabled(ctx context.Context) bool {
	if s.featureFlags == nil {
		return false
	}
	return s.featureFlags.IsLiveWeatherDisabled(ctx)
}

// cleanupIfNeeded removes expired entries if the cleanup interval has passed.
func (s *Service) cleanupIfNeeded() {
	now := time.Now()
	if now.Sub(s.lastCleanup) < s.cleanupInterval {
		return
	}

	s.lastCleanup = now
	expired := 0

	for key, cached := range s.snapshotCache {
		if now.After(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			delete(s.snapshotCache, key)
			expired++
		}
	}

	if expired > 0 {
		s.logger.Debug().
			Int("expired_entries", expired).
			Msg("cleaned up expired weather cache entries")
	}
}

// InvalidateCache clears all cached data.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshotCache = make(map[string]*cachedSnapshot)
}

// CacheStats returns cache statistics for the ops surface.
type CacheStats struct {
	Entries      int
	FreshEntries int
	Provider     string
}

// CacheStats reports the state of the snapshot cache.
func (s *Service) CacheStats() CacheStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	fresh := 0
	for _, c := range s.snapshotCache {
		if now.Before(c.expiresAt) {
			fresh++
		}
	}

	providerName := FallbackSource
	if s.provider != nil {
		providerName = s.provider.Name()
	}

	return CacheStats{
		Entries:      len(s.snapshotCache),
		FreshEntries: fresh,
		Provider:     providerName,
	}
}
