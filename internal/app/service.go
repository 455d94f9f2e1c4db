// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/krish-25k/f1-championship-analyzer/internal/adapters/cache"
	"github.com/krish-25k/f1-championship-analyzer/internal/adapters/upstream"
	"github.com/krish-25k/f1-championship-analyzer/internal/domain/model"
	"github.com/krish-25k/f1-championship-analyzer/internal/domain/progression"
	"github.com/krish-25k/f1-championship-analyzer/internal/domain/standings"
	"github.com/krish-25k/f1-championship-analyzer/internal/domain/types"
	"github.com/krish-25k/f1-championship-analyzer/pkg/logger"
	"github.com/krish-25k/f1-championship-analyzer/pkg/metrics"
)

// Service computes championship standings and progressions on demand,
// backed by a process-lifetime season cache.
type Service struct {
	mu sync.RWMutex

	// Core components
	seasons *cache.SeasonCache
	fetcher cache.Fetcher

	// Configuration
	baseURL          string
	httpClient       *http.Client
	fetchConcurrency int
	inProgressTTL    time.Duration
	now              func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBaseURL points the upstream client at a different provider root.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		if baseURL != "" {
			s.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client used for upstream requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Service) {
		if hc != nil {
			s.httpClient = hc
		}
	}
}

// WithFetchConcurrency caps parallel per-round upstream requests.
func WithFetchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fetchConcurrency = n
		}
	}
}

// WithInProgressTTL sets the cache TTL for the season still underway.
func WithInProgressTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.inProgressTTL = ttl
		}
	}
}

// WithFetcher replaces the upstream client, e.g. with a stub in tests.
func WithFetcher(f cache.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		fetchConcurrency: 8,
		inProgressTTL:    5 * time.Minute,
		now:              time.Now,
		logger:           nil, // resolved at Start
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start wires the upstream client and season cache.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.fetcher == nil {
		clientOpts := []upstream.Option{
			upstream.WithBaseURL(s.baseURL),
			upstream.WithConcurrency(s.fetchConcurrency),
		}
		if s.httpClient != nil {
			clientOpts = append(clientOpts, upstream.WithHTTPClient(s.httpClient))
		}
		s.fetcher = upstream.NewClient(clientOpts...)
	}
	s.seasons = cache.NewSeasonCache(s.fetcher,
		cache.WithInProgressTTL(s.inProgressTTL),
		cache.WithClock(s.now),
	)

	s.started = true
	s.logger.Info(ctx, "standings service started",
		logger.Int("fetchConcurrency", s.fetchConcurrency),
		logger.String("inProgressTTL", s.inProgressTTL.String()),
	)
	return nil
}

// Stop marks the service as stopped. The cache is volatile and simply
// dropped with the process.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "standings service stopped")
}

// GetStandings returns driver and constructor tables for the season as
// of roundCeiling (whole season when roundCeiling is 0).
func (s *Service) GetStandings(ctx context.Context, season, roundCeiling int) (drivers, constructors []types.Entry, err error) {
	if err := s.validate(season, roundCeiling); err != nil {
		return nil, nil, err
	}

	records, sched, err := s.seasons.Get(ctx, season, roundCeiling)
	if err != nil {
		return nil, nil, err
	}
	if roundCeiling > sched.RoundCount() {
		return nil, nil, fmt.Errorf("%w: round %d exceeds season %d's %d rounds",
			ErrInvalidRoundCeiling, roundCeiling, season, sched.RoundCount())
	}

	start := s.now()
	drivers, constructors = standings.Aggregate(records, roundCeiling)
	metrics.RecordAggregationLatency(float64(time.Since(start).Milliseconds()))
	metrics.RecordStandingsComputed()
	return drivers, constructors, nil
}

// GetProgression returns each requested driver's cumulative points
// series for the season, through roundCeiling when it is positive.
func (s *Service) GetProgression(ctx context.Context, season int, driverIDs []string, roundCeiling int) (map[string][]types.Point, error) {
	if err := s.validate(season, roundCeiling); err != nil {
		return nil, err
	}
	// Cheap bounds are rejected before any cache or network access.
	if len(driverIDs) > progression.MaxDrivers {
		return nil, fmt.Errorf("%w: %d requested, limit %d",
			progression.ErrTooManyDrivers, len(driverIDs), progression.MaxDrivers)
	}

	records, sched, err := s.seasons.Get(ctx, season, roundCeiling)
	if err != nil {
		return nil, err
	}
	if roundCeiling > sched.RoundCount() {
		return nil, fmt.Errorf("%w: round %d exceeds season %d's %d rounds",
			ErrInvalidRoundCeiling, roundCeiling, season, sched.RoundCount())
	}

	series, err := progression.Build(records, driverIDs, roundCeiling)
	if err != nil {
		return nil, err
	}
	metrics.RecordProgressionBuilt()
	return series, nil
}

// GetSeason returns the season's race calendar.
func (s *Service) GetSeason(ctx context.Context, season int) (model.Schedule, error) {
	if err := s.validate(season, 0); err != nil {
		return model.Schedule{}, err
	}
	_, sched, err := s.seasons.Get(ctx, season, 0)
	return sched, err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"fetchConcurrency": s.fetchConcurrency,
		"inProgressTTL":    s.inProgressTTL.String(),
	}
	if s.started {
		cached := s.seasons.Len()
		stats["cachedSeasons"] = cached
		metrics.UpdateCachedSeasons(cached)
	}
	return stats
}

// validate rejects out-of-range seasons and negative round ceilings
// before anything touches the cache or the network. A ceiling above the
// season's round count is caught later, once the calendar is known.
func (s *Service) validate(season, roundCeiling int) error {
	if !model.ValidSeason(season, s.now()) {
		return fmt.Errorf("%w: %d not in %d..%d", ErrInvalidSeason, season, model.MinSeason, s.now().Year())
	}
	if roundCeiling < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRoundCeiling, roundCeiling)
	}
	return nil
}
