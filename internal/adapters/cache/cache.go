// Package cache holds fetched season results in memory for the life of
// the process.
//
// Season data is immutable once a round is final, so concluded seasons
// never expire. The season still underway is the one exception: its
// entry is re-fetched after a short TTL. Concurrent misses for the same
// season collapse into a single upstream fetch.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/krish-25k/f1-championship-analyzer/internal/domain/model"
	"github.com/krish-25k/f1-championship-analyzer/pkg/logger"
	"github.com/krish-25k/f1-championship-analyzer/pkg/metrics"
)

// defaultInProgressTTL bounds staleness for the season still underway.
const defaultInProgressTTL = 5 * time.Minute

// Fetcher loads a season's records from the upstream provider.
type Fetcher interface {
	FetchSeason(ctx context.Context, season, roundCeiling int) ([]model.RaceResult, model.Schedule, error)
}

// entry is one cached season. Records are ordered by round and must be
// treated as read-only by consumers.
type entry struct {
	records   []model.RaceResult
	schedule  model.Schedule
	fetchedAt time.Time
	concluded bool
}

// SeasonCache is an in-memory, demand-driven store of season results.
type SeasonCache struct {
	mu      sync.RWMutex
	entries map[int]*entry

	group         singleflight.Group
	fetcher       Fetcher
	inProgressTTL time.Duration
	now           func() time.Time
	logger        logger.Logger
}

// NewSeasonCache creates a cache backed by fetcher.
func NewSeasonCache(fetcher Fetcher, opts ...Option) *SeasonCache {
	c := &SeasonCache{
		entries:       make(map[int]*entry),
		fetcher:       fetcher,
		inProgressTTL: defaultInProgressTTL,
		now:           time.Now,
		logger:        logger.Get().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the season's records truncated to roundCeiling
// (all rounds when roundCeiling <= 0), along with the calendar.
//
// A cached full season satisfies any ceiling by pure truncation. On a
// miss, exactly one upstream fetch runs no matter how many callers
// arrive concurrently; every waiter observes the same records or the
// same failure, wrapped in ErrFetchInFlight when it was shared.
func (c *SeasonCache) Get(ctx context.Context, season, roundCeiling int) ([]model.RaceResult, model.Schedule, error) {
	if e := c.lookup(season); e != nil {
		metrics.RecordCacheHit()
		return truncate(e.records, roundCeiling), e.schedule, nil
	}
	metrics.RecordCacheMiss()

	ch := c.group.DoChan(strconv.Itoa(season), func() (any, error) {
		// Detach from the initiating caller so its cancellation cannot
		// abort a fetch other waiters (and the cache) still want.
		fctx := context.WithoutCancel(ctx)
		records, sched, err := c.fetcher.FetchSeason(fctx, season, 0)
		if err != nil {
			return nil, err
		}
		e := &entry{
			records:   records,
			schedule:  sched,
			fetchedAt: c.now(),
			concluded: sched.Concluded(c.now()),
		}
		c.store(season, e)
		return e, nil
	})

	select {
	case <-ctx.Done():
		// The fetch keeps running and will populate the cache for the
		// remaining waiters.
		return nil, model.Schedule{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			metrics.RecordSingleflightShared()
		}
		if res.Err != nil {
			if res.Shared {
				return nil, model.Schedule{}, fmt.Errorf("%w: %w", ErrFetchInFlight, res.Err)
			}
			return nil, model.Schedule{}, res.Err
		}
		e := res.Val.(*entry)
		return truncate(e.records, roundCeiling), e.schedule, nil
	}
}

// Len returns the number of seasons currently cached.
func (c *SeasonCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// lookup returns the entry for season if it is present and still fresh.
func (c *SeasonCache) lookup(season int) *entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[season]
	if !ok {
		return nil
	}
	if !e.concluded && c.now().Sub(e.fetchedAt) > c.inProgressTTL {
		// Stale in-progress season; the caller refetches and overwrites.
		return nil
	}
	return e
}

func (c *SeasonCache) store(season int, e *entry) {
	c.mu.Lock()
	c.entries[season] = e
	size := len(c.entries)
	c.mu.Unlock()

	metrics.UpdateCachedSeasons(size)
	c.logger.Info(context.Background(), "cached season",
		logger.Int("season", season),
		logger.Int("records", len(e.records)),
		logger.Any("concluded", e.concluded),
	)
}

// truncate cuts records at roundCeiling. Records are ordered by round,
// so the result is a prefix; no network access, no copying.
func truncate(records []model.RaceResult, roundCeiling int) []model.RaceResult {
	if roundCeiling <= 0 {
		return records
	}
	for i, r := range records {
		if r.Round > roundCeiling {
			return records[:i]
		}
	}
	return records
}
