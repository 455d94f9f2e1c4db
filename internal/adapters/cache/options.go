package cache

import "time"

// Option applies a configuration option to the SeasonCache.
type Option func(*SeasonCache)

// WithInProgressTTL sets how long the current season's entry stays fresh.
func WithInProgressTTL(ttl time.Duration) Option {
	return func(c *SeasonCache) {
		if ttl > 0 {
			c.inProgressTTL = ttl
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *SeasonCache) {
		if now != nil {
			c.now = now
		}
	}
}
