package upstream

import "errors"

// Sentinel kinds for upstream provider errors.
var (
	// ErrUnavailable covers network failures and 5xx responses.
	ErrUnavailable = errors.New("upstream unavailable")
	// ErrRateLimited covers 429-class responses.
	ErrRateLimited = errors.New("upstream rate limited")
	// ErrDataMissing means the season or round is outside the provider's
	// coverage: not yet run, or one of the early-era gaps.
	ErrDataMissing = errors.New("upstream data missing")
)
