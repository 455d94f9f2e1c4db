package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	// ErrFetchInFlight wraps a failure observed by waiters that joined
	// another caller's collapsed fetch.
	ErrFetchInFlight = errors.New("in-flight fetch failed")
)
