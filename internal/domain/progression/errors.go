package progression

import "errors"

// Sentinel kinds for progression errors.
var (
	ErrTooManyDrivers    = errors.New("too many drivers requested")
	ErrNoMatchingDrivers = errors.New("no matching drivers in season")
)
