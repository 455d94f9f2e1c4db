package service

import "errors"

// Sentinel kinds for request validation errors.
var (
	ErrInvalidSeason       = errors.New("invalid season")
	ErrInvalidRoundCeiling = errors.New("invalid round ceiling")
)
