// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   file and environment sources on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// UpstreamBaseURL is the root of the Ergast-compatible results API.
	UpstreamBaseURL string `koanf:"upstream_base_url"`

	// UpstreamTimeoutMS bounds a single upstream HTTP request.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// FetchConcurrency caps parallel per-round result requests.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// InProgressTTLSec is how long results for a season still underway
	// may be served from cache before refetching. Concluded seasons are
	// cached for the life of the process.
	InProgressTTLSec int `koanf:"in_progress_ttl_sec"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8090",
		UpstreamBaseURL:   "https://api.jolpi.ca/ergast/f1",
		UpstreamTimeoutMS: 30_000,
		FetchConcurrency:  8,
		InProgressTTLSec:  300,
	}
}
