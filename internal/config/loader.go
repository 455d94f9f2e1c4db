package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if F1AN_CONFIG is set
//  3. env (prefix F1AN_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("F1AN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: F1AN_ADDR, F1AN_FETCH_CONCURRENCY, ...
	// Map env keys like F1AN_FETCH_CONCURRENCY -> fetch_concurrency,
	// preserving underscores to match koanf tags on the struct.
	envProvider := env.Provider("F1AN_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "f1an_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	switch {
	case cfg.Addr == "":
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case cfg.UpstreamBaseURL == "":
		return nil, fmt.Errorf("%w: upstream_base_url must not be empty", ErrInvalidConfig)
	case cfg.FetchConcurrency < 1:
		return nil, fmt.Errorf("%w: fetch_concurrency must be positive", ErrInvalidConfig)
	case cfg.UpstreamTimeoutMS < 1:
		return nil, fmt.Errorf("%w: upstream_timeout_ms must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
