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
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if GAFFER_CONFIG is set
//  3. env (prefix GAFFER_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("GAFFER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: GAFFER_ADDR, GAFFER_EMA_ALPHA, ...
	// Map env keys like GAFFER_EMA_ALPHA -> ema_alpha (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("GAFFER_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "gaffer_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the engines cannot operate under.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.EMAAlpha <= 0 || c.EMAAlpha >= 1 {
		return fmt.Errorf("%w: ema_alpha must be in (0,1), got %v", ErrInvalidConfig, c.EMAAlpha)
	}
	if c.FixtureWindow <= 0 {
		return fmt.Errorf("%w: fixture_window must be positive, got %d", ErrInvalidConfig, c.FixtureWindow)
	}
	if c.MultiplierMin > c.MultiplierMax {
		return fmt.Errorf("%w: multiplier bounds inverted (%v > %v)", ErrInvalidConfig, c.MultiplierMin, c.MultiplierMax)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	}
	if !c.RiskWeights.Valid() {
		return fmt.Errorf("%w: risk_weights must sum to 1", ErrInvalidConfig)
	}
	return nil
}
