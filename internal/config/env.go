package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// FromEnv overlays environment variables onto an existing configuration.
// Unset variables leave the current values alone.
func FromEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	cfg.ApplyDefaults()
	return nil
}
