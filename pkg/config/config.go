package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cbodonnell/coinflip/pkg/log"
)

// Config holds the settings shared by the client and server entrypoints.
type Config struct {
	FlipDelay    time.Duration `env:"FLIP_DELAY" envDefault:"2s"`
	TickInterval time.Duration `env:"TICK_INTERVAL" envDefault:"50ms"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	// DatabaseURL selects the flip journal. Empty disables it.
	DatabaseURL string `env:"DATABASE_URL"`
	APIPort     int    `env:"API_PORT" envDefault:"9090"`
}

const envPrefix = "COINFLIP_"

// Load reads the configuration from COINFLIP_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.FlipDelay <= 0 {
		return fmt.Errorf("flip delay must be positive, got %s", c.FlipDelay)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", c.TickInterval)
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("invalid api port: %d", c.APIPort)
	}
	if _, err := log.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParsedLogLevel returns LogLevel as a log.LogLevel.
func (c *Config) ParsedLogLevel() log.LogLevel {
	level, err := log.ParseLogLevel(c.LogLevel)
	if err != nil {
		return log.LogLevelInfo
	}
	return level
}
