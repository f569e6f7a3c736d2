package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds the process settings read from the environment.
type EnvConfig struct {
	ConfigPath    string        `env:"ARENA_CONFIG"          envDefault:"arena.yaml"`
	DatabasePath  string        `env:"ARENA_DB"              envDefault:"arena.db"`
	ServerAddress string        `env:"ARENA_ADDR"`
	SessionSecret string        `env:"SESSION_SECRET"`
	SessionTTL    time.Duration `env:"ARENA_SESSION_TTL"`
	SweepInterval time.Duration `env:"ARENA_SWEEP_INTERVAL"`
	OTelEndpoint  string        `env:"ARENA_OTEL_ENDPOINT"`
}

// LoadEnv parses EnvConfig from the environment.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides file settings with the ones set in the environment.
func (c *LoadedConfig) ApplyEnv(e EnvConfig) {
	if e.ServerAddress != "" {
		c.ServerAddress = e.ServerAddress
	}
	if e.SessionTTL > 0 {
		c.SessionTTL = e.SessionTTL
	}
	if e.SweepInterval > 0 {
		c.SweepInterval = e.SweepInterval
	}
}
