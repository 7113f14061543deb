package config

import (
	"fmt"
	"math"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the player-facing tuning surface for the loop mechanic. Values
// are wall-clock friendly; the loop core only ever sees tick counts.
type Config struct {
	// TickRate is the fixed simulation rate in ticks per second.
	TickRate int `yaml:"tick_rate" env:"TIMELOOP_TICK_RATE"`
	// LoopSeconds is the automatic loop length. Zero disables the
	// automatic boundary (manual trigger only).
	LoopSeconds float64 `yaml:"loop_seconds" env:"TIMELOOP_LOOP_SECONDS"`
	// Capacity is the maximum number of simultaneous clones.
	Capacity int `yaml:"capacity" env:"TIMELOOP_CAPACITY"`
}

// Default returns the stock tuning.
func Default() Config {
	return Config{
		TickRate:    60,
		LoopSeconds: 10,
		Capacity:    6,
	}
}

// Load reads a YAML file (optional, empty path skips it) and then applies
// environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config: parse env: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.TickRate <= 0 {
		c.TickRate = Default().TickRate
	}
	if c.LoopSeconds < 0 {
		c.LoopSeconds = 0
	}
	if c.Capacity < 1 {
		c.Capacity = 1
	}
}

// LoopDurationTicks translates the wall-clock loop length into the tick
// count the loop manager operates on. Zero means manual-only.
func (c Config) LoopDurationTicks() int {
	if c.LoopSeconds <= 0 {
		return 0
	}
	return int(math.Round(c.LoopSeconds * float64(c.TickRate)))
}
