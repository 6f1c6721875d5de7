// Package config holds the headless simulator settings.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Sim configures one simulator run.
type Sim struct {
	// StartLevel is the catalog index the run begins on.
	StartLevel int `yaml:"start_level"`
	// TickRate is the number of simulation ticks per second.
	TickRate int `yaml:"tick_rate"`
	// MaxTicks ends the run; 0 runs until victory or interrupt.
	MaxTicks int `yaml:"max_ticks"`
	// Realtime paces ticks against the wall clock instead of running flat out.
	Realtime bool `yaml:"realtime"`

	LogLevel string `yaml:"log_level"`

	// Catalog names the level catalog under levels/. The embedded copy is used
	// when no file exists on disk.
	Catalog string `yaml:"catalog"`

	Watch         bool          `yaml:"watch"`
	WatchDirs     []string      `yaml:"watch_dirs"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`

	// Autopilot drives the scripted player.
	Autopilot Autopilot `yaml:"autopilot"`
}

type Autopilot struct {
	Enabled bool `yaml:"enabled"`
	// RespawnDelay is how long the dead player waits before respawning.
	RespawnDelay time.Duration `yaml:"respawn_delay"`
	// EngageRange is how close the autopilot gets before swinging.
	EngageRange float64 `yaml:"engage_range"`
}

func Default() Sim {
	return Sim{
		StartLevel:    0,
		TickRate:      60,
		MaxTicks:      60 * 60 * 5,
		LogLevel:      "info",
		Catalog:       "catalog.yaml",
		Watch:         false,
		WatchDirs:     []string{"prefabs", "prefabs/scripts", "levels"},
		WatchDebounce: 100 * time.Millisecond,
		Autopilot: Autopilot{
			Enabled:      true,
			RespawnDelay: time.Second,
			EngageRange:  70,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Sim, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (s Sim) Validate() error {
	if s.TickRate <= 0 {
		return fmt.Errorf("config: tick_rate must be positive, got %d", s.TickRate)
	}
	if s.StartLevel < 0 {
		return fmt.Errorf("config: start_level must not be negative, got %d", s.StartLevel)
	}
	if s.MaxTicks < 0 {
		return fmt.Errorf("config: max_ticks must not be negative, got %d", s.MaxTicks)
	}
	return nil
}

// Step is the fixed tick length in seconds.
func (s Sim) Step() float64 {
	return 1 / float64(s.TickRate)
}

func (s Sim) Level() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
