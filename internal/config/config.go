// Package config loads simulation settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv.
const (
	EnvConfigPath = "DUNGEONSIM_CONFIG"
	EnvLogLevel   = "LOG_LEVEL"
	EnvLogFormat  = "LOG_FORMAT"
	EnvSeed       = "DUNGEONSIM_SEED"
)

// Config is the full set of simulation settings.
type Config struct {
	Map             MapConfig     `yaml:"map"`
	Stage           StageConfig   `yaml:"stage"`
	TurnPause       time.Duration `yaml:"turn_pause"`
	VisionRadius    int           `yaml:"vision_radius"`
	MonstersPerRoom int           `yaml:"monsters_per_room"`
	Seed            int64         `yaml:"seed"` // 0 means time-seeded
	Logging         LoggingConfig `yaml:"logging"`
}

// MapConfig is the dungeon size in tiles.
type MapConfig struct {
	Width  int        `yaml:"width"`
	Height int        `yaml:"height"`
	Tile   TileConfig `yaml:"tile"`
}

// TileConfig is the pixel size of one tile.
type TileConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// StageConfig is the pixel viewport the camera centres on the player.
type StageConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LoggingConfig selects the zap logger built by the logging package.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
	Output string `yaml:"output"` // file path; the terminal belongs to the UI
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Map: MapConfig{
			Width:  80,
			Height: 40,
			Tile:   TileConfig{Width: 32, Height: 32},
		},
		Stage:           StageConfig{Width: 1000, Height: 800},
		TurnPause:       120 * time.Millisecond,
		VisionRadius:    8,
		MonstersPerRoom: 2,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "dungeonsim.log",
		},
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv loads the file named by DUNGEONSIM_CONFIG, if set, then applies
// the remaining environment overrides and validates the result.
func FromEnv() (*Config, error) {
	cfg := Default()
	if path := os.Getenv(EnvConfigPath); path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}
	positive("map.width", c.Map.Width)
	positive("map.height", c.Map.Height)
	positive("map.tile.width", c.Map.Tile.Width)
	positive("map.tile.height", c.Map.Tile.Height)
	positive("stage.width", c.Stage.Width)
	positive("stage.height", c.Stage.Height)
	positive("vision_radius", c.VisionRadius)
	if c.MonstersPerRoom < 0 {
		errs = append(errs, fmt.Errorf("monsters_per_room must not be negative, got %d", c.MonstersPerRoom))
	}
	if c.TurnPause < 0 {
		errs = append(errs, fmt.Errorf("turn_pause must not be negative, got %s", c.TurnPause))
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
