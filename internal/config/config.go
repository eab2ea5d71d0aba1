// Package config holds the balance constants for a session. Defaults
// match the original prototype; a YAML file can override any subset.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full set of tunable session parameters.
type Config struct {
	GridCols   int     `yaml:"grid_cols"`
	GridRows   int     `yaml:"grid_rows"`
	TileSize   float64 `yaml:"tile_size"`
	GridMargin float64 `yaml:"grid_margin"`

	Duration      float64 `yaml:"duration"` // Session length in seconds
	StartingMoney float64 `yaml:"starting_money"`

	LandCost         float64 `yaml:"land_cost"`
	WorkerCost       float64 `yaml:"worker_cost"`
	WorkerUpkeep     float64 `yaml:"worker_upkeep"` // Per worker, per second
	WorkerSpeed      float64 `yaml:"worker_speed"`
	SiloCost         float64 `yaml:"silo_cost"`
	BaseStorage      int     `yaml:"base_storage"`
	SiloCapacity     int     `yaml:"silo_capacity"`
	PriceInterval    float64 `yaml:"price_interval"`    // Seconds between price updates
	AutosaveInterval float64 `yaml:"autosave_interval"` // Seconds of play between saves
}

// Default returns the standard balance.
func Default() Config {
	return Config{
		GridCols:   10,
		GridRows:   6,
		TileSize:   64,
		GridMargin: 20,

		Duration:      600,
		StartingMoney: 30000,

		LandCost:         500,
		WorkerCost:       2000,
		WorkerUpkeep:     5,
		WorkerSpeed:      70,
		SiloCost:         3000,
		BaseStorage:      50,
		SiloCapacity:     50,
		PriceInterval:    20,
		AutosaveInterval: 1,
	}
}

// Load reads a YAML override file on top of the defaults. An empty
// path or a missing file yields the defaults; a file that exists but
// fails to parse is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
