// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice"`
	Ranking  RankingConfig  `toml:"ranking"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Lang       *string `toml:"lang"`
	Mode       *string `toml:"mode"`
	Lesson     *string `toml:"lesson"`
	DrillWords *int    `toml:"drill-words"`
	WeakTop    *int    `toml:"weak-top"`
	WeakWindow *int    `toml:"weak-window"`
}

// RankingConfig maps weak-key ranking settings.
type RankingConfig struct {
	MinAttempts   *int     `toml:"min-attempts"`
	ErrorWeight   *float64 `toml:"error-weight"`
	LatencyWeight *float64 `toml:"latency-weight"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
