// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Output  OutputConfig  `toml:"output"`
	History HistoryConfig `toml:"history"`
}

// OutputConfig maps default output settings.
type OutputConfig struct {
	SortBy            *string `toml:"sort-by"`
	AsPercent         *bool   `toml:"as-percentage"`
	Format            *string `toml:"format"`
	IncludeWhitespace *bool   `toml:"include-whitespace"`
}

// HistoryConfig maps run-history settings.
type HistoryConfig struct {
	Enabled  *bool `toml:"enabled"`
	TopChars *int  `toml:"top-chars"`
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
