// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Export ExportConfig `toml:"export"`
	Log    LogConfig    `toml:"log"`
}

// ExportConfig maps export-related settings.
type ExportConfig struct {
	Format         *string `toml:"format"`
	OutDir         *string `toml:"out-dir"`
	Subject        *string `toml:"subject"`
	DateRange      *string `toml:"date-range"`
	PageSize       *string `toml:"page-size"`
	PieWedges      *bool   `toml:"pie-wedges"`
	IncludeCharts  *bool   `toml:"charts"`
	IncludeRawData *bool   `toml:"raw-data"`
	IncludeDevices *bool   `toml:"devices"`
	IncludePopular *bool   `toml:"popular"`
	IncludeTraffic *bool   `toml:"traffic"`
	RecordHistory  *bool   `toml:"history"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
