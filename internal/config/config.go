// Package config handles loading taskday's TOML configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/amonks/taskday/internal/kv"
	"github.com/amonks/taskday/internal/paths"
	"github.com/amonks/taskday/view"
)

// PathEnvVar names a config file whose keys override the global config.
const PathEnvVar = "TASKDAY_CONFIG"

// ErrInvalidColor is returned for an unknown display.color value.
var ErrInvalidColor = errors.New("color must be auto, always, or never")

// Config represents the taskday config.toml file.
type Config struct {
	Storage Storage `toml:"storage"`
	Display Display `toml:"display"`
}

// Storage selects where users, the session and tasks are kept.
type Storage struct {
	// Backend is "file", "sqlite" or "memory". td rejects "memory", which
	// only serves in-process tests.
	Backend string `toml:"backend"`

	// Path is the state directory (file) or database file (sqlite).
	// Empty uses the default state directory.
	Path string `toml:"path"`

	// PerUser keys the task list by user ID instead of sharing one list.
	PerUser bool `toml:"per-user"`
}

// Display configures rendering.
type Display struct {
	// DateLayout is a Go time layout for group headings.
	DateLayout string `toml:"date-layout"`

	// Color is "auto", "always" or "never".
	Color string `toml:"color"`
}

// Color modes for Display.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns the configuration used when no file sets a key.
func Default() *Config {
	return &Config{
		Storage: Storage{Backend: string(kv.BackendFile)},
		Display: Display{DateLayout: view.DefaultDateLayout, Color: ColorAuto},
	}
}

// Load reads the global config file and the file named by TASKDAY_CONFIG.
// Missing files are ignored.
func Load() (*Config, error) {
	globalPath, err := paths.DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFiles(globalPath, strings.TrimSpace(os.Getenv(PathEnvVar)))
}

// LoadFiles merges overridePath over globalPath over the defaults, key by key.
// An empty overridePath is skipped.
func LoadFiles(globalPath, overridePath string) (*Config, error) {
	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	overrideCfg, overrideMeta := &Config{}, toml.MetaData{}
	if overridePath != "" {
		overrideCfg, overrideMeta, err = loadConfigFile(overridePath)
		if err != nil {
			return nil, err
		}
	}

	merged := mergeConfigs(Default(), globalCfg, globalMeta)
	merged = mergeConfigs(merged, overrideCfg, overrideMeta)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	if _, err := kv.ParseBackend(c.Storage.Backend); err != nil {
		return fmt.Errorf("storage.backend: %w", err)
	}
	switch c.Display.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("display.color: %w: got %q", ErrInvalidColor, c.Display.Color)
	}
	return nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

// mergeConfigs returns base with every key defined in meta taken from over.
func mergeConfigs(base, over *Config, meta toml.MetaData) *Config {
	merged := *base
	merged.Storage.Backend = mergeString(meta.IsDefined("storage", "backend"), over.Storage.Backend, base.Storage.Backend)
	merged.Storage.Path = mergeString(meta.IsDefined("storage", "path"), over.Storage.Path, base.Storage.Path)
	if meta.IsDefined("storage", "per-user") {
		merged.Storage.PerUser = over.Storage.PerUser
	}
	merged.Display.DateLayout = mergeString(meta.IsDefined("display", "date-layout"), over.Display.DateLayout, base.Display.DateLayout)
	merged.Display.Color = strings.ToLower(mergeString(meta.IsDefined("display", "color"), over.Display.Color, base.Display.Color))
	return &merged
}

func mergeString(defined bool, overValue, baseValue string) string {
	value := baseValue
	if defined {
		value = overValue
	}
	return strings.TrimSpace(value)
}
