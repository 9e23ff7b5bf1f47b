// Package config loads and saves the vocalog TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all vocalog configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Reports    ReportsConfig    `toml:"reports"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	// DataDir is the directory holding logs/ and the index database.
	// Empty means the XDG data dir.
	DataDir string `toml:"data_dir,omitempty"`
	// DefaultUser is assumed when no --user flag is given.
	DefaultUser string `toml:"default_user,omitempty"`
}

// ReportsConfig holds report preferences.
type ReportsConfig struct {
	// DefaultMonths is the trailing window length when no range is given.
	DefaultMonths int `toml:"default_months"`
	// UTCOffsetMinutes shifts the weekly activity grid for display.
	// Stored data stays in UTC.
	UTCOffsetMinutes int `toml:"utc_offset_minutes"`
	// PreferCached serves daily reports from weekly summaries when any exist.
	PreferCached bool `toml:"prefer_cached"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Reports: ReportsConfig{
			DefaultMonths: 2,
			PreferCached:  true,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vocalog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "vocalog")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir resolves the effective data directory: the configured one, or
// the XDG data dir.
func DataDir(cfg Config) string {
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "vocalog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "vocalog")
}

// IndexPath returns the index database path under the data directory.
func IndexPath(cfg Config) string {
	return filepath.Join(DataDir(cfg), "index.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
