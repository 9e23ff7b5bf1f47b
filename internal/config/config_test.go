package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Reports.DefaultMonths != 2 {
		t.Errorf("DefaultMonths = %d, want 2", cfg.Reports.DefaultMonths)
	}
	if !cfg.Reports.PreferCached {
		t.Errorf("PreferCached should default on")
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("Theme = %q", cfg.Appearance.Theme)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.DefaultUser = "u1"
	cfg.General.DataDir = "/srv/vocalog"
	cfg.Reports.UTCOffsetMinutes = -300
	if err := Save(cfg); err != nil {
		t.Fatal(err)
	}
	if !Exists() {
		t.Fatal("config not written")
	}

	got, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.General.DefaultUser != "u1" || got.General.DataDir != "/srv/vocalog" {
		t.Errorf("general = %+v", got.General)
	}
	if got.Reports.UTCOffsetMinutes != -300 {
		t.Errorf("UTCOffsetMinutes = %d", got.Reports.UTCOffsetMinutes)
	}
}

func TestLoad_BadTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "vocalog"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "vocalog", "config.toml"), []byte("not = [valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestDataDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.DataDir = "/srv/vocalog"
	if got := DataDir(cfg); got != "/srv/vocalog" {
		t.Errorf("configured DataDir = %q", got)
	}

	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	cfg.General.DataDir = ""
	if got := DataDir(cfg); got != filepath.Join("/xdg/data", "vocalog") {
		t.Errorf("xdg DataDir = %q", got)
	}
	if got := IndexPath(cfg); got != filepath.Join("/xdg/data", "vocalog", "index.db") {
		t.Errorf("IndexPath = %q", got)
	}
}
