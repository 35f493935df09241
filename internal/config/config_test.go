package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Algorithm != "bubble" {
		t.Errorf("expected algorithm bubble, got %s", cfg.Algorithm)
	}
	if cfg.Count != 10 || cfg.MaxValue != 16 {
		t.Errorf("expected 10 elements up to 16, got %d up to %d", cfg.Count, cfg.MaxValue)
	}
	if cfg.Pacing() != time.Second {
		t.Errorf("expected 1s pacing, got %v", cfg.Pacing())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown algorithm", func(c *Config) { c.Algorithm = "bogo" }},
		{"negative count", func(c *Config) { c.Count = -1 }},
		{"zero max value", func(c *Config) { c.MaxValue = 0 }},
		{"negative pacing", func(c *Config) { c.PacingMs = -5 }},
		{"zero value", func(c *Config) { c.Values = []int{3, 0} }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sortviz.yaml")

	cfg := DefaultConfig()
	cfg.Algorithm = "shell"
	cfg.Values = []int{8, 3, 9}
	cfg.PacingMs = 20
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Algorithm != "shell" || loaded.PacingMs != 20 || len(loaded.Values) != 3 {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("algorithm: quick\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Algorithm != "quick" {
		t.Errorf("expected quick, got %s", cfg.Algorithm)
	}
	if cfg.Count != DefaultCount || cfg.PacingMs != DefaultPacingMs {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAlgorithm, "selection")
	t.Setenv(EnvCount, "7")
	t.Setenv(EnvPacingMs, "15")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("apply env failed: %v", err)
	}
	if cfg.Algorithm != "selection" || cfg.Count != 7 || cfg.PacingMs != 15 {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.MaxValue != DefaultMaxValue {
		t.Errorf("unset variable changed max value to %d", cfg.MaxValue)
	}
}

func TestApplyEnvRejectsNonNumeric(t *testing.T) {
	t.Setenv(EnvMaxValue, "tall")
	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Error("expected error for non-numeric max value")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(EnvMaxValue+"=42\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvMaxValue, "")
	os.Unsetenv(EnvMaxValue)

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("load dotenv failed: %v", err)
	}
	if os.Getenv(EnvMaxValue) != "42" {
		t.Errorf("expected %s=42, got %q", EnvMaxValue, os.Getenv(EnvMaxValue))
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("brisk")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Algorithm != "quick" || cfg.PacingMs != 250 {
		t.Errorf("unexpected preset %+v", cfg)
	}
	if cfg.Theme != DefaultTheme {
		t.Errorf("preset should keep default theme, got %s", cfg.Theme)
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != 4 || names[0] != "brisk" {
		t.Errorf("unexpected presets %v", names)
	}
	for _, n := range names {
		if err := GetPreset(n).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", n, err)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown", "n", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "n=3") {
		t.Errorf("unexpected log output %q", out)
	}

	if lvl, err := ParseLevel("DEBUG"); err != nil || lvl != slog.LevelDebug {
		t.Errorf("expected debug level, got %v (%v)", lvl, err)
	}
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 7
	cfg.MaxValue = 30
	cfg.PacingMs = 250
	cfg.Seed = 42

	opts := cfg.Options(nil)
	if opts.Count != 7 || opts.MaxValue != 30 {
		t.Errorf("unexpected size options %+v", opts)
	}
	if opts.Pacing != 250*time.Millisecond {
		t.Errorf("expected 250ms pacing, got %v", opts.Pacing)
	}
	if opts.Seed != 42 {
		t.Errorf("expected seed 42, got %d", opts.Seed)
	}

	cfg.Seed = 0
	if cfg.Options(nil).Seed == 0 {
		t.Error("expected a generated seed when none is configured")
	}
}
