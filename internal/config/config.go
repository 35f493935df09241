package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sortviz/internal/sorting"
)

const (
	DefaultAlgorithm = "bubble"
	DefaultCount     = 10
	DefaultMaxValue  = 16
	DefaultPacingMs  = 1000
	DefaultTheme     = "cyberpunk"
	DefaultDataDir   = ".sortviz"
	DefaultLogLevel  = "info"
)

type Config struct {
	Algorithm string `yaml:"algorithm"`
	Count     int    `yaml:"count"`
	MaxValue  int    `yaml:"max_value"`
	PacingMs  int    `yaml:"pacing_ms"`
	Seed      int64  `yaml:"seed"`
	Values    []int  `yaml:"values,omitempty"`
	Theme     string `yaml:"theme"`
	DataDir   string `yaml:"data_dir"`
	LogLevel  string `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Algorithm: DefaultAlgorithm,
		Count:     DefaultCount,
		MaxValue:  DefaultMaxValue,
		PacingMs:  DefaultPacingMs,
		Theme:     DefaultTheme,
		DataDir:   DefaultDataDir,
		LogLevel:  DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if _, err := sorting.ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}
	if c.Count < 0 {
		return fmt.Errorf("count must be non-negative, got %d", c.Count)
	}
	if c.MaxValue < 1 {
		return fmt.Errorf("max_value must be at least 1, got %d", c.MaxValue)
	}
	if c.PacingMs < 0 {
		return fmt.Errorf("pacing_ms must be non-negative, got %d", c.PacingMs)
	}
	for i, v := range c.Values {
		if v < 1 {
			return fmt.Errorf("values[%d] must be at least 1, got %d", i, v)
		}
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c *Config) Pacing() time.Duration {
	return time.Duration(c.PacingMs) * time.Millisecond
}

func (c *Config) AlgorithmName() sorting.Algorithm {
	a, err := sorting.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return sorting.Bubble
	}
	return a
}

// Environment variables read by ApplyEnv.
const (
	EnvAlgorithm = "SORTVIZ_ALGORITHM"
	EnvCount     = "SORTVIZ_COUNT"
	EnvMaxValue  = "SORTVIZ_MAX_VALUE"
	EnvPacingMs  = "SORTVIZ_PACING_MS"
	EnvLogLevel  = "SORTVIZ_LOG_LEVEL"
)

// LoadDotEnv loads .env files into the process environment. Missing files
// are not an error.
func LoadDotEnv(files ...string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides fields from SORTVIZ_* variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvAlgorithm); v != "" {
		c.Algorithm = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	ints := []struct {
		key string
		dst *int
	}{
		{EnvCount, &c.Count},
		{EnvMaxValue, &c.MaxValue},
		{EnvPacingMs, &c.PacingMs},
	}
	for _, e := range ints {
		v := os.Getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = n
	}
	return nil
}
