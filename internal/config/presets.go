package config

import "sort"

var presets = map[string]Config{
	"classroom": {Algorithm: "bubble", Count: 10, MaxValue: 16, PacingMs: 1000},
	"brisk":     {Algorithm: "quick", Count: 16, MaxValue: 16, PacingMs: 250},
	"wide":      {Algorithm: "shell", Count: 32, MaxValue: 24, PacingMs: 60},
	"tiny":      {Algorithm: "insertion", Count: 5, MaxValue: 9, PacingMs: 600},
}

// GetPreset returns a full config built from the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Algorithm = p.Algorithm
	cfg.Count = p.Count
	cfg.MaxValue = p.MaxValue
	cfg.PacingMs = p.PacingMs
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
