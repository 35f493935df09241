package config

import (
	"log/slog"
	"time"

	"github.com/san-kum/sortviz/internal/visualizer"
)

// Options converts the config into visualizer options. A zero seed means a
// time-based one.
func (c *Config) Options(log *slog.Logger) visualizer.Options {
	opts := visualizer.DefaultOptions()
	opts.Count = c.Count
	opts.MaxValue = c.MaxValue
	opts.Pacing = c.Pacing()
	opts.Logger = log
	if c.Seed != 0 {
		opts.Seed = c.Seed
	} else {
		opts.Seed = time.Now().UnixNano()
	}
	return opts
}
