package utils

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Config holds the settings for interactive and batch runs
type Config struct {
	Rows           int           `json:"rows"`
	Cols           int           `json:"cols"`
	Interval       time.Duration `json:"interval"`
	RandomDensity  float64       `json:"random_density"`
	Seed           int64         `json:"seed"`
	MaxGenerations int           `json:"max_generations"`
	ClearScreen    bool          `json:"clear_screen"`
	Cycles         int           `json:"cycles"`
	OutDir         string        `json:"out_dir"`
	Jobs           int           `json:"jobs"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Rows:           5,
		Cols:           5,
		Interval:       500 * time.Millisecond,
		RandomDensity:  0.5,
		Seed:           time.Now().UnixNano(),
		MaxGenerations: 0, // run until interrupted
		ClearScreen:    true,
		Cycles:         1,
		Jobs:           4,
	}
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}

// Bind attaches the command-line overrides to the provided FlagSet
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Cycles, "cycles", c.Cycles, "generations to compute per file in batch mode")
	fs.StringVar(&c.OutDir, "out", c.OutDir, "directory for batch results (stdout when empty)")
	fs.IntVar(&c.Jobs, "jobs", c.Jobs, "files simulated concurrently in batch mode")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for random worlds")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "delay between displayed generations")
	fs.IntVar(&c.MaxGenerations, "max-generations", c.MaxGenerations, "stop the interactive loop after this many generations (0 = until interrupted)")
	fs.BoolVar(&c.ClearScreen, "clear", c.ClearScreen, "clear the terminal between generations")
}
