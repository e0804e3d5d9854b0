package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RefreshIntervals are the refresh periods, in seconds, the dashboard offers.
var RefreshIntervals = []int{5, 10, 30, 60}

var (
	ErrInvalidInterval    = errors.New("refresh interval must be one of 5, 10, 30, 60 seconds")
	ErrInvalidProbability = errors.New("environmental alert probability must be within [0, 1]")
)

type Environment struct {
	Enabled     bool    `yaml:"enabled"`
	Probability float64 `yaml:"probability"`
}

// Config holds runtime configuration for the dashboard.
type Config struct {
	// Seconds between refreshes
	RefreshInterval int `yaml:"refresh_interval"`
	// Partial threshold overrides, merged over the built-in defaults
	Thresholds map[string]float64 `yaml:"thresholds"`
	// Simulated environmental alerts
	Environment Environment `yaml:"environmental_alerts"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
	// Address for the Prometheus endpoint, empty disables it
	MetricsAddr string `yaml:"metrics_addr"`
	// Seed for the simulated plant, 0 seeds from the clock
	Seed int64 `yaml:"seed"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RefreshInterval: 10,
		Thresholds:      map[string]float64{},
		Environment: Environment{
			Enabled:     true,
			Probability: 0.3,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Thresholds == nil {
		cfg.Thresholds = map[string]float64{}
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if !ValidInterval(c.RefreshInterval) {
		return fmt.Errorf("%w: got %d", ErrInvalidInterval, c.RefreshInterval)
	}
	if p := c.Environment.Probability; p < 0 || p > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidProbability, p)
	}
	return nil
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

func ValidInterval(secs int) bool {
	for _, v := range RefreshIntervals {
		if v == secs {
			return true
		}
	}
	return false
}

// NextInterval returns the refresh interval after secs, wrapping around.
func NextInterval(secs int) int {
	for i, v := range RefreshIntervals {
		if v == secs {
			return RefreshIntervals[(i+1)%len(RefreshIntervals)]
		}
	}
	return RefreshIntervals[0]
}
