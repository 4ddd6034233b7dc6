// Package config provides configuration loading and management for saltpick.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"saltpick/internal/models"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Band sampling parameters
	Band struct {
		// Radius is the number of lateral samples on each side of the curve (r)
		Radius int `yaml:"radius"`

		// Spacing is the lateral and along-curve sample interval in pixels (d)
		Spacing float64 `yaml:"spacing"`

		// Sigma is the half-width of the Gaussian lateral weight
		Sigma float64 `yaml:"sigma"`
	} `yaml:"band"`

	// Optimal path search parameters
	Search struct {
		// MaxStep is the largest offset change between neighbouring samples (w)
		MaxStep int `yaml:"maxStep"`

		// Bending weights the squared offset change (a)
		Bending float64 `yaml:"bending"`

		// Gain controls the exponential remap of band values to cost
		Gain float64 `yaml:"gain"`

		// CoherenceSigma smooths the band along the curve before the remap
		CoherenceSigma float64 `yaml:"coherenceSigma"`
	} `yaml:"search"`

	// Boundary construction parameters
	Boundary struct {
		// Spacing is the sample interval used when building a curve from seeds
		Spacing float64 `yaml:"spacing"`

		// SeedSmoothing is the smoothing half-width applied to a new curve
		SeedSmoothing float64 `yaml:"seedSmoothing"`

		// PickNextSigma smooths positions before re-picking a curve
		PickNextSigma float64 `yaml:"pickNextSigma"`
	} `yaml:"boundary"`

	// Feature extraction parameters
	Envelope struct {
		// Enabled replaces the input image by its instantaneous amplitude
		Enabled bool `yaml:"enabled"`

		// Method is "fir" or "fft"
		Method string `yaml:"method"`

		// HalfLength is the FIR Hilbert filter half length
		HalfLength int `yaml:"halfLength"`

		// NumWorkers bounds the number of rows processed concurrently
		NumWorkers int `yaml:"numWorkers"`

		// GainSigma enables automatic gain control before extraction when positive
		GainSigma float64 `yaml:"gainSigma"`
	} `yaml:"envelope"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`

		// LogFormat is "text" or "json"
		LogFormat string `yaml:"logFormat"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Band.Radius = 60
	cfg.Band.Spacing = 1.0
	cfg.Band.Sigma = 50.0

	cfg.Search.MaxStep = 10
	cfg.Search.Bending = 2.0
	cfg.Search.Gain = 4.0
	cfg.Search.CoherenceSigma = 1.0

	cfg.Boundary.Spacing = 1.0
	cfg.Boundary.SeedSmoothing = 8.0
	cfg.Boundary.PickNextSigma = 10.0

	cfg.Envelope.Enabled = true
	cfg.Envelope.Method = "fir"
	cfg.Envelope.HalfLength = 50
	cfg.Envelope.NumWorkers = runtime.NumCPU() // Use all available cores by default
	cfg.Envelope.GainSigma = 0

	cfg.Output.Verbose = true
	cfg.Output.LogFormat = "text"

	return cfg
}

// Validate checks that every parameter is in range
func (c *Config) Validate() error {
	switch {
	case c.Band.Radius < 0:
		return fmt.Errorf("band radius must be non-negative, got %d: %w", c.Band.Radius, models.ErrInvalidInput)
	case c.Band.Spacing <= 0:
		return fmt.Errorf("band spacing must be positive, got %g: %w", c.Band.Spacing, models.ErrInvalidInput)
	case c.Band.Sigma <= 0:
		return fmt.Errorf("band sigma must be positive, got %g: %w", c.Band.Sigma, models.ErrInvalidInput)
	case c.Search.MaxStep < 0:
		return fmt.Errorf("maximum step must be non-negative, got %d: %w", c.Search.MaxStep, models.ErrInvalidInput)
	case c.Search.Bending < 0:
		return fmt.Errorf("bending penalty must be non-negative, got %g: %w", c.Search.Bending, models.ErrInvalidInput)
	case c.Boundary.Spacing <= 0:
		return fmt.Errorf("boundary spacing must be positive, got %g: %w", c.Boundary.Spacing, models.ErrInvalidInput)
	case c.Boundary.SeedSmoothing < 0 || c.Boundary.PickNextSigma < 0:
		return fmt.Errorf("smoothing half-widths must be non-negative: %w", models.ErrInvalidInput)
	case c.Envelope.Method != "fir" && c.Envelope.Method != "fft":
		return fmt.Errorf("unknown envelope method %q: %w", c.Envelope.Method, models.ErrInvalidInput)
	case c.Output.LogFormat != "text" && c.Output.LogFormat != "json":
		return fmt.Errorf("unknown log format %q: %w", c.Output.LogFormat, models.ErrInvalidInput)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Fields missing from the file keep their defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
