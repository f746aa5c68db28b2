package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/lehigh-university-libraries/storagecalc/internal/footprint"
	"github.com/lehigh-university-libraries/storagecalc/internal/registry"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Environment variables that override the file.
const (
	EnvMinSize           = "STORAGECALC_MIN_SIZE"
	EnvCompressionFactor = "STORAGECALC_COMPRESSION_FACTOR"
	EnvHumanReadable     = "STORAGECALC_HUMAN_READABLE"
)

type Config struct {
	Pyramid struct {
		MinSize uint64 `yaml:"min_size"`
	} `yaml:"pyramid"`
	Group struct {
		CompressionFactor float64 `yaml:"compression_factor"`
	} `yaml:"group"`
	Output struct {
		HumanReadable bool `yaml:"human_readable"`
	} `yaml:"output"`
}

// Default returns the estimator's built-in constants.
func Default() *Config {
	var c Config
	c.Pyramid.MinSize = footprint.DefaultMinSize
	c.Group.CompressionFactor = registry.DefaultCompressionFactor
	return &c
}

// Load reads filename over the defaults (an empty filename skips the file),
// applies environment overrides and validates the result.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", filename, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvMinSize); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvMinSize, v, err)
		}
		c.Pyramid.MinSize = n
	}
	if v := os.Getenv(EnvCompressionFactor); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvCompressionFactor, v, err)
		}
		c.Group.CompressionFactor = f
	}
	if v := os.Getenv(EnvHumanReadable); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalid, EnvHumanReadable, v, err)
		}
		c.Output.HumanReadable = b
	}
	return nil
}

// Validate rejects values for which the estimator is undefined.
func (c *Config) Validate() error {
	if c.Pyramid.MinSize < 1 {
		return fmt.Errorf("%w: pyramid.min_size must be at least 1", ErrInvalid)
	}
	// ln(0 + factor) must be positive for an empty group.
	if !(c.Group.CompressionFactor > 1) {
		return fmt.Errorf("%w: group.compression_factor must be greater than 1, got %v", ErrInvalid, c.Group.CompressionFactor)
	}
	return nil
}

// PyramidModel returns the pyramid model described by the configuration.
func (c *Config) PyramidModel() footprint.Pyramid {
	return footprint.NewPyramid(c.Pyramid.MinSize)
}

// NewRegistry returns an empty registry using the configured discount.
func (c *Config) NewRegistry() *registry.Registry {
	return registry.New(registry.NewIDAllocator(registry.DefaultFirstID), c.Group.CompressionFactor)
}
