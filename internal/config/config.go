// Package config loads and validates revgrad configuration.
//
// Configuration comes from an optional YAML file; keys missing from the
// file keep their defaults. Command-line flags are applied on top by the
// caller before Validate.
//
// Example file:
//
//	log:
//	  level: debug
//	  format: json
//	parser: hcl
//	batch:
//	  workers: 8
//	trace:
//	  enabled: true
//	check:
//	  step: 1e-6
//	  tolerance: 1e-4
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/born-ml/revgrad/internal/gradfn"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the complete revgrad configuration.
type Config struct {
	Log    LogConfig   `yaml:"log"`
	Parser string      `yaml:"parser" validate:"oneof=go hcl"`
	Batch  BatchConfig `yaml:"batch"`
	Trace  TraceConfig `yaml:"trace"`
	Check  CheckConfig `yaml:"check"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// BatchConfig configures batch evaluation.
type BatchConfig struct {
	Workers int `yaml:"workers" validate:"gte=1"`
}

// TraceConfig configures span export.
type TraceConfig struct {
	Enabled bool `yaml:"enabled"`
}

// CheckConfig configures the finite-difference gradient check.
type CheckConfig struct {
	Step      float64 `yaml:"step" validate:"gt=0"`
	Tolerance float64 `yaml:"tolerance" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Parser: "go",
		Batch:  BatchConfig{Workers: gradfn.DefaultWorkers()},
		Check:  CheckConfig{Step: 1e-6, Tolerance: 1e-4},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks every field against its allowed range.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
