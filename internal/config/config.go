/*
PURPOSE:
  Defines the configuration structure and loading logic for housing-price.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Running with no file, no flags and no environment reproduces the
    built-in demo: SDCA, seed 0, predictions for 700, 1300 and 2500 sqft.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Needs to support Environment variables overrides (HOUSING_...).
  - LOG_LEVEL is honoured when HOUSING_LOG_LEVEL is unset.
  - Trainer hyperparameters are tunable without recompiling.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3 (standard for Go config)

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing default files fall back to DefaultConfig.
  - Bad environment values are errors, not warnings: a typo must not
    silently train a different model.

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Precedence: defaults < file < environment < CLI flags.

USAGE:
  cfg, err := config.Load("housing_price.yaml")
  if err := cfg.ApplyEnv(os.LookupEnv); err != nil { ... }
  if err := cfg.Validate(); err != nil { ... }

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct, DefaultConfig,
    ApplyEnv (when scalar) and the embedded default file.

RELATED FILES:
  - internal/cli/root.go
  - internal/assets/housing_price.yaml

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/daryltucker/housing-price/internal/learn"
	"github.com/daryltucker/housing-price/internal/model"
	"github.com/daryltucker/housing-price/internal/output"
)

// DefaultFiles are searched, in order, when no config path is given.
var DefaultFiles = []string{"housing_price.yaml", "housing_price.yml", "housing-price.yaml"}

// Config represents the full configuration for housing-price.
type Config struct {
	Trainer           string    `yaml:"trainer"`
	Seed              int64     `yaml:"seed"`
	PredictionSizes   []float64 `yaml:"prediction_sizes"`
	DatasetFile       string    `yaml:"dataset_file"`
	OutputDir         string    `yaml:"output_dir"`
	OutputCompression string    `yaml:"output_compression"`
	MetricsFile       string    `yaml:"metrics_file"`
	WaitForKey        bool      `yaml:"wait_for_key"`
	LogLevel          string    `yaml:"log_level"`
	LogFormat         string    `yaml:"log_format"`
	LogFile           string    `yaml:"log_file"`

	SDCA     SDCAConfig     `yaml:"sdca"`
	FastTree FastTreeConfig `yaml:"fasttree"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// SDCAConfig tunes the least-squares trainer.
type SDCAConfig struct {
	L2Regularization float64 `yaml:"l2_regularization"`
	MaxIterations    int     `yaml:"max_iterations"`
	Tolerance        float64 `yaml:"tolerance"`
	Shuffle          bool    `yaml:"shuffle"`
}

// FastTreeConfig tunes the boosted tree trainer.
type FastTreeConfig struct {
	Trees              int     `yaml:"trees"`
	Leaves             int     `yaml:"leaves"`
	MinExamplesPerLeaf int     `yaml:"min_examples_per_leaf"`
	LearningRate       float64 `yaml:"learning_rate"`
	Subsample          float64 `yaml:"subsample"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	sdca := learn.DefaultSDCAOptions()
	ft := learn.DefaultFastTreeOptions()

	return &Config{
		Trainer:           model.TrainerSDCA.String(),
		Seed:              0,
		PredictionSizes:   []float64{700, 1300, 2500},
		OutputCompression: string(output.CompressionNone),
		WaitForKey:        true,
		LogLevel:          "info",
		LogFormat:         "text",
		SDCA: SDCAConfig{
			L2Regularization: sdca.L2Regularization,
			MaxIterations:    sdca.MaximumNumberOfIterations,
			Tolerance:        sdca.ConvergenceTolerance,
			Shuffle:          sdca.Shuffle,
		},
		FastTree: FastTreeConfig{
			Trees:              ft.NumberOfTrees,
			Leaves:             ft.NumberOfLeaves,
			MinExamplesPerLeaf: ft.MinimumExampleCountPerLeaf,
			LearningRate:       ft.LearningRate,
			Subsample:          ft.SubsampleFraction,
		},
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, returns default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		found := false
		for _, name := range DefaultFiles {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				found = true
				break
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", name, err)
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.Path = path

	return cfg, nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides scalar fields from HOUSING_* variables.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("HOUSING_TRAINER", &c.Trainer)
	str("HOUSING_DATASET_FILE", &c.DatasetFile)
	str("HOUSING_OUTPUT_DIR", &c.OutputDir)
	str("HOUSING_OUTPUT_COMPRESSION", &c.OutputCompression)
	str("HOUSING_METRICS_FILE", &c.MetricsFile)
	str("HOUSING_LOG_FORMAT", &c.LogFormat)
	str("HOUSING_LOG_FILE", &c.LogFile)
	if v, ok := lookup("HOUSING_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	} else {
		str("LOG_LEVEL", &c.LogLevel)
	}

	if v, ok := lookup("HOUSING_SEED"); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: HOUSING_SEED: %v", model.ErrInvalidConfig, err)
		}
		c.Seed = seed
	}
	if v, ok := lookup("HOUSING_WAIT_FOR_KEY"); ok && v != "" {
		wait, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: HOUSING_WAIT_FOR_KEY: %v", model.ErrInvalidConfig, err)
		}
		c.WaitForKey = wait
	}
	if v, ok := lookup("HOUSING_PREDICTION_SIZES"); ok && v != "" {
		sizes, err := ParseSizes(v)
		if err != nil {
			return fmt.Errorf("%w: HOUSING_PREDICTION_SIZES: %v", model.ErrInvalidConfig, err)
		}
		c.PredictionSizes = sizes
	}

	return nil
}

// ParseSizes parses a comma-separated list of sizes such as "700,1300,2500".
func ParseSizes(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	sizes := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q", p)
		}
		sizes = append(sizes, v)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes in %q", s)
	}
	return sizes, nil
}

// TrainerKind returns the parsed trainer selection.
func (c *Config) TrainerKind() (model.TrainerKind, error) {
	return model.ParseTrainerKind(c.Trainer)
}

// Compression returns the parsed report codec.
func (c *Config) Compression() (output.Compression, error) {
	return output.ParseCompression(c.OutputCompression)
}

// LogOptions returns the logger settings.
func (c *Config) LogOptions() output.LogOptions {
	return output.LogOptions{Level: c.LogLevel, Format: c.LogFormat, File: c.LogFile}
}

// Validate checks every field that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.TrainerKind(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Compression(); err != nil {
		errs = append(errs, err)
	}
	if _, err := output.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(c.PredictionSizes) == 0 {
		errs = append(errs, fmt.Errorf("%w: prediction_sizes is empty", model.ErrInvalidConfig))
	}
	if _, err := c.SDCAOptions(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.FastTreeOptions(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// SDCAOptions converts the SDCA section into trainer options, checking them
// against a throwaway session.
func (c *Config) SDCAOptions() ([]learn.SDCAOption, error) {
	opts := []learn.SDCAOption{
		learn.WithL2Regularization(c.SDCA.L2Regularization),
		learn.WithMaximumNumberOfIterations(c.SDCA.MaxIterations),
		learn.WithConvergenceTolerance(c.SDCA.Tolerance),
		learn.WithShuffle(c.SDCA.Shuffle),
	}
	if _, err := learn.NewSession(0, nil).SDCA(opts...); err != nil {
		return nil, fmt.Errorf("sdca: %w", err)
	}
	return opts, nil
}

// FastTreeOptions converts the fasttree section into trainer options.
func (c *Config) FastTreeOptions() ([]learn.FastTreeOption, error) {
	opts := []learn.FastTreeOption{
		learn.WithNumberOfTrees(c.FastTree.Trees),
		learn.WithNumberOfLeaves(c.FastTree.Leaves),
		learn.WithMinimumExampleCountPerLeaf(c.FastTree.MinExamplesPerLeaf),
		learn.WithLearningRate(c.FastTree.LearningRate),
		learn.WithSubsampleFraction(c.FastTree.Subsample),
	}
	if _, err := learn.NewSession(0, nil).FastTree(opts...); err != nil {
		return nil, fmt.Errorf("fasttree: %w", err)
	}
	return opts, nil
}
