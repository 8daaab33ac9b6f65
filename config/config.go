package config

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Invicton-Labs/go-exponent/aws/secrets"
	"github.com/Invicton-Labs/go-exponent/aws/ssm"
	"github.com/Invicton-Labs/go-exponent/exponent"
	"github.com/Invicton-Labs/go-exponent/log"
	"github.com/Invicton-Labs/go-stackerr"
	"gopkg.in/yaml.v3"
)

const (
	EnvTolerance     = "EXPONENT_TOLERANCE"
	EnvMaxIterations = "EXPONENT_MAX_ITERATIONS"
	EnvLogLevel      = "EXPONENT_LOG_LEVEL"
	EnvDevelopment   = "EXPONENT_DEVELOPMENT"
)

// Config holds all exponentiator configuration.
type Config struct {
	Series  SeriesConfig  `yaml:"series" json:"series"`
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
	Batch   BatchConfig   `yaml:"batch" json:"batch"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SeriesConfig tunes the Taylor series approximations.
type SeriesConfig struct {
	Tolerance       float64 `yaml:"tolerance" json:"tolerance"`
	MaxIterations   int     `yaml:"max_iterations" json:"max_iterations"`
	InitialPrevious float64 `yaml:"initial_previous" json:"initial_previous"`
}

// CacheConfig sizes the in-memory result cache. A zero size disables it.
type CacheConfig struct {
	MaxSizeBytes int64 `yaml:"max_size_bytes" json:"max_size_bytes"`
	// 0 for never expiring
	MaxAgeSeconds int64 `yaml:"max_age_seconds" json:"max_age_seconds"`
}

type BatchConfig struct {
	// Maximum number of cases evaluated at once
	Concurrency int `yaml:"concurrency" json:"concurrency"`
}

type LoggingConfig struct {
	Level       string `yaml:"level" json:"level"`
	Development bool   `yaml:"development" json:"development"`
}

func DefaultConfig() *Config {
	return &Config{
		Series: SeriesConfig{
			Tolerance:       exponent.DefaultTolerance,
			MaxIterations:   exponent.DefaultMaxIterations,
			InitialPrevious: exponent.DefaultInitialPrevious,
		},
		Cache: CacheConfig{
			MaxSizeBytes: 1 << 20,
		},
		Batch: BatchConfig{
			Concurrency: 8,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied either way.
func Load(path string) (*Config, stackerr.Error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, stackerr.Wrap(err).With(map[string]any{
				"path": path,
			})
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, stackerr.Wrap(err).With(map[string]any{
			"path": path,
		})
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse reads configuration from a YAML (or JSON) document on top of the
// defaults. Environment overrides are not applied.
func Parse(data []byte) (*Config, stackerr.Error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, stackerr.Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromSsm reads the configuration document from an SSM parameter,
// given by name or ARN.
func LoadFromSsm(ctx context.Context, parameter string) (*Config, stackerr.Error) {
	doc, err := ssm.GetSsmParameter(ctx, parameter)
	if err != nil {
		return nil, err
	}
	return Parse([]byte(doc))
}

// LoadFromSecret reads the YAML document from an AWS Secrets Manager secret.
func LoadFromSecret(ctx context.Context, secretId string) (*Config, stackerr.Error) {
	doc, err := secrets.GetSecret(ctx, secretId)
	if err != nil {
		return nil, err
	}
	return Parse([]byte(doc))
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) stackerr.Error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return stackerr.Wrap(err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return stackerr.Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return stackerr.Wrap(err)
	}
	return nil
}

func (c *Config) Validate() stackerr.Error {
	if !(c.Series.Tolerance > 0) {
		return stackerr.Errorf("series tolerance must be greater than zero, got %v", c.Series.Tolerance)
	}
	if c.Series.MaxIterations <= 0 {
		return stackerr.Errorf("series max_iterations must be greater than zero, got %d", c.Series.MaxIterations)
	}
	if c.Series.InitialPrevious == 0 {
		return stackerr.Errorf("series initial_previous must not be zero")
	}
	if c.Cache.MaxSizeBytes < 0 || c.Cache.MaxAgeSeconds < 0 {
		return stackerr.Errorf("cache sizes must not be negative")
	}
	if c.Batch.Concurrency <= 0 {
		return stackerr.Errorf("batch concurrency must be greater than zero, got %d", c.Batch.Concurrency)
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyEnvOverrides() stackerr.Error {
	if v := os.Getenv(EnvTolerance); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return stackerr.Wrap(err).With(map[string]any{"env": EnvTolerance})
		}
		c.Series.Tolerance = f
	}
	if v := os.Getenv(EnvMaxIterations); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return stackerr.Wrap(err).With(map[string]any{"env": EnvMaxIterations})
		}
		c.Series.MaxIterations = i
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvDevelopment); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return stackerr.Wrap(err).With(map[string]any{"env": EnvDevelopment})
		}
		c.Logging.Development = b
	}
	return nil
}

// ExponentConfig converts the series settings for the numerical core.
func (c *Config) ExponentConfig() exponent.Config {
	return exponent.Config{
		Tolerance:       c.Series.Tolerance,
		MaxIterations:   c.Series.MaxIterations,
		InitialPrevious: c.Series.InitialPrevious,
	}
}

// LoggerInput converts the logging settings for log.New / log.InitDefault.
func (c *Config) LoggerInput(name string) (log.NewInput, stackerr.Error) {
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return log.NewInput{}, err
	}
	return log.NewInput{
		Name:          name,
		Level:         level,
		IsDevelopment: c.Logging.Development,
	}, nil
}
