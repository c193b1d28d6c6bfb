// Package config loads biolens configuration from its YAML file and
// environment, and owns the global structured logger.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment names. The API base URL defaults differently per environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// DevBaseURL points at a locally running API.
	DevBaseURL = "http://localhost:8000"
	// ProdBaseURL points at the hosted deployment.
	ProdBaseURL = "https://api.abfi.io"
)

// Environment variables recognized by the loader. Each overrides the
// corresponding file setting.
const (
	EnvVarAPIURL      = "BIOLENS_API_URL"
	EnvVarEnvironment = "BIOLENS_ENV"
	EnvVarLogLevel    = "BIOLENS_LOG_LEVEL"
	EnvVarConfigDir   = "BIOLENS_CONFIG_DIR"
)

// configFileName is the config file inside the config directory.
const configFileName = "config.yaml"

// Default refresh tuning for dashboard queries.
const (
	DefaultStaleTime       = 30 * time.Second
	DefaultRefetchInterval = 30 * time.Second
)

// ErrInvalidEnvironment is returned for environments other than
// development and production.
var ErrInvalidEnvironment = errors.New("environment must be development or production")

// Config is the merged biolens configuration: file settings overridden by
// environment variables.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Logging LoggingConfig `yaml:"logging"`
	Refresh RefreshConfig `yaml:"refresh"`
}

// APIConfig selects the upstream deployment.
type APIConfig struct {
	// BaseURL overrides the per-environment default when set.
	BaseURL string `yaml:"base_url"`
	// Environment is development or production.
	Environment string `yaml:"environment"`
	// Retry enables capped exponential-backoff retries in the fetch layer.
	Retry bool `yaml:"retry"`
}

// LoggingConfig controls the zerolog setup.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// RefreshConfig tunes the query cache policies used by the dashboard.
type RefreshConfig struct {
	StaleTime       time.Duration `yaml:"stale_time"`
	RefetchInterval time.Duration `yaml:"refetch_interval"`
	RefetchOnFocus  *bool         `yaml:"refetch_on_focus"`
}

// Default returns the built-in configuration.
func Default() *Config {
	focus := true
	return &Config{
		API: APIConfig{
			Environment: EnvDevelopment,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Refresh: RefreshConfig{
			StaleTime:       DefaultStaleTime,
			RefetchInterval: DefaultRefetchInterval,
			RefetchOnFocus:  &focus,
		},
	}
}

// Load reads the config file (if present) and applies environment variable
// overrides. A missing file is not an error; a malformed one is.
func Load() (*Config, error) {
	cfg := Default()

	path, err := FilePath()
	if err == nil {
		data, readErr := os.ReadFile(path)
		switch {
		case readErr == nil:
			if yamlErr := yaml.Unmarshal(data, cfg); yamlErr != nil {
				return nil, fmt.Errorf("parse %s: %w", path, yamlErr)
			}
		case !os.IsNotExist(readErr):
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides layers environment variables over file settings.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvVarEnvironment); v != "" {
		cfg.API.Environment = v
	}
	if v := os.Getenv(EnvVarAPIURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvVarLogLevel); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if c.API.Environment != EnvDevelopment && c.API.Environment != EnvProduction {
		return fmt.Errorf("%w: got %q", ErrInvalidEnvironment, c.API.Environment)
	}
	if c.Refresh.StaleTime < 0 {
		return errors.New("refresh.stale_time cannot be negative")
	}
	if c.Refresh.RefetchInterval < 0 {
		return errors.New("refresh.refetch_interval cannot be negative")
	}
	return nil
}

// ResolvedBaseURL returns the explicit base URL when configured, otherwise
// the default for the environment.
func (c *Config) ResolvedBaseURL() string {
	if c.API.BaseURL != "" {
		return c.API.BaseURL
	}
	if c.API.Environment == EnvProduction {
		return ProdBaseURL
	}
	return DevBaseURL
}

// RefetchOnFocus resolves the optional flag, defaulting to on.
func (c *Config) RefetchOnFocus() bool {
	if c.Refresh.RefetchOnFocus == nil {
		return true
	}
	return *c.Refresh.RefetchOnFocus
}

// FilePath returns the config file location: $BIOLENS_CONFIG_DIR or
// ~/.biolens.
func FilePath() (string, error) {
	if dir := os.Getenv(EnvVarConfigDir); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".biolens", configFileName), nil
}

// WriteDefault writes the default config file, creating the directory. It
// refuses to overwrite an existing file.
func WriteDefault() (string, error) {
	path, err := FilePath()
	if err != nil {
		return "", err
	}
	if _, statErr := os.Stat(path); statErr == nil {
		return path, fmt.Errorf("config file already exists at %s", path)
	}
	if mkErr := os.MkdirAll(filepath.Dir(path), 0o750); mkErr != nil {
		return "", fmt.Errorf("create config directory: %w", mkErr)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("marshal default config: %w", err)
	}
	if writeErr := os.WriteFile(path, data, 0o600); writeErr != nil {
		return "", fmt.Errorf("write %s: %w", path, writeErr)
	}
	return path, nil
}
