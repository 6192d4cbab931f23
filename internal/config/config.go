package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"sigs.k8s.io/yaml"
)

// DefaultPath is where the config file is looked up when no path is given.
const DefaultPath = "config/config.yaml"

// Config holds the settings needed to talk to an ActiveCampaign account.
// Keys match both the YAML file and the environment variables that override it.
type Config struct {
	BaseURL      string `json:"AC_BASE_URL" env:"AC_BASE_URL"`
	APIKey       string `json:"AC_API_KEY" env:"AC_API_KEY"`
	OutputFormat string `json:"OUTPUT_FORMAT" env:"OUTPUT_FORMAT"`
}

// Load reads the YAML file at path, then applies variables from an optional
// .env file and the process environment. Values from the environment win.
// A missing file is not an error; every setting may come from the environment.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg := &Config{OutputFormat: "json"}

	if err := cfg.readFile(path); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := cfg.applyEnv(ctx, envconfig.OsLookuper()); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides every field whose variable is set and non-empty.
func (c *Config) applyEnv(ctx context.Context, lookuper envconfig.Lookuper) error {
	var env Config
	if err := envconfig.ProcessWith(ctx, &env, lookuper); err != nil {
		return fmt.Errorf("failed to parse env vars: %w", err)
	}

	if env.BaseURL != "" {
		c.BaseURL = env.BaseURL
	}
	if env.APIKey != "" {
		c.APIKey = env.APIKey
	}
	if env.OutputFormat != "" {
		c.OutputFormat = env.OutputFormat
	}
	return nil
}

// Validate reports every missing required setting.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("AC_BASE_URL is required but not set"))
	}
	if c.APIKey == "" {
		errs = append(errs, errors.New("AC_API_KEY is required but not set"))
	}
	return errors.Join(errs...)
}
