package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration for the CLI tools. Credentials
// can come from the YAML file or from environment variables; env wins.
type Config struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`

	// Base URL overrides, mainly for test doubles and mirrors.
	APIBaseURL   string `yaml:"api_base_url"`
	RatesBaseURL string `yaml:"rates_base_url"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

var configPath = "config.yaml"

// SetConfigPath overrides the default config.yaml location.
func SetConfigPath(path string) {
	if path != "" {
		configPath = path
	}
}

// Load reads the YAML config (if present) and applies env overrides.
// A missing config file is not an error; env-only setups are fine.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel: "info",
	}

	if raw, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", configPath, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays FF_* environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("FF_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("FF_API_SECRET"); v != "" {
		cfg.APISecret = v
	}
	if v := os.Getenv("FF_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("FF_RATES_URL"); v != "" {
		cfg.RatesBaseURL = v
	}
	if v := os.Getenv("FF_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Validate checks that credentials are present for authenticated use.
func (c *Config) Validate() error {
	if c.APIKey == "" || c.APISecret == "" {
		return fmt.Errorf("api_key and api_secret are required (or FF_API_KEY / FF_API_SECRET)")
	}
	return nil
}
