// Package config loads server configuration from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jusunglee/mta-bustime/pkg/mta"
)

// Config is the server configuration
type Config struct {
	Port      string     `yaml:"port" validate:"required,numeric"`
	APIKey    string     `yaml:"api_key"`
	LogFormat string     `yaml:"log_format" validate:"oneof=console json"`
	Debug     bool       `yaml:"debug"`
	BusTime   mta.Config `yaml:"bustime"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Port:      "8080",
		LogFormat: "console",
		BusTime:   mta.DefaultConfig(),
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration. A missing API key is allowed; lookups
// report it per request.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
