// File: internal/config/config.go
// Package config loads the server's YAML configuration file using
// gopkg.in/yaml.v3, the same marshal/unmarshal library docker-compose uses
// for its own compose-file and CLI config handling.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level shape of the server's YAML configuration file.
type Config struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	MaxBodySize       int64         `yaml:"max_body_size"`
	LogLevel          string        `yaml:"log_level"`
	Debug             bool          `yaml:"debug"`
}

// Default returns a Config with the engine's documented defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxBodySize:       1 << 20,
		LogLevel:          "info",
	}
}

// Load reads and parses the YAML file at path over top of Default(), so a
// config file only needs to specify the fields it overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
