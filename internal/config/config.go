package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	coreerrors "warden/internal/core/errors"
	"warden/internal/logging"
)

// Config represents the main configuration structure
type Config struct {
	Whitelist WhitelistConfig `yaml:"whitelist"`
	Ops       OpsConfig       `yaml:"ops"`
	Log       LogConfig       `yaml:"log"`
}

// WhitelistConfig controls the backing file and its supervision
type WhitelistConfig struct {
	// Path is the flat text file holding one identifier per line.
	Path string `yaml:"path"`
	// Watch reloads the store when the file is edited externally.
	Watch bool `yaml:"watch"`
	// RejectLogPerSecond and RejectLogBurst throttle rejection log lines,
	// not the decisions themselves.
	RejectLogPerSecond float64 `yaml:"rejectLogPerSecond"`
	RejectLogBurst     int     `yaml:"rejectLogBurst"`
}

// OpsConfig controls the optional health/metrics listener
type OpsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LogConfig controls logging behavior
type LogConfig struct {
	Debug bool `yaml:"debug"`
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	return &Config{
		Whitelist: WhitelistConfig{
			Path:               "data/whitelist.txt",
			Watch:              true,
			RejectLogPerSecond: 1,
			RejectLogBurst:     5,
		},
		Ops: OpsConfig{
			Enabled: false,
			Addr:    ":9130",
		},
	}
}

// LoadConfig loads configuration from a YAML file, filling unset
// fields with defaults
func LoadConfig(path string, logger *logging.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.LogConfigLoad(path, err)
		return nil, coreerrors.NewConfigError("failed to read config file", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		logger.LogConfigLoad(path, err)
		return nil, coreerrors.NewConfigError("failed to parse config file", err)
	}

	if err := cfg.Validate(); err != nil {
		logger.LogConfigLoad(path, err)
		return nil, err
	}

	logger.LogConfigLoad(path, nil)
	return cfg, nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Whitelist.Path == "" {
		return coreerrors.NewConfigError("whitelist.path must not be empty", nil)
	}
	if c.Whitelist.RejectLogPerSecond < 0 {
		return coreerrors.NewConfigError(
			fmt.Sprintf("whitelist.rejectLogPerSecond must not be negative, got %v", c.Whitelist.RejectLogPerSecond), nil)
	}
	if c.Whitelist.RejectLogBurst < 0 {
		return coreerrors.NewConfigError(
			fmt.Sprintf("whitelist.rejectLogBurst must not be negative, got %d", c.Whitelist.RejectLogBurst), nil)
	}
	if c.Ops.Enabled && c.Ops.Addr == "" {
		return coreerrors.NewConfigError("ops.addr must be set when ops.enabled is true", nil)
	}
	return nil
}
