package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the pcifetch configuration
type Config struct {
	// LogLevel: debug, info, warn, error
	LogLevel string `yaml:"log_level"`
	// Backend: auto (default), sysfs, procfs
	Backend string `yaml:"backend"`
	// PCIIDsPaths are extra pci.ids locations probed before the
	// well-known ones
	PCIIDsPaths []string `yaml:"pci_ids_paths"`
	// GPULimit caps how many GPUs the fetch output lists
	GPULimit int `yaml:"gpu_limit"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "warn",
		Backend:  "auto",
		GPULimit: 2,
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks field values that have a closed set of options.
func (c *Config) Validate() error {
	switch c.Backend {
	case "", "auto", "sysfs", "procfs":
	default:
		return fmt.Errorf("invalid backend: %s", c.Backend)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	if c.GPULimit < 0 {
		return fmt.Errorf("gpu_limit must not be negative: %d", c.GPULimit)
	}
	return nil
}
