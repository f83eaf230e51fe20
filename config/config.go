package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	AppName  string `json:"app_name" yaml:"app_name" toml:"app_name"`
	Version  string `json:"version" yaml:"version" toml:"version"`
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`

	Settings SettingsConfig `json:"settings" yaml:"settings" toml:"settings"`
	Relay    RelayConfig    `json:"relay" yaml:"relay" toml:"relay"`
}

// SettingsConfig selects the settings store backing the relay.
type SettingsConfig struct {
	// Driver is one of "memory", "file", "postgres"
	Driver string `json:"driver" yaml:"driver" toml:"driver"`
	// Path is the TOML settings file for the file driver
	Path string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	// DSN is the connection string for the postgres driver
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty" toml:"dsn,omitempty"`
}

// RelayConfig is the initial option set for the sink instance.
type RelayConfig struct {
	Name        string            `json:"name" yaml:"name" toml:"name"`
	Level       string            `json:"level" yaml:"level" toml:"level"`
	Destination string            `json:"destination" yaml:"destination" toml:"destination"`
	Node        string            `json:"node,omitempty" yaml:"node,omitempty" toml:"node,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty" toml:"metadata,omitempty"`
	Formatter   string            `json:"formatter,omitempty" yaml:"formatter,omitempty" toml:"formatter,omitempty"`
}

func NewFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig

	switch {
	case strings.HasSuffix(path, ".json"):
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case strings.HasSuffix(path, ".toml"):
		if _, err := toml.Decode(string(data), &config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", path)
	}

	return &config, nil
}

var DefaultConfig = Config{
	AppName:  "logrelay",
	Version:  "0.1.0",
	LogLevel: "info",
	Settings: SettingsConfig{
		Driver: "memory",
	},
	Relay: RelayConfig{
		Name:        "default",
		Level:       "info",
		Destination: "console",
	},
}
