// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultAPIBaseURL     = "https://slack.com/api"
	DefaultEdgeBaseURL    = "https://edgeapi.slack.com"
	DefaultTimeoutSeconds = 30
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log  LogConfig  `toml:"log"`
	API  APIConfig  `toml:"api"`
	Auth AuthConfig `toml:"auth"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// APIConfig holds the API base URLs and request timeout.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	EdgeBaseURL    string `toml:"edge_base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// AuthConfig holds the credential file location.
type AuthConfig struct {
	File string `toml:"file"`
}

// DefaultConfigPath returns the config file location under the user config dir
// (e.g. ~/.config/slacker/config.toml).
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "slacker", "config.toml")
}

// DefaultAuthFile returns the credential file location under the user config dir.
func DefaultAuthFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "auth.json"
	}
	return filepath.Join(dir, "slacker", "auth.json")
}

// Load reads and parses the TOML config file at path and applies default values
// for missing fields. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		API: APIConfig{
			BaseURL:        DefaultAPIBaseURL,
			EdgeBaseURL:    DefaultEdgeBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Auth: AuthConfig{
			File: DefaultAuthFile(),
		},
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
