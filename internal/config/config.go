// Package config loads server configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Listen        string   `yaml:"listen"`
	DatabasePath  string   `yaml:"database_path"`
	AttachmentDir string   `yaml:"attachment_dir"`
	JWTSecret     string   `yaml:"jwt_secret"`
	TokenTTL      Duration `yaml:"token_ttl"`
	CORSOrigins   []string `yaml:"cors_origins"`
	LogFile       string   `yaml:"log_file"`
}

// Duration wraps time.Duration for YAML values like "24h".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:        ":8080",
		DatabasePath:  "kanband.db",
		AttachmentDir: "attachments",
		TokenTTL:      Duration(7 * 24 * time.Hour),
		CORSOrigins:   []string{"*"},
	}
}

// Load reads config from path. A missing file yields defaults; a
// malformed file is an error. Environment variables override file
// values afterwards.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(config)

	if config.JWTSecret == "" {
		return nil, fmt.Errorf("jwt_secret must be set (config file or KANBAND_JWT_SECRET)")
	}
	return config, nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("KANBAND_LISTEN"); v != "" {
		config.Listen = v
	}
	if v := os.Getenv("KANBAND_DATABASE_PATH"); v != "" {
		config.DatabasePath = v
	}
	if v := os.Getenv("KANBAND_ATTACHMENT_DIR"); v != "" {
		config.AttachmentDir = v
	}
	if v := os.Getenv("KANBAND_JWT_SECRET"); v != "" {
		config.JWTSecret = v
	}
	if v := os.Getenv("KANBAND_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			config.TokenTTL = Duration(parsed)
		}
	}
	if v := os.Getenv("KANBAND_CORS_ORIGINS"); v != "" {
		config.CORSOrigins = strings.Split(v, ",")
	}
	if v := os.Getenv("KANBAND_LOG_FILE"); v != "" {
		config.LogFile = v
	}
}
