// Package config loads process configuration from MIDAI_* environment
// variables and planner settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/midai/internal/domain"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "MIDAI"

// Log output formats.
const (
	LogFormatAuto    = "auto"
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// Config holds process-level settings.
// Environment variables use the MIDAI_ prefix, e.g. MIDAI_DB, MIDAI_HTTP_ADDR.
type Config struct {
	DB           string `envconfig:"DB"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"LOG_FORMAT" default:"auto"`
	LogFile      string `envconfig:"LOG_FILE"`
	HTTPAddr     string `envconfig:"HTTP_ADDR" default:":8080"`
	SettingsFile string `envconfig:"SETTINGS_FILE"`
	// UserID is the identity used by CLI commands; the HTTP server reads it
	// from each request instead.
	UserID string `envconfig:"USER_ID" default:"local"`
}

// Load parses the environment and resolves derived defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolveDefaults fills the database path under the home directory and
// checks the log format.
func (c *Config) ResolveDefaults() error {
	if c.DB == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		c.DB = filepath.Join(home, ".midai", "midai.db")
	}
	switch c.LogFormat {
	case LogFormatAuto, LogFormatJSON, LogFormatConsole:
	case "":
		c.LogFormat = LogFormatAuto
	default:
		return fmt.Errorf("unsupported LOG_FORMAT: %s", c.LogFormat)
	}
	return nil
}

// LoadSettings reads planner settings from path. An empty path yields the
// defaults.
func LoadSettings(path string) (domain.Settings, error) {
	if path == "" {
		return domain.DefaultSettings(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("reading settings %s: %w", path, err)
	}
	return SettingsFromYAML(data)
}

// SettingsFromYAML decodes data over the default settings, so a document only
// needs the keys it changes, then validates the result.
func SettingsFromYAML(data []byte) (domain.Settings, error) {
	s := domain.DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return domain.Settings{}, fmt.Errorf("invalid settings yaml: %w", err)
	}
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return domain.Settings{}, err
	}
	return s, nil
}

// DefaultSettingsYAML renders the default settings as a starter file.
func DefaultSettingsYAML() ([]byte, error) {
	return yaml.Marshal(domain.DefaultSettings())
}
