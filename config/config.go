// Package config handles loading, saving and reloading the doist
// configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/kastheco/doist/log"
	"github.com/kastheco/doist/projects"
)

const (
	// ConfigFileName is the name of the config file inside the config dir.
	ConfigFileName = "config.toml"

	defaultBaseURL = "https://api.todoist.com"
)

// Config represents the doist configuration. The zero value is not usable;
// construct through DefaultConfig, Load or LoadConfig.
type Config struct {
	// Token is the Todoist API bearer token.
	Token string `toml:"token"`
	// Timezone is an IANA timezone name used when deciding whether a task
	// is scheduled for a future date. Empty means the system local zone.
	Timezone string `toml:"timezone,omitempty"`
	// BaseURL overrides the Todoist API origin. Used by tests; empty means
	// the production API.
	BaseURL string `toml:"base_url,omitempty"`
	// TelemetryEnabled controls crash reporting via Sentry. Defaults to
	// true when not set.
	TelemetryEnabled *bool `toml:"telemetry_enabled,omitempty"`
	// Verbose mirrors log output to stderr.
	Verbose bool `toml:"verbose,omitempty"`
	// Projects is the locally cached project list, maintained by
	// `doist sync` and used to resolve the --project flag.
	Projects []projects.Project `toml:"projects,omitempty"`

	// path is where this config was loaded from, so Reload can re-read it.
	path string
}

// GetConfigDir returns the path to the application's configuration
// directory (XDG-style ~/.config/doist).
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "doist"), nil
}

// DefaultConfig returns the default configuration, not yet bound to a file.
func DefaultConfig() *Config {
	trueVal := true
	return &Config{
		TelemetryEnabled: &trueVal,
	}
}

// Load reads a config file from the given path. A missing file yields the
// default config bound to that path, so a subsequent Save creates it.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadConfig loads the config from the default location, falling back to
// defaults on any error (which is logged, not returned).
func LoadConfig() *Config {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultConfig()
	}
	cfg, err := Load(filepath.Join(configDir, ConfigFileName))
	if err != nil {
		log.ErrorLog.Printf("failed to load config: %v", err)
		return DefaultConfig()
	}
	return cfg
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	if c.path == "" {
		return fmt.Errorf("config has no backing file")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Reload re-reads the config from disk. Batch operations call this before
// every walked task so that state saved mid-run (for example a project list
// refreshed by a just-created task) is visible to the next iteration. When
// the config has no backing file the receiver itself is returned.
func (c *Config) Reload() (*Config, error) {
	if c.path == "" {
		return c, nil
	}
	fresh, err := Load(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload config: %w", err)
	}
	return fresh, nil
}

// Path returns the config file location, or empty for an unbound config.
func (c *Config) Path() string {
	return c.path
}

// IsTelemetryEnabled returns whether Sentry telemetry is enabled. Defaults
// to true when the field is not set.
func (c *Config) IsTelemetryEnabled() bool {
	if c.TelemetryEnabled == nil {
		return true
	}
	return *c.TelemetryEnabled
}

// APIBase returns the API origin, honoring the test override.
func (c *Config) APIBase() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return defaultBaseURL
}

// ProjectByName resolves a project from the cached project list.
func (c *Config) ProjectByName(name string) (projects.Project, error) {
	for _, p := range c.Projects {
		if p.Name == name {
			return p, nil
		}
	}
	return projects.Project{}, fmt.Errorf(
		"project %q not found in config; run `doist sync` to refresh the project list", name)
}
