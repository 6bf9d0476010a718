// Package config loads and validates the curator YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/curatorlabs/curator/internal/api"
	"github.com/curatorlabs/curator/internal/naming"
)

// Config is the main configuration structure
type Config struct {
	APIURL    string `yaml:"api_url"`
	APIToken  string `yaml:"api_token"`
	Connector string `yaml:"connector"`

	// DBPath locates the inventory cache. Empty means DefaultDBPath.
	DBPath string `yaml:"db_path,omitempty"`

	// NameTemplate overrides the default collection-name suggestion
	// template.
	NameTemplate string `yaml:"name_template,omitempty"`

	// DefaultState is the state new collections start in: live, archived
	// or closed. Empty means live.
	DefaultState string `yaml:"default_state,omitempty"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "curator", "config.yaml"), nil
}

// DefaultDBPath returns the default inventory cache location.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "curator", "inventory.db"), nil
}

// Load reads and parses the configuration file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from user config, intentional
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath, err = DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// Save writes the configuration to the given path, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration is usable, collecting every
// problem rather than stopping at the first.
func (c *Config) Validate() error {
	var errs []error

	if c.APIURL == "" {
		errs = append(errs, ErrMissingAPIURL)
	}
	if c.APIToken == "" {
		errs = append(errs, ErrMissingAPIToken)
	}
	if c.Connector == "" {
		errs = append(errs, ErrMissingConnector)
	}
	if c.DefaultState != "" {
		if _, err := api.ParseState(c.DefaultState); err != nil {
			errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidState, err))
		}
	}
	if c.NameTemplate != "" {
		if _, err := naming.NewSuggester(c.NameTemplate); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ResolveState returns the configured default collection state.
func (c *Config) ResolveState() api.CollectionState {
	if c.DefaultState == "" {
		return api.StateLive
	}
	state, err := api.ParseState(c.DefaultState)
	if err != nil {
		return api.StateLive
	}
	return state
}
