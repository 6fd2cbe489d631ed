package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/runnerr0/snapsync/internal/merge"
)

// Default config file path.
const DefaultConfigPath = "~/.config/snapsync/config.yaml"

// Config holds all snapsync configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Audit   AuditConfig   `yaml:"audit"`
	Gate    GateConfig    `yaml:"gate"`
	History HistoryConfig `yaml:"history"`
	Domains []string      `yaml:"domains"`
}

type StorageConfig struct {
	// DataDir holds one cumulative store file per domain.
	DataDir string `yaml:"data_dir"`
	// WorkDir holds downloaded exports and merge temporaries.
	WorkDir string `yaml:"work_dir"`
}

type FetchConfig struct {
	BaseURL           string `yaml:"base_url"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	RetryCount        int    `yaml:"retry_count"`
	RetryDelaySeconds int    `yaml:"retry_delay_seconds"`
}

type AuditConfig struct {
	File string `yaml:"file"`
}

type GateConfig struct {
	MarkerFile string `yaml:"marker_file"`
}

type HistoryConfig struct {
	File string `yaml:"file"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects domain names outside the fixed enumeration before any
// pipeline work starts.
func (c *Config) validate() error {
	for _, d := range c.Domains {
		if _, err := merge.ParseDomain(d); err != nil {
			return fmt.Errorf("config domains: %w", err)
		}
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// StorePath returns the resolved store file path for a domain.
func (c *Config) StorePath(domain merge.Domain) (string, error) {
	dir, err := ExpandPath(c.Storage.DataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, domain.StoreFile()), nil
}

// WorkDir returns the resolved working directory.
func (c *Config) WorkDir() (string, error) {
	return ExpandPath(c.Storage.WorkDir)
}

// AuditPath returns the resolved audit log path.
func (c *Config) AuditPath() (string, error) {
	return ExpandPath(c.Audit.File)
}

// MarkerPath returns the resolved daily-gate marker path.
func (c *Config) MarkerPath() (string, error) {
	return ExpandPath(c.Gate.MarkerFile)
}

// HistoryPath returns the resolved run-history database path.
func (c *Config) HistoryPath() (string, error) {
	return ExpandPath(c.History.File)
}

// SyncDomains returns the configured domains parsed into the fixed
// enumeration, or all domains when none are configured.
func (c *Config) SyncDomains() ([]merge.Domain, error) {
	if len(c.Domains) == 0 {
		return merge.Domains(), nil
	}
	out := make([]merge.Domain, 0, len(c.Domains))
	for _, s := range c.Domains {
		d, err := merge.ParseDomain(s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
