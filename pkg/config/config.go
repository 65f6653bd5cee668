// Package config loads and saves the YAML configuration that drives
// both the hcidx benchmark command and the HTTP demo server.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is hcidx's full configuration: index parameters, workload
// selection, and server bind settings.
type Config struct {
	Index    Index    `yaml:"index"`
	Workload Workload `yaml:"workload"`
	Server   Server   `yaml:"server"`
}

// Index mirrors tiered.Params plus the tree shape and key-space size
// that tiered.New also needs.
type Index struct {
	MaxKey         int64   `yaml:"max_key"`
	Degree         int     `yaml:"degree"`
	DecayAlpha     float64 `yaml:"decay_alpha"`
	HotThreshold   float64 `yaml:"hot_threshold"`
	MaxHotFraction float64 `yaml:"max_hot_fraction"`
	Inclusive      bool    `yaml:"inclusive"`
}

// Workload selects how benchmark queries are generated.
type Workload struct {
	Kind     string  `yaml:"kind"` // "uniform" or "zipf"
	NKeys    int64   `yaml:"nkeys"`
	NQueries int64   `yaml:"nqueries"`
	Theta    float64 `yaml:"theta"`
	Seed     uint64  `yaml:"seed"`
}

// Server configures the HTTP demo API.
type Server struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

// Default returns hcidx's default configuration, matching the
// reference driver's defaults (nkeys=100000, nqueries=500000,
// workload=zipf, theta=1.1, hot_thresh=8.0, decay=0.9, hot_frac=0.05,
// seed=42, btree degree=32).
func Default() *Config {
	return &Config{
		Index: Index{
			MaxKey:         99999,
			Degree:         32,
			DecayAlpha:     0.9,
			HotThreshold:   8.0,
			MaxHotFraction: 0.05,
			Inclusive:      true,
		},
		Workload: Workload{
			Kind:     "zipf",
			NKeys:    100000,
			NQueries: 500000,
			Theta:    1.1,
			Seed:     42,
		},
		Server: Server{
			Bind: "127.0.0.1",
			Port: 8080,
		},
	}
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating parent directories as
// needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultPath returns the default config file location under the
// user's config directory.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./hcidx.yaml"
	}
	return filepath.Join(homeDir, ".config", "hcidx", "config.yaml")
}

// Exists reports whether a config file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
