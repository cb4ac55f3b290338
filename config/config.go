package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	Backend struct {
		BaseURL        string `yaml:"base_url"`
		AskPath        string `yaml:"ask_path"`
		UploadPath     string `yaml:"upload_path"`
		ResetPath      string `yaml:"reset_path"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"backend"`
	Upload struct {
		MaxFileSizeMB int `yaml:"max_file_size_mb"`
	} `yaml:"upload"`
	Paths struct {
		StateDir string `yaml:"state_dir"`
	} `yaml:"paths"`
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".chatapp", "config.yaml")
}

// Load loads configuration from path, or returns defaults if the file
// does not exist. An empty path means DefaultPath().
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to path, creating parent directories as needed.
// An empty path means DefaultPath().
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}

	cfg.Backend.BaseURL = "http://localhost:8000"
	cfg.Backend.AskPath = "/ask"
	cfg.Backend.UploadPath = "/upload"
	cfg.Backend.ResetPath = "/reset"
	cfg.Backend.TimeoutSeconds = 120
	cfg.Upload.MaxFileSizeMB = 50

	cfg.Paths.StateDir = filepath.Join(os.Getenv("HOME"), ".chatapp")

	return cfg
}
