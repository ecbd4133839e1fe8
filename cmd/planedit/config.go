package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds persistent editor settings.
type Config struct {
	LastDir     string  `yaml:"last_dir"`
	ZoomStep    float64 `yaml:"zoom_step"`    // wheel zoom factor per notch
	ShowLengths bool    `yaml:"show_lengths"` // annotate walls with lengths
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	return Config{
		LastDir:     cwd,
		ZoomStep:    1.1,
		ShowLengths: true,
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "planedit.yaml"
	}
	return filepath.Join(home, ".config", "planedit", "config.yaml")
}

// LoadConfig loads configuration, falling back to defaults on any error.
func LoadConfig() Config {
	cfg := DefaultConfig()
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig()
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.ZoomStep <= 1 {
		c.ZoomStep = 1.1
	}
	if c.LastDir == "" {
		c.LastDir, _ = os.Getwd()
	}
}

// SaveConfig writes configuration to the config path.
func SaveConfig(cfg Config) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
