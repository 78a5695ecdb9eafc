package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the configuration from the specified path or searches default
// locations. A missing file is only an error when an explicit path was
// given; otherwise the defaults apply.
func Load(configPath string) (*Config, error) {
	var cfg Config

	cfgFile, err := findConfigFile(configPath)
	switch {
	case err == nil:
		data, err := os.ReadFile(cfgFile)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}

		// Store config directory for relative path resolution
		cfg.ConfigDir = filepath.Dir(cfgFile)
	case configPath != "" || !errors.Is(err, os.ErrNotExist):
		return nil, err
	}

	// Apply defaults (includes environment variables)
	cfg.defaults()

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// findConfigFile searches for the configuration file in standard locations
func findConfigFile(explicitPath string) (string, error) {
	// If explicit path provided, use it
	if explicitPath != "" {
		if !fileExists(explicitPath) {
			return "", os.ErrNotExist
		}
		return explicitPath, nil
	}

	// Try standard locations by priority
	candidates := []string{}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "declog", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "declog", "config.yaml"))
	}
	candidates = append(candidates, "/etc/declog/config.yaml")

	// Find first existing file
	for _, file := range candidates {
		if fileExists(file) {
			return file, nil
		}
	}

	return "", os.ErrNotExist
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
