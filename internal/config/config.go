package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Identity  IdentityConfig `yaml:"identity,omitempty"`
	Defaults  DefaultsConfig `yaml:"defaults,omitempty"`
	Parse     ParseConfig    `yaml:"parse,omitempty"`
	HTTP      HTTPConfig     `yaml:"http,omitempty"`
	Workers   WorkersConfig  `yaml:"workers"`
	GitHub    GitHubConfig   `yaml:"github,omitempty"`
	Render    RenderConfig   `yaml:"render,omitempty"`
	ConfigDir string         `yaml:"-"` // Directory containing config.yaml (set during Load)
}

// IdentityConfig names the author written into new changelog entries.
// Empty fields fall back to the environment and the global git config.
type IdentityConfig struct {
	Name  string `yaml:"name,omitempty"`
	Email string `yaml:"email,omitempty"`
}

// DefaultsConfig contains field values for newly created entries
type DefaultsConfig struct {
	Distribution string `yaml:"distribution,omitempty"`
	Urgency      string `yaml:"urgency,omitempty"`
}

// ParseConfig contains changelog parser options
type ParseConfig struct {
	AllowEmptyAuthor bool `yaml:"allow_empty_author,omitempty"` // Accept trailer lines with no author
	MaxBlocks        int  `yaml:"max_blocks,omitempty"`         // Stop after this many entries, 0 = unlimited
}

// HTTPConfig contains HTTP client configuration
type HTTPConfig struct {
	UserAgent string        `yaml:"user_agent,omitempty"` // Custom User-Agent header
	Timeout   time.Duration `yaml:"timeout,omitempty"`    // Request timeout
	CacheDir  string        `yaml:"cache_dir,omitempty"`  // Download cache, relative to config dir if not absolute
	Mirror    string        `yaml:"mirror,omitempty"`     // Changelog mirror base URL
}

// WorkersConfig defines worker pool sizes
type WorkersConfig struct {
	Lint     uint `yaml:"lint"`
	Download uint `yaml:"download"`
}

// GitHubConfig contains GitHub API configuration
type GitHubConfig struct {
	Token string `yaml:"token,omitempty"` // GitHub personal access token
}

// RenderConfig contains HTML rendering configuration
type RenderConfig struct {
	Title string `yaml:"title,omitempty"` // Page title override, default is the package name
}

// GetCacheDir returns the absolute path to the download cache directory
func (c *Config) GetCacheDir() string {
	dir := c.HTTP.CacheDir
	switch {
	case dir == "":
		if base, err := os.UserCacheDir(); err == nil {
			return filepath.Join(base, "declog")
		}
		return filepath.Join(os.TempDir(), "declog")
	case filepath.IsAbs(dir):
		return dir
	default:
		return filepath.Join(c.ConfigDir, dir)
	}
}

// defaults applies default values to the configuration
func (c *Config) defaults() {
	// Load environment variables
	if c.GitHub.Token == "" {
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			c.GitHub.Token = token
		}
	}

	// New entry defaults
	if c.Defaults.Distribution == "" {
		c.Defaults.Distribution = "unstable"
	}
	if c.Defaults.Urgency == "" {
		c.Defaults.Urgency = "medium"
	}

	// HTTP defaults
	if c.HTTP.UserAgent == "" {
		c.HTTP.UserAgent = "declog/1.0"
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = 30 * time.Second
	}
	if c.HTTP.Mirror == "" {
		c.HTTP.Mirror = "https://metadata.ftp-master.debian.org/changelogs"
	}

	// Worker pool defaults
	if c.Workers.Lint == 0 {
		c.Workers.Lint = uint(runtime.NumCPU())
	}
	if c.Workers.Download == 0 {
		c.Workers.Download = 3
	}
}
