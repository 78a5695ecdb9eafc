package config

import (
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	t.Run("fills empty fields", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")

		var cfg Config
		cfg.defaults()

		assert.Equal(t, "unstable", cfg.Defaults.Distribution)
		assert.Equal(t, "medium", cfg.Defaults.Urgency)
		assert.Equal(t, "declog/1.0", cfg.HTTP.UserAgent)
		assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
		assert.Equal(t, "https://metadata.ftp-master.debian.org/changelogs", cfg.HTTP.Mirror)
		assert.Equal(t, uint(runtime.NumCPU()), cfg.Workers.Lint)
		assert.Equal(t, uint(3), cfg.Workers.Download)
		assert.Empty(t, cfg.GitHub.Token)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		cfg := Config{
			Defaults: DefaultsConfig{Distribution: "experimental", Urgency: "low"},
			HTTP:     HTTPConfig{Timeout: 5 * time.Second},
			Workers:  WorkersConfig{Lint: 2, Download: 1},
		}
		cfg.defaults()

		assert.Equal(t, "experimental", cfg.Defaults.Distribution)
		assert.Equal(t, "low", cfg.Defaults.Urgency)
		assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
		assert.Equal(t, uint(2), cfg.Workers.Lint)
		assert.Equal(t, uint(1), cfg.Workers.Download)
	})

	t.Run("reads github token from environment", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "ghp_environment")

		var cfg Config
		cfg.defaults()
		assert.Equal(t, "ghp_environment", cfg.GitHub.Token)

		// Explicit config wins over the environment
		cfg = Config{GitHub: GitHubConfig{Token: "ghp_explicit"}}
		cfg.defaults()
		assert.Equal(t, "ghp_explicit", cfg.GitHub.Token)
	})
}

func TestGetCacheDir(t *testing.T) {
	t.Run("defaults to the user cache directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CACHE_HOME", tmpDir)

		var cfg Config
		assert.Equal(t, filepath.Join(tmpDir, "declog"), cfg.GetCacheDir())
	})

	t.Run("absolute path is used as-is", func(t *testing.T) {
		cfg := Config{HTTP: HTTPConfig{CacheDir: "/var/cache/declog"}}
		assert.Equal(t, "/var/cache/declog", cfg.GetCacheDir())
	})

	t.Run("relative path resolves against the config directory", func(t *testing.T) {
		cfg := Config{
			HTTP:      HTTPConfig{CacheDir: "cache"},
			ConfigDir: "/etc/declog",
		}
		assert.Equal(t, "/etc/declog/cache", cfg.GetCacheDir())
	})
}
