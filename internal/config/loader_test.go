package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindConfigFile(t *testing.T) {
	t.Run("uses explicit path when provided", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgPath := filepath.Join(tmpDir, "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("identity: {}\n"), 0644))

		result, err := findConfigFile(cfgPath)
		require.NoError(t, err)
		assert.Equal(t, cfgPath, result)
	})

	t.Run("returns error for non-existent explicit path", func(t *testing.T) {
		_, err := findConfigFile("/nonexistent/config.yaml")
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("prefers XDG_CONFIG_HOME", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)

		cfgDir := filepath.Join(tmpDir, "declog")
		require.NoError(t, os.Mkdir(cfgDir, 0755))
		cfgPath := filepath.Join(cfgDir, "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("identity: {}\n"), 0644))

		result, err := findConfigFile("")
		require.NoError(t, err)
		assert.Equal(t, cfgPath, result)
	})
}

func TestFileExists(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{
			name: "file exists",
			path: func() string {
				tmpDir := t.TempDir()
				path := filepath.Join(tmpDir, "test.txt")
				require.NoError(t, os.WriteFile(path, []byte("test"), 0644))
				return path
			}(),
			want: true,
		},
		{
			name: "file does not exist",
			path: "/nonexistent/file.txt",
			want: false,
		},
		{
			name: "directory exists but is not a file",
			path: func() string {
				return t.TempDir()
			}(),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fileExists(tt.path))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads valid config", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgPath := filepath.Join(tmpDir, "config.yaml")

		cfgContent := `identity:
  name: Ada Lindqvist
  email: ada@example.org
defaults:
  distribution: experimental
http:
  timeout: 5s
  mirror: https://changelogs.example.org
`
		require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0644))

		cfg, err := Load(cfgPath)
		require.NoError(t, err)
		require.NotNil(t, cfg)

		assert.Equal(t, tmpDir, cfg.ConfigDir)
		assert.Equal(t, "Ada Lindqvist", cfg.Identity.Name)
		assert.Equal(t, "experimental", cfg.Defaults.Distribution)
		assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
		assert.Equal(t, "https://changelogs.example.org", cfg.HTTP.Mirror)
	})

	t.Run("applies defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgPath := filepath.Join(tmpDir, "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("identity:\n  name: Ada\n"), 0644))

		cfg, err := Load(cfgPath)
		require.NoError(t, err)

		assert.Equal(t, "unstable", cfg.Defaults.Distribution)
		assert.Equal(t, "medium", cfg.Defaults.Urgency)
		assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
		t.Setenv("HOME", filepath.Join(tmpDir, "home"))

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "unstable", cfg.Defaults.Distribution)
		assert.Empty(t, cfg.ConfigDir)
	})

	t.Run("returns error for non-existent explicit path", func(t *testing.T) {
		_, err := Load("/nonexistent/config.yaml")
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("returns error for invalid yaml", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgPath := filepath.Join(tmpDir, "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("invalid: [yaml"), 0644))

		_, err := Load(cfgPath)
		require.Error(t, err)
	})

	t.Run("validates loaded config", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgPath := filepath.Join(tmpDir, "config.yaml")

		cfgContent := `defaults:
  urgency: whenever
`
		require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0644))

		_, err := Load(cfgPath)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUrgencyUnknown)
	})
}
