package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "claude-code", cfg.Provider)
	assert.Equal(t, "auto", cfg.Color)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.Telemetry)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "provider: codex\ncolor: never\ntelemetry: false\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "codex", cfg.Provider)
	assert.Equal(t, "never", cfg.Color)
	assert.False(t, cfg.Telemetry)
	// Untouched keys keep their defaults.
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("color: never\n"), 0o600))
	t.Setenv("CCHV_COLOR", "always")
	t.Setenv("CCHV_CLAUDE_DIR", "/custom/.claude")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "always", cfg.Color)
	assert.Equal(t, "/custom/.claude", cfg.ClaudeDir)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - not yaml"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
