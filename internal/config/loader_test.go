package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  mode: release
dataset:
  source: yaml
  dirs:
    - testdata/sets
explorer:
  default_method: or
log:
  level: warn
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, []string{"testdata/sets"}, cfg.Dataset.Dirs)
	assert.Equal(t, "or", cfg.Explorer.DefaultMethod)
	assert.Equal(t, "warn", cfg.Log.Level)

	// Unset fields fall back to defaults.
	assert.Equal(t, DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: -1
`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "server.port")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RXNDB_SERVER_PORT", "7070")
	t.Setenv("RXNDB_EXPLORER_DEFAULT_METHOD", "or")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "or", cfg.Explorer.DefaultMethod)
}

func TestLoadFromEnv_DefaultsOnly(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}
