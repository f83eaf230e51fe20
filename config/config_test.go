package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/web3tea/logrelay/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewFromFileTOML(t *testing.T) {
	path := writeFile(t, "logrelay.toml", `
log_level = "debug"

[settings]
driver = "file"
path = "/var/lib/logrelay/settings.toml"

[relay]
name = "relay"
level = "warning"
destination = "console"

[relay.metadata]
region = "us"
`)

	cfg, err := config.NewFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "logrelay", cfg.AppName, "defaults fill unset fields")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "file", cfg.Settings.Driver)
	assert.Equal(t, "warning", cfg.Relay.Level)
	assert.Equal(t, "console", cfg.Relay.Destination)
	assert.Equal(t, map[string]string{"region": "us"}, cfg.Relay.Metadata)
}

func TestNewFromFileJSON(t *testing.T) {
	path := writeFile(t, "logrelay.json", `{
  "relay": {"name": "relay", "level": "error", "destination": "console"}
}`)

	cfg, err := config.NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Relay.Level)
	assert.Equal(t, "info", cfg.LogLevel, "default log level survives")
}

func TestNewFromFileUnsupported(t *testing.T) {
	path := writeFile(t, "logrelay.yaml", "relay: {}")

	_, err := config.NewFromFile(path)
	assert.ErrorContains(t, err, "unsupported config file format")
}

func TestNewFromFileMissing(t *testing.T) {
	_, err := config.NewFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
