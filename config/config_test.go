package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)

	assert.Equal(t, "auto", cfg.Holidays.Source)
	assert.Equal(t, "https://date.nager.at", cfg.Holidays.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Holidays.Timeout)

	assert.Equal(t, "https://api.wikimedia.org", cfg.Events.BaseURL)
	assert.Equal(t, "en", cfg.Events.Language)
	assert.Empty(t, cfg.Events.UserAgent)

	assert.Equal(t, "calendar-agent", cfg.Agent.Name)
	assert.Equal(t, "USD", cfg.Agent.Currency)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 5s
holidays:
  source: builtin
events:
  language: de
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	// Untouched keys keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)

	assert.Equal(t, "builtin", cfg.Holidays.Source)
	assert.Equal(t, "de", cfg.Events.Language)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("CALENDAR_AGENT_HOLIDAYS_SOURCE", "nager")
	t.Setenv("CALENDAR_AGENT_SERVER_PORT", "3000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "nager", cfg.Holidays.Source)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadRejectsBadSource(t *testing.T) {
	path := writeConfigFile(t, `
holidays:
  source: oracle
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holidays.source")
}

func TestLoadRejectsBadPort(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 99999
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	path := writeConfigFile(t, `
log:
  level: shouting
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}
