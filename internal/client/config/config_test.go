package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"journal"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func withoutDotenv(t *testing.T) {
	t.Helper()
	old := dotenvFiles
	dotenvFiles = nil
	t.Cleanup(func() { dotenvFiles = old })
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, 10*time.Second, c.CallTimeout)
	assert.Equal(t, 5*time.Second, c.PartialExitTimeout)
	assert.Equal(t, 3, c.RetryAttempts)
	assert.Equal(t, time.Second, c.RetryBaseDelay)
	assert.Equal(t, 15*time.Minute, c.AccessTokenTTL)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Empty(t, c.StatusAddr)
	assert.Equal(t, filepath.Join(c.DataDir, "prefs.db"), c.LocalDBPath())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	withArgs(t)
	withoutDotenv(t)

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, 10*time.Second, cfg.CallTimeout)
	assert.Equal(t, 3, cfg.RetryAttempts)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTemp(t, "cfg.json", `{"database_dsn":"postgres://file","log_level":"info","status_addr":"127.0.0.1:1"}`)
	withArgs(t, "-c", path, "-s", "127.0.0.1:2")
	withoutDotenv(t)
	t.Setenv(EnvDatabaseDSN, "postgres://env")
	t.Setenv(EnvLogLevel, "")

	cfg := LoadConfig()

	assert.Equal(t, "postgres://env", cfg.DatabaseDSN)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:2", cfg.StatusAddr)
}
