package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnv(t *testing.T) {
	withoutDotenv(t)
	t.Setenv(EnvSecretKey, "  s3cr3t ")
	t.Setenv(EnvS3Bucket, "shots")
	t.Setenv(EnvMigrate, "true")
	t.Setenv(EnvLogFormat, "")

	cfg := &Config{}
	cfg.LoadDefaults()
	applyEnv(cfg)

	assert.Equal(t, "s3cr3t", cfg.SecretKey)
	assert.Equal(t, "shots", cfg.S3.Bucket)
	assert.True(t, cfg.MigrateRemote)
	assert.Equal(t, "text", cfg.LogFormat, "empty variables are ignored")
}

func TestApplyEnv_BadBoolPanics(t *testing.T) {
	withoutDotenv(t)
	t.Setenv(EnvMigrate, "sometimes")

	cfg := &Config{}
	require.Panics(t, func() { applyEnv(cfg) })
}

func TestApplyEnv_DotenvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JOURNAL_S3_REGION=from-file\nJOURNAL_SECRET_KEY=from-file\n"), 0o600))

	old := dotenvFiles
	dotenvFiles = []string{path}
	t.Cleanup(func() { dotenvFiles = old })

	t.Setenv(EnvSecretKey, "from-env")
	// Registers cleanup for the variable godotenv is about to set.
	t.Setenv(EnvS3Region, "")
	require.NoError(t, os.Unsetenv(EnvS3Region))

	cfg := &Config{}
	applyEnv(cfg)

	assert.Equal(t, "from-env", cfg.SecretKey)
	assert.Equal(t, "from-file", cfg.S3.Region)
}
