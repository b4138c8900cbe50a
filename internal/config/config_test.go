package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SENTIMENT_API_BASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("SENTIMENT_WEB_PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SENTIMENT_WEB_DB_TYPE", "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.API.UploadTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "./data/sentiment-web.db", cfg.Database.Path)
	assert.Equal(t, 15*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, 30*time.Minute, cfg.Batch.IdleTTL)
	assert.Equal(t, time.Minute, cfg.Batch.SweepInterval)
	assert.Equal(t, 365*24*time.Hour, cfg.Session.TTL)
}

func TestLoadConfig_YAML(t *testing.T) {
	t.Setenv("SENTIMENT_API_BASE_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("SENTIMENT_WEB_PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SENTIMENT_WEB_DB_TYPE", "")
	t.Setenv("SENTIMENT_WEB_SESSION_SECRET", "")
	t.Setenv("TEST_SECRET", "from-env")

	path := writeFile(t, "config.yml", `
server:
  port: "9000"
api:
  base_url: http://localhost:8000
  timeout: 5s
  upload_timeout: 90s
database:
  type: memory
session:
  secret: ${TEST_SECRET}
  ttl: 24h
monitor:
  interval: 1m
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 90*time.Second, cfg.API.UploadTimeout)
	assert.Equal(t, "memory", cfg.Database.Type)
	assert.Equal(t, "from-env", cfg.Session.Secret)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, time.Minute, cfg.Monitor.Interval)
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "config.yml", ""))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Server.Port)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("SENTIMENT_WEB_DB_TYPE", "")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig(writeFile(t, "config.yml", "database:\n  type: redis\n"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "config.yml", "api: [not, a, map]\n"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("base url", func(t *testing.T) {
		t.Setenv("SENTIMENT_API_BASE_URL", "http://api:8000")
		cfg := &Config{}
		cfg.API.BaseURL = "http://yaml"
		cfg.applyEnvOverrides()
		assert.Equal(t, "http://api:8000", cfg.API.BaseURL)
	})

	t.Run("SENTIMENT_WEB_PORT wins over PORT", func(t *testing.T) {
		t.Setenv("PORT", "1111")
		t.Setenv("SENTIMENT_WEB_PORT", "2222")
		cfg := &Config{}
		cfg.applyEnvOverrides()
		assert.Equal(t, "2222", cfg.Server.Port)
	})

	t.Run("DATABASE_URL selects postgres", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://user:pass@db/sentiment?sslmode=disable")
		t.Setenv("SENTIMENT_WEB_DB_TYPE", "")
		cfg := &Config{}
		cfg.applyEnvOverrides()
		assert.Equal(t, "postgres", cfg.Database.Type)
		assert.Equal(t, "postgres://user:pass@db/sentiment?sslmode=disable", cfg.Database.Path)
	})

	t.Run("session secret and secure cookies", func(t *testing.T) {
		t.Setenv("SENTIMENT_WEB_SESSION_SECRET", "s3cret")
		t.Setenv("SENTIMENT_WEB_SECURE_COOKIES", "true")
		cfg := &Config{}
		cfg.applyEnvOverrides()
		assert.Equal(t, "s3cret", cfg.Session.Secret)
		assert.True(t, cfg.Session.Secure)
	})
}

func TestLoadEnv(t *testing.T) {
	found, err := LoadEnv(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)
	assert.False(t, found)

	t.Setenv("SENTIMENT_WEB_TEST_VALUE", "")
	os.Unsetenv("SENTIMENT_WEB_TEST_VALUE")
	found, err = LoadEnv(writeFile(t, ".env", "SENTIMENT_WEB_TEST_VALUE=loaded\n"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "loaded", os.Getenv("SENTIMENT_WEB_TEST_VALUE"))
}
