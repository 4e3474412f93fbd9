package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrConfigFileNotFound)

	cfg := GetConfig()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10<<20, cfg.Server.MaxUploadBytes())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORS.AllowedOrigins)
	assert.Equal(t, "openai", cfg.Analysis.Provider)
	assert.Equal(t, "gpt-4o", cfg.Analysis.Model)
	assert.Equal(t, 500, cfg.Analysis.MaxTokens)
	assert.Equal(t, 60*time.Second, cfg.Analysis.Timeout)
	assert.Equal(t, "http://localhost:8081/analyze", cfg.Video.BackendURL)
	assert.Equal(t, 512<<20, cfg.Video.MaxUploadBytes())
	assert.Equal(t, 512<<20, cfg.RequestBodyLimit())
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, 30, cfg.Server.RateLimit.PerIP)
	assert.Equal(t, time.Minute, cfg.Server.RateLimit.Window)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  port: 9000
  max_upload_mb: 25
analysis:
  provider: anthropic
  model: claude-sonnet-4-5
  timeout: 15s
video:
  backend_url: http://video:8080/analyze
cache:
  enabled: true
  ttl: 10m
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0600))

	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	require.NoError(t, Load(dir))
	cfg := GetConfig()

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 25<<20, cfg.Server.MaxUploadBytes())
	assert.Equal(t, "anthropic", cfg.Analysis.Provider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Analysis.Model)
	assert.Equal(t, 15*time.Second, cfg.Analysis.Timeout)
	assert.Equal(t, "http://video:8080/analyze", cfg.Video.BackendURL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "sk-from-env", cfg.Providers.OpenAI.APIKey)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0600))

	err := Load(dir)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConfigFileNotFound)
}

func TestServerConfig_MaxUploadBytesFallback(t *testing.T) {
	assert.Equal(t, 10<<20, ServerConfig{}.MaxUploadBytes())
	assert.Equal(t, 1<<20, ServerConfig{MaxUploadMB: 1}.MaxUploadBytes())
}

func TestConfig_RequestBodyLimitFitsLargestRoute(t *testing.T) {
	cfg := &Config{}
	cfg.Server.MaxUploadMB = 10
	cfg.Video.MaxUploadMB = 700
	assert.Equal(t, 700<<20, cfg.RequestBodyLimit())

	cfg.Server.MaxUploadMB = 800
	assert.Equal(t, 800<<20, cfg.RequestBodyLimit())

	assert.Equal(t, 512<<20, VideoConfig{}.MaxUploadBytes())
}
