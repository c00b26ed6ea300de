package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()

	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_FromFile(t *testing.T) {
	unsetEnv(t, "GEMINI_API_KEY", "HTTP_PORT", "SEED_COUNT")

	path := writeConfig(t, `
env: dev
http:
  port: "9090"
gemini:
  api_key: secret
  timeout: 15s
seed:
  count: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "secret", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.Gemini.Model)
	assert.Equal(t, 15*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 5, cfg.Seed.Count)
	assert.Equal(t, 30*time.Minute, cfg.Flow.TTL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("HTTP_PORT", "7070")

	path := writeConfig(t, "gemini:\n  api_key: from-file\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Gemini.APIKey)
	assert.Equal(t, "7070", cfg.HTTP.Port)
}

func TestLoad_EnvOnly(t *testing.T) {
	unsetEnv(t, "ENV", "SEED_COUNT")
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 30, cfg.Seed.Count)
}

func TestLoad_Errors(t *testing.T) {
	unsetEnv(t, "GEMINI_API_KEY", "HTTP_PORT", "SEED_COUNT")

	_, err := Load(writeConfig(t, "env: prod\n"))
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "gemini:\n  api_key: k\nseed:\n  count: -1\n"))
	assert.Error(t, err)
}

func TestMustLoadPath_Panics(t *testing.T) {
	unsetEnv(t, "GEMINI_API_KEY", "HTTP_PORT", "SEED_COUNT")

	assert.Panics(t, func() {
		MustLoadPath(writeConfig(t, "env: local\n"))
	})
}

func TestMustLoad_ConfigPathFromDotEnv(t *testing.T) {
	unsetEnv(t, "CONFIG_PATH", "ENV", "GEMINI_API_KEY", "HTTP_PORT", "SEED_COUNT")

	path := writeConfig(t, `
env: prod
gemini:
  api_key: from-yaml
`)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CONFIG_PATH="+path+"\n"), 0644))
	t.Chdir(dir)

	cfg := MustLoad()

	assert.Equal(t, path, os.Getenv("CONFIG_PATH"))
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "from-yaml", cfg.Gemini.APIKey)
}
