package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(LoadOptions{EnvFile: missingEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 256, cfg.Lookup.CacheSize)
	assert.False(t, cfg.Production())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("FIELDBUILDER_HTTP_ADDR", ":9999")
	t.Setenv("FIELDBUILDER_LOG_LEVEL", "DEBUG")
	t.Setenv("FIELDBUILDER_LOOKUP_ENDPOINT", "http://example.test/api/admin/get-child-submissions/")

	cfg, err := Load(LoadOptions{EnvFile: missingEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "http://example.test/api/admin/get-child-submissions/", cfg.Lookup.Endpoint)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "fieldbuilder.yaml")
	require.NoError(t, os.WriteFile(file, []byte("env: production\ntheme:\n  name: acme\n  variant: dark\n"), 0o600))

	cfg, err := Load(LoadOptions{ConfigFile: file, EnvFile: missingEnvFile(t)})
	require.NoError(t, err)

	assert.True(t, cfg.Production())
	assert.Equal(t, "acme", cfg.Theme.Name)
	assert.Equal(t, "dark", cfg.Theme.Variant)
}

func TestLoad_DotEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("FIELDBUILDER_SUGGEST_MODEL=custom-model\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FIELDBUILDER_SUGGEST_MODEL") })

	cfg, err := Load(LoadOptions{EnvFile: file})
	require.NoError(t, err)
	assert.Equal(t, "custom-model", cfg.Suggest.Model)
}

func TestLoad_RejectsIncompleteStore(t *testing.T) {
	t.Setenv("FIELDBUILDER_STORE_DRIVER", "redis")

	_, err := Load(LoadOptions{EnvFile: missingEnvFile(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RedisURL")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("FIELDBUILDER_STORE_DRIVER", "sqlite")

	_, err := Load(LoadOptions{EnvFile: missingEnvFile(t)})
	require.Error(t, err)
}
