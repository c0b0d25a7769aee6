package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OPENROUTER_API_KEY", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", c.Addr())
	assert.Equal(t, 30*time.Second, c.RequestTimeout())
	assert.Equal(t, 10*time.Second, c.LabelTimeout())
	assert.Equal(t, 1000, c.MaxItems)
	assert.Equal(t, 100, c.MaxStringLen)
	assert.Equal(t, 999999999.0, c.MaxAbsNumber)
	assert.Equal(t, "none", c.AIProvider)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.APIKey)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("TOKENSCOPE_SERVER_PORT", "9090")
	t.Setenv("TOKENSCOPE_AI_PROVIDER", "ollama")
	t.Setenv("OPENROUTER_API_KEY", "sk-env")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9090, c.ServerPort)
	assert.Equal(t, "ollama", c.AIProvider)
	assert.Equal(t, "sk-env", c.APIKey)
}

func TestSaveThenLoad(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	c, err := Load("")
	require.NoError(t, err)
	c.UserID = "jane_doe_01011990"
	c.Email = "jane@example.com"
	c.RollNumber = "ABC123"
	c.RateLimitRPS = 2.5
	require.NoError(t, Save(c, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "jane_doe_01011990", loaded.UserID)
	assert.Equal(t, "jane@example.com", loaded.Email)
	assert.Equal(t, "ABC123", loaded.RollNumber)
	assert.Equal(t, 2.5, loaded.RateLimitRPS)
}

func TestSaveDefaultPath(t *testing.T) {
	home := isolate(t)
	c := &Global{ServerPort: 1, MaxItems: 1, MaxStringLen: 1, MaxAbsNumber: 1}
	require.NoError(t, Save(c, ""))
	_, err := os.Stat(filepath.Join(home, ".tokenscope", "config.yaml"))
	assert.NoError(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_items: 0\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	capped := filepath.Join(t.TempDir(), "capped.yaml")
	require.NoError(t, os.WriteFile(capped, []byte("max_abs_number: 1e12\n"), 0o644))
	_, err = Load(capped)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_abs_number")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit config file must exist")
}
