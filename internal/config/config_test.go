package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, BackendBadger, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(home, ".tack", "data"), cfg.Storage.Path)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 15*time.Second, cfg.Sources.Timeout)
	assert.Empty(t, cfg.Sources.ListsURL)
	assert.False(t, cfg.Log.Debug)
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, `
[storage]
backend = "toml"
path = "~/tack-store"

[sources]
lists_url = "https://example.test/lists.json"
catalog_file = "~/catalog.json"
timeout = "3s"

[session]
ttl = "30m"
`)

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, BackendTOML, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(home, "tack-store"), cfg.Storage.Path)
	assert.Equal(t, "https://example.test/lists.json", cfg.Sources.ListsURL)
	assert.Equal(t, filepath.Join(home, "catalog.json"), cfg.Sources.CatalogFile)
	assert.Equal(t, 3*time.Second, cfg.Sources.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TACK_STORAGE_BACKEND", "file")
	writeConfig(t, home, "[storage]\nbackend = \"toml\"\n")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.Storage.Backend)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{name: "unknown backend", config: "[storage]\nbackend = \"redis\"\n"},
		{name: "bad url", config: "[sources]\nlists_url = \"not a url\"\n"},
		{name: "zero ttl", config: "[session]\nttl = \"0s\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("HOME", home)
			writeConfig(t, home, tt.config)

			_, err := Load(viper.New())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validate config")
		})
	}
}

func TestLoadMalformedConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "[storage\n")

	_, err := Load(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	dir := filepath.Join(home, ".tack")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))
}
