package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Network.CheckInterval)
	assert.Equal(t, 3*time.Second, cfg.Network.ProbeTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Sync.AppointmentsInterval)
	assert.Equal(t, 10*time.Minute, cfg.Sync.ArticlesInterval)
	assert.Equal(t, "127.0.0.1:8450", cfg.Bridge.Addr)
	assert.False(t, cfg.Remote.Configured())
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
remote:
  base_url: https://remote.example.com
  api_key: file-key
  project_id: clinic-1
sync:
  appointments_interval: 2m
`), 0644))

	t.Setenv("CLINICSYNC_API_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://remote.example.com", cfg.Remote.BaseURL)
	assert.Equal(t, "env-key", cfg.Remote.APIKey, "env must win over file")
	assert.Equal(t, "clinic-1", cfg.Remote.ProjectID)
	assert.Equal(t, 2*time.Minute, cfg.Sync.AppointmentsInterval)
	assert.True(t, cfg.Remote.Configured())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
