package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sfmp/server/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.TCP.Host)
	require.Equal(t, 57005, cfg.TCP.Port)
	require.Equal(t, "data", cfg.Root)
	require.Equal(t, "", cfg.HTTPAddr)
	require.Equal(t, "sqlite", cfg.DB.Driver)
	require.True(t, cfg.History.Enabled)
	require.False(t, cfg.Monitor.Enabled)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	yaml := `server:
  host: 127.0.0.1
  port: 6000
  root: /srv/files
  http_addr: 127.0.0.1:9090
db:
  driver: mysql
  name: transfers
history:
  enabled: false
monitor:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", cfg.TCP.Host)
	require.Equal(t, 6000, cfg.TCP.Port)
	require.Equal(t, "/srv/files", cfg.Root)
	require.Equal(t, "127.0.0.1:9090", cfg.HTTPAddr)
	require.Equal(t, "mysql", cfg.DB.Driver)
	require.Equal(t, "transfers", cfg.DB.Name)
	require.False(t, cfg.History.Enabled)
	require.True(t, cfg.Monitor.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
