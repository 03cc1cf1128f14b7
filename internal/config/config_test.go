package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warden/internal/logging"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warden.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
whitelist:
  path: "/var/lib/warden/whitelist.txt"
  watch: false
  rejectLogPerSecond: 2
  rejectLogBurst: 10
ops:
  enabled: true
  addr: ":9999"
log:
  debug: true
`)

	cfg, err := LoadConfig(path, logging.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/warden/whitelist.txt", cfg.Whitelist.Path)
	assert.False(t, cfg.Whitelist.Watch)
	assert.Equal(t, 2.0, cfg.Whitelist.RejectLogPerSecond)
	assert.Equal(t, 10, cfg.Whitelist.RejectLogBurst)
	assert.True(t, cfg.Ops.Enabled)
	assert.Equal(t, ":9999", cfg.Ops.Addr)
	assert.True(t, cfg.Log.Debug)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
ops:
  enabled: false
`)

	cfg, err := LoadConfig(path, logging.NewNop())
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Whitelist.Path, cfg.Whitelist.Path)
	assert.Equal(t, def.Whitelist.RejectLogPerSecond, cfg.Whitelist.RejectLogPerSecond)
	assert.Equal(t, def.Ops.Addr, cfg.Ops.Addr)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), logging.NewNop())
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "whitelist: [unclosed")
	_, err := LoadConfig(path, logging.NewNop())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg = Default()
	cfg.Whitelist.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Whitelist.RejectLogPerSecond = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Whitelist.RejectLogBurst = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Ops.Enabled = true
	cfg.Ops.Addr = ""
	assert.Error(t, cfg.Validate())
}
