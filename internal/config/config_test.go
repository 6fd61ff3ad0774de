package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigWithInfo_MissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
	assert.False(t, info.PortSpecified)
	assert.Equal(t, path, info.Path)
}

func TestLoadConfigWithInfo_TomlAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[server]
port = 30000
dev_mode = true

[data]
seed = 7
assets_per_type = 3

[compat]
delay_ms = 250
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("VRCASSETS_LOG_LEVEL", "debug")

	cfg, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 30000, cfg.Server.Port)
	assert.True(t, cfg.Server.DevMode)
	assert.Equal(t, uint64(7), cfg.Data.Seed)
	assert.Equal(t, 3, cfg.Data.AssetsPerType)
	assert.Equal(t, 250*time.Millisecond, cfg.Compat.Delay())
	assert.Equal(t, "debug", cfg.Log.Level)
	// 未出现在 toml 中的字段保留默认值
	assert.Equal(t, "http://localhost:5173", cfg.Server.FrontendURL)
}

func TestLoadConfigWithInfo_DotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("VRCASSETS_ASSETS_PER_TYPE=5\n"), 0644))
	t.Cleanup(func() { _ = os.Unsetenv("VRCASSETS_ASSETS_PER_TYPE") })

	cfg, _, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Data.AssetsPerType)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 0
	cfg.Data.WatchReference = true
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "watch_reference")
	assert.Contains(t, err.Error(), "log.level")
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Server.Port = 31000

	require.NoError(t, SaveConfig(path, cfg))

	loaded, info, err := LoadConfigWithInfo(path)
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 31000, loaded.Server.Port)
}
