package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"client"}, args...)
	t.Cleanup(func() { os.Args = old })
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, "http://localhost:5055", cfg.ServerURL)
	require.Equal(t, ".chatter", cfg.StateDir)
	require.Equal(t, 5*time.Minute, cfg.RefreshInterval)
}

func TestParseJson_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_url": "https://chat.example.com",
		"state_dir": "/var/lib/chatter",
		"refresh_interval": "90s"
	}`), 0o660))

	setArgs(t, "-c", path)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, "https://chat.example.com", cfg.ServerURL)
	require.Equal(t, "/var/lib/chatter", cfg.StateDir)
	require.Equal(t, 90*time.Second, cfg.RefreshInterval)
}

func TestParseJson_NoFlagKeepsDefaults(t *testing.T) {
	setArgs(t)

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, "http://localhost:5055", cfg.ServerURL)
}

func TestParseEnv_Overrides(t *testing.T) {
	t.Setenv("CHATTER_SERVER_URL", "https://chat.example.com")
	t.Setenv("CHATTER_STATE_DIR", "/tmp/chatter-state")
	t.Setenv("CHATTER_REFRESH_INTERVAL", "30s")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, "https://chat.example.com", cfg.ServerURL)
	require.Equal(t, "/tmp/chatter-state", cfg.StateDir)
	require.Equal(t, 30*time.Second, cfg.RefreshInterval)
}

func TestParseEnv_InvalidDurationIgnored(t *testing.T) {
	t.Setenv("CHATTER_REFRESH_INTERVAL", "soonish")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, 5*time.Minute, cfg.RefreshInterval)
}

func TestParseFlags_Overrides(t *testing.T) {
	setArgs(t, "-s", "http://10.0.0.5:5055", "-d", "alt-state", "-r", "10")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	require.Equal(t, "http://10.0.0.5:5055", cfg.ServerURL)
	require.Equal(t, "alt-state", cfg.StateDir)
	require.Equal(t, 10*time.Minute, cfg.RefreshInterval)
}
