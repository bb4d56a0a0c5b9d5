package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"EVENTS_ADDR", "EVENTS_PORT", "CMD_ADDR", "CMD_PORT",
		"MCAST_IF_ADDR", "MCAST_DEDUP", "MCAST_DEDUP_MS",
		"MD_SOURCE_HOST", "MD_SOURCE_PORT", "MD_SOURCE_PATH",
		"SCRAPPY_FILE", "INSTANCE_MAP_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, defaultEventsAddr, cfg.EventsAddr)
	require.Equal(t, defaultEventsPort, cfg.EventsPort)
	require.Equal(t, defaultCmdAddr, cfg.CmdAddr)
	require.Equal(t, defaultCmdPort, cfg.CmdPort)
	require.True(t, cfg.DedupEnabled)
	require.Equal(t, defaultDedupWindowMS, cfg.DedupWindowMS)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("EVENTS_PORT", "40001")
	t.Setenv("MCAST_DEDUP", "0")
	t.Setenv("MCAST_DEDUP_MS", "250")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 40001, cfg.EventsPort)
	require.False(t, cfg.DedupEnabled)
	require.Equal(t, 250, cfg.DedupWindowMS)
}

func TestLoadRejectsOutOfRangeDedupWindow(t *testing.T) {
	clearEnv(t)
	t.Setenv("MCAST_DEDUP_MS", "10000")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsNonIntegerPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("EVENTS_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)
}
