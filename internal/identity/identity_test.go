package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
)

func TestDefaultLookup(t *testing.T) {
	reg := Default()

	id, err := reg.Lookup("PING")
	require.NoError(t, err)
	require.Equal(t, uint32(18), id)

	id, err = reg.Lookup("PONG")
	require.NoError(t, err)
	require.Equal(t, uint32(81), id)
}

func TestLookupUnknownName(t *testing.T) {
	reg := Default()
	_, err := reg.Lookup("NOBODY")
	require.Error(t, err)
}

func TestWithOverlay(t *testing.T) {
	reg := Default().WithOverlay(map[string]uint32{"PING": 100, "EXTRA": 7})

	id, err := reg.Lookup("PING")
	require.NoError(t, err)
	require.Equal(t, uint32(100), id)

	id, err = reg.Lookup("EXTRA")
	require.NoError(t, err)
	require.Equal(t, uint32(7), id)

	id, err = reg.Lookup("PONG")
	require.NoError(t, err)
	require.Equal(t, uint32(81), id, "entries absent from the overlay keep their default")
}

func TestLoadOverlayFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instances.cbor")

	data, err := cbor.Marshal(map[string]uint32{"PING": 200})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	overlay, err := LoadOverlayFile(path)
	require.NoError(t, err)
	require.Equal(t, uint32(200), overlay["PING"])
}

func TestLoadFromEnvWithoutOverlay(t *testing.T) {
	t.Setenv("INSTANCE_MAP_FILE", "")
	reg, err := LoadFromEnv()
	require.NoError(t, err)

	id, err := reg.Lookup("SEQ")
	require.NoError(t, err)
	require.Equal(t, uint32(1), id)
}

func TestLoadFromEnvWithOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instances.cbor")
	data, err := cbor.Marshal(map[string]uint32{"SEQ": 55})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	t.Setenv("INSTANCE_MAP_FILE", path)
	reg, err := LoadFromEnv()
	require.NoError(t, err)

	id, err := reg.Lookup("SEQ")
	require.NoError(t, err)
	require.Equal(t, uint32(55), id)
}
