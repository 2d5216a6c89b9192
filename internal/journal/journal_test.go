package journal

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveAtomicThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.toml")

	j := New()
	j.Record("foo", "1.0", "abc123", false)

	require.NoError(t, j.SaveAtomic(path))
	require.FileExists(t, path)
	require.NoFileExists(t, path+".tmp")

	loaded, err := Load(path)
	require.NoError(t, err)
	entry, ok := loaded.Installed("foo", "1.0")
	require.True(t, ok)
	require.Equal(t, "abc123", entry.Digest)
	require.False(t, entry.Pinned)
}

func TestLoadMissingFileIsEmptyJournal(t *testing.T) {
	j, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Empty(t, j.Packages)
}

func TestForgetRemovesEmptyPackage(t *testing.T) {
	j := New()
	j.Record("foo", "1.0", "abc", false)
	j.Forget("foo", "1.0")
	require.False(t, j.HasPackage("foo"))
}

func TestSetPinUnknownVersion(t *testing.T) {
	j := New()
	err := j.SetPin("foo", "1.0", true)
	require.Error(t, err)
}

func TestSetPinKnownVersion(t *testing.T) {
	j := New()
	j.Record("foo", "1.0", "abc", false)
	require.NoError(t, j.SetPin("foo", "1.0", true))
	entry, _ := j.Installed("foo", "1.0")
	require.True(t, entry.Pinned)
}
