package launcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteThenRemove(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, "/usr/bin/hpm", "foo", "foobin"))

	path := filepath.Join(dir, "foobin")
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&0o111, "launcher script must be executable")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "/usr/bin/hpm run foo foobin")

	require.NoError(t, Remove(dir, "foobin"))
	require.NoFileExists(t, path)
}

func TestRemoveMissingIsNotError(t *testing.T) {
	require.NoError(t, Remove(t.TempDir(), "nonexistent"))
}
