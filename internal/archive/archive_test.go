package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateThenExtractRoundTrip(t *testing.T) {
	srcDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "hpm"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "hpm", "manifest.toml"), []byte("x=1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "payload.bin"), []byte("payload"), 0o644))

	archivePath := filepath.Join(t.TempDir(), "foo-1.0.archive")
	require.NoError(t, Create(srcDir, archivePath))
	require.FileExists(t, archivePath)

	dest := t.TempDir()
	require.NoError(t, Extract(archivePath, dest))

	data, err := os.ReadFile(filepath.Join(dest, "hpm", "manifest.toml"))
	require.NoError(t, err)
	require.Equal(t, "x=1", string(data))

	data2, err := os.ReadFile(filepath.Join(dest, "payload.bin"))
	require.NoError(t, err)
	require.Equal(t, "payload", string(data2))
}

func TestExtractRejectsPathTraversal(t *testing.T) {
	// Extract passes every entry name through safeJoin before writing it,
	// so this checks that guard directly instead of building a malicious
	// archive by hand.
	_, err := safeJoin(t.TempDir(), "../../etc/passwd")
	require.Error(t, err)
}
