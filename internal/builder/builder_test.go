package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/archive"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/manifest"
	"github.com/stretchr/testify/require"
)

func TestBuildProducesExtractableArchive(t *testing.T) {
	src := t.TempDir()
	m := &manifest.Manifest{
		Metadata: manifest.Metadata{Name: "demo", Version: "1.0.0", Binaries: []string{"demo"}},
	}
	data, err := manifest.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(src, ManifestInput), data, 0o644))

	payloadDir := filepath.Join(src, PayloadInput, "hpm")
	require.NoError(t, os.MkdirAll(payloadDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(payloadDir, "demo"), []byte("#!/bin/sh\necho hi\n"), 0o755))

	destDir := t.TempDir()
	archivePath, err := Build(src, destDir, "demo-1.0.0")
	require.NoError(t, err)
	require.FileExists(t, archivePath)

	extractDir := t.TempDir()
	require.NoError(t, archive.Extract(archivePath, extractDir))

	loaded, err := manifest.Load(extractDir)
	require.NoError(t, err)
	require.Equal(t, "demo", loaded.Metadata.Name)

	require.FileExists(t, filepath.Join(extractDir, "hpm", "demo"))
}

func TestBuildFailsOnMissingManifest(t *testing.T) {
	src := t.TempDir()
	_, err := Build(src, t.TempDir(), "demo")
	require.Error(t, err)
}

func TestBuildWithoutPayloadStillSucceeds(t *testing.T) {
	src := t.TempDir()
	m := &manifest.Manifest{Metadata: manifest.Metadata{Name: "demo", Version: "1.0.0"}}
	data, err := manifest.Marshal(m)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(src, ManifestInput), data, 0o644))

	archivePath, err := Build(src, t.TempDir(), "demo-1.0.0")
	require.NoError(t, err)
	require.FileExists(t, archivePath)
}
