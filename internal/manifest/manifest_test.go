package manifest

import (
	"path/filepath"
	"testing"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	in := &Manifest{
		Metadata: Metadata{
			Name:     "foo",
			Version:  "1.0",
			Authors:  []string{"a dev"},
			License:  "MIT",
			Binaries: []string{"foo"},
		},
		Description: Description{Summary: "does foo things"},
		Specs:       Specs{Dependencies: map[string]string{"c": ">=1.0"}},
		Sandbox:     Sandbox{Network: true},
		Install:     []string{"make install"},
	}

	data, err := Marshal(in)
	require.NoError(t, err)

	out, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, in.Metadata.Name, out.Metadata.Name)
	require.Equal(t, in.Metadata.Version, out.Metadata.Version)
	require.Equal(t, in.Specs.Dependencies["c"], out.Specs.Dependencies["c"])
	require.True(t, out.Sandbox.Network)
	require.Equal(t, in.Install, out.Install)
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	require.True(t, herror.Is(err, herror.ManifestInvalid))
}

func TestValidateRequiresNameAndVersion(t *testing.T) {
	_, err := Parse([]byte(`[metadata]
name = "foo"
`))
	require.Error(t, err)
	require.True(t, herror.Is(err, herror.ManifestInvalid))
}

func TestWriteThenLoad(t *testing.T) {
	dir := t.TempDir()
	m := &Manifest{Metadata: Metadata{Name: "bar", Version: "2.0"}}
	require.NoError(t, Write(dir, m))
	require.FileExists(t, filepath.Join(dir, Path))

	loaded, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "bar", loaded.Metadata.Name)
}
