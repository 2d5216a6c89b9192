package sandbox

import (
	"testing"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/manifest"
	"github.com/stretchr/testify/require"
)

func TestArgsDefaultPolicy(t *testing.T) {
	argv := args(manifest.Sandbox{}, "/store/foo/1.0")
	require.Contains(t, argv, "--unshare-all")
	require.Contains(t, argv, "/store/foo/1.0")
	require.Contains(t, argv, mountPoint)
	require.NotContains(t, argv, "--share-net")
}

func TestArgsNetworkProfile(t *testing.T) {
	argv := args(manifest.Sandbox{Network: true}, "/store/foo/1.0")
	require.Contains(t, argv, "--share-net")
}

func TestArgsExtraPaths(t *testing.T) {
	argv := args(manifest.Sandbox{ExtraPaths: []string{"/opt/data"}}, "/store/foo/1.0")
	require.Contains(t, argv, "/opt/data")
}
