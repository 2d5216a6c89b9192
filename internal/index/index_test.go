package index

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/stretchr/testify/require"
)

const sampleIndex = `
[packages.foo]
author = "a dev"
license = "MIT"
description = "does foo"

[[packages.foo.versions]]
version = "1.0"
url = "https://example/foo-1.0.archive"
digest = "abc123"
`

func TestRefreshAndLoad(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleIndex))
	}))
	defer srv.Close()

	s := NewStore(filepath.Join(t.TempDir(), "index.toml"))
	s.URL = srv.URL

	ix, err := s.Refresh()
	require.NoError(t, err)

	versions, err := ix.Versions("foo")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	require.Equal(t, "1.0", versions[0].Version)

	// Second load should hit the cache without needing the server.
	srv.Close()
	ix2, err := s.Load()
	require.NoError(t, err)
	_, err = ix2.Versions("foo")
	require.NoError(t, err)
}

func TestVersionsUnknownPackage(t *testing.T) {
	ix, err := parse([]byte(sampleIndex))
	require.NoError(t, err)

	_, err = ix.Versions("bar")
	require.Error(t, err)
	require.True(t, herror.Is(err, herror.PackageNotFound))
}
