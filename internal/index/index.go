// Package index loads, caches, and queries the remote package index: a
// mapping from package name to an ordered set of available versions with
// per-version metadata. The cache-before-network discipline is grounded on
// golang-dep's SourceManager, which aggressively reuses whatever has
// already been fetched into its cache directory before going upstream.
package index

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/resolve"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// DefaultURL is the fixed location the index document is served from.
const DefaultURL = "https://index.hpm.example/index.toml"

// TTL is how long a cached index document is trusted before Load refreshes
// it from the network. Refresh always bypasses the cache.
const TTL = 15 * time.Minute

// VersionRecord describes one published version of a package.
type VersionRecord struct {
	Version      string            `toml:"version"`
	URL          string            `toml:"url"`
	Digest       string            `toml:"digest"`
	Dependencies map[string]string `toml:"dependencies"`
}

// Entry is one package's index record.
type Entry struct {
	Author      string          `toml:"author"`
	License     string          `toml:"license"`
	Description string          `toml:"description"`
	Versions    []VersionRecord `toml:"versions"`
}

// Index is the parsed package index document.
type Index struct {
	Packages map[string]Entry `toml:"packages"`
}

// Entry looks up a package by name.
func (ix *Index) Entry(name string) (Entry, bool) {
	e, ok := ix.Packages[name]
	return e, ok
}

// Versions returns the available version records for a package, or
// herror.PackageNotFound if the package is absent from the index.
func (ix *Index) Versions(name string) ([]VersionRecord, error) {
	e, ok := ix.Entry(name)
	if !ok {
		return nil, herror.New(herror.PackageNotFound, name)
	}
	return e.Versions, nil
}

// Store loads the index from its on-disk cache, refreshing from the network
// when the cache is absent or older than TTL.
type Store struct {
	URL       string
	CachePath string
	Client    *http.Client
}

// NewStore builds a Store with the default URL and an http.Client with a
// conservative timeout.
func NewStore(cachePath string) *Store {
	return &Store{
		URL:       DefaultURL,
		CachePath: cachePath,
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Load returns the cached index if it is fresh, otherwise calls Refresh.
func (s *Store) Load() (*Index, error) {
	info, err := os.Stat(s.CachePath)
	if err == nil && time.Since(info.ModTime()) < TTL {
		return s.loadFromCache()
	}
	return s.Refresh()
}

// Refresh always fetches the index from the network and atomically
// replaces the on-disk cache before parsing and returning it.
func (s *Store) Refresh() (*Index, error) {
	resp, err := s.Client.Get(s.URL)
	if err != nil {
		return nil, herror.Wrap(herror.IndexLoad, err, "fetching "+s.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, herror.New(herror.IndexLoad, "unexpected status fetching "+s.URL+": "+resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, herror.Wrap(herror.IndexLoad, err, "reading response body")
	}

	if err := writeAtomic(s.CachePath, data); err != nil {
		return nil, herror.Wrap(herror.IndexLoad, err, "caching index")
	}

	return parse(data)
}

func (s *Store) loadFromCache() (*Index, error) {
	data, err := os.ReadFile(s.CachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return s.Refresh()
		}
		return nil, herror.Wrap(herror.IndexLoad, err, "reading cached index")
	}
	return parse(data)
}

func parse(data []byte) (*Index, error) {
	var ix Index
	if err := toml.Unmarshal(data, &ix); err != nil {
		return nil, herror.Wrap(herror.IndexLoad, err, "parsing index")
	}
	if ix.Packages == nil {
		ix.Packages = map[string]Entry{}
	}
	for name, entry := range ix.Packages {
		for _, v := range entry.Versions {
			if err := resolve.ValidateVersion(v.Version); err != nil {
				return nil, herror.Wrap(herror.IndexLoad, err, name+" version "+v.Version)
			}
		}
	}
	return &ix, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrapf(err, "renaming %s to %s", tmp, path)
	}
	return nil
}
