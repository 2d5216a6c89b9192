// Package paths resolves the engine's well-known filesystem locations, the
// way golang-dep's Ctx resolved a project's GOPATH: a small struct built
// once per invocation, with environment overrides for testing.
package paths

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	envStore = "HPM_STORE"
	envCache = "HPM_CACHE"
	envHome  = "HPM_HOME"

	binDir = "/usr/bin"
)

// Ctx carries the resolved directory layout for one engine invocation. It is
// built once by NewContext and threaded through every component that needs
// to touch disk; nothing here is cached across invocations.
type Ctx struct {
	Store     string // <store>/<package>/<version>
	Cache     string // downloaded archives
	StateDir  string // journal + lock
	BinDir    string // published launcher scripts
	IndexFile string // cached index document
}

// NewContext resolves the well-known paths from the environment, falling
// back to XDG-ish defaults under $HOME when no override is set.
func NewContext() (*Ctx, error) {
	home := os.Getenv(envHome)
	if home == "" {
		home = os.Getenv("HOME")
	}
	if home == "" {
		return nil, errors.New("HOME is not set and HPM_HOME was not provided")
	}

	store := os.Getenv(envStore)
	if store == "" {
		store = filepath.Join(home, ".local", "share", "hpm", "store")
	}
	cache := os.Getenv(envCache)
	if cache == "" {
		cache = filepath.Join(home, ".cache", "hpm")
	}
	state := filepath.Join(home, ".local", "state", "hpm")

	return &Ctx{
		Store:     store,
		Cache:     cache,
		StateDir:  state,
		BinDir:    binDir,
		IndexFile: filepath.Join(cache, "index.toml"),
	}, nil
}

// JournalPath is the path to the durable installed-package record.
func (c *Ctx) JournalPath() string { return filepath.Join(c.StateDir, "state.toml") }

// LockPath is the path to the process-wide mutual exclusion file.
func (c *Ctx) LockPath() string { return filepath.Join(c.StateDir, "lock") }

// VersionFile records the engine's own last-published version, consulted by
// the self-upgrade path.
func (c *Ctx) VersionFile() string { return filepath.Join(c.Store, ".version") }

// PackageDir is the artifact store root for one package.
func (c *Ctx) PackageDir(pkg string) string { return filepath.Join(c.Store, pkg) }

// VersionDir is the unpacked artifact root for one package version.
func (c *Ctx) VersionDir(pkg, version string) string {
	return filepath.Join(c.PackageDir(pkg), version)
}

// TmpVersionDir is the staging directory an install populates before the
// atomic rename into VersionDir.
func (c *Ctx) TmpVersionDir(pkg, version string) string {
	return filepath.Join(c.PackageDir(pkg), version+".tmp")
}

// CurrentLink is the symlink naming the published version of a package.
func (c *Ctx) CurrentLink(pkg string) string { return filepath.Join(c.PackageDir(pkg), "current") }

// ArchivePath is where a downloaded artifact is cached.
func (c *Ctx) ArchivePath(pkg, version string) string {
	return filepath.Join(c.Cache, pkg+"-"+version+".archive")
}

// EnsureDirs creates every directory this Ctx depends on existing.
func (c *Ctx) EnsureDirs() error {
	for _, d := range []string{c.Store, c.Cache, c.StateDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", d)
		}
	}
	return nil
}
