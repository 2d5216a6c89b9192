// Package journal is the durable record of installed {package, version}
// pairs with their recorded digest, install timestamp, and pin flag.
// Persistence follows the write-temp-then-rename pattern golang-dep uses
// for its own Gopkg.lock writes (txn_writer.go): serialize to
// state.toml.tmp, then rename over state.toml. The schema itself is grounded on
// golang-dep's lock.go raw/cooked struct pair, serialized with
// pelletier/go-toml instead of encoding/json.
package journal

import (
	"os"
	"path/filepath"
	"time"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// NoDigest is the sentinel recorded when a version was published without a
// verified digest (the index carried none).
const NoDigest = "none"

// Entry records one installed version's accepted digest, install time, and
// pin state.
type Entry struct {
	Digest    string    `toml:"digest"`
	Installed time.Time `toml:"installed_at"`
	Pinned    bool      `toml:"pinned"`
}

// Journal is the in-memory view of state.toml: package name -> version ->
// Entry. The engine never caches this across operations; it is loaded and
// saved within a single locked region.
type Journal struct {
	Packages map[string]map[string]Entry `toml:"packages"`
}

// New returns an empty journal.
func New() *Journal {
	return &Journal{Packages: map[string]map[string]Entry{}}
}

// Load reads the journal from path. A missing file is equivalent to an
// empty journal.
func Load(path string) (*Journal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, herror.Wrap(herror.JournalLoad, err, "reading "+path)
	}
	if len(data) == 0 {
		return New(), nil
	}

	var j Journal
	if err := toml.Unmarshal(data, &j); err != nil {
		return nil, herror.Wrap(herror.JournalLoad, err, "parsing "+path)
	}
	if j.Packages == nil {
		j.Packages = map[string]map[string]Entry{}
	}
	return &j, nil
}

// SaveAtomic serializes j to path+".tmp" and renames it over path. After this
// call returns successfully, the on-disk file parses and equals j.
func (j *Journal) SaveAtomic(path string) error {
	data, err := toml.Marshal(*j)
	if err != nil {
		return errors.Wrap(err, "marshaling journal")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return herror.Wrap(herror.JournalLoad, err, "writing "+tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return herror.Wrap(herror.AtomicPublishFailed, err, "renaming "+tmp+" to "+path)
	}
	return nil
}

// Record writes (or overwrites) the entry for package/version.
func (j *Journal) Record(pkg, version, digest string, pin bool) {
	if j.Packages[pkg] == nil {
		j.Packages[pkg] = map[string]Entry{}
	}
	j.Packages[pkg][version] = Entry{Digest: digest, Installed: now(), Pinned: pin}
}

// Forget removes the entry for package/version. If no versions remain for
// the package, the package's key is removed entirely.
func (j *Journal) Forget(pkg, version string) {
	versions := j.Packages[pkg]
	if versions == nil {
		return
	}
	delete(versions, version)
	if len(versions) == 0 {
		delete(j.Packages, pkg)
	}
}

// SetPin sets or clears the pin flag on an installed version. It fails with
// herror.VersionNotFound if the version is not recorded.
func (j *Journal) SetPin(pkg, version string, pin bool) error {
	versions := j.Packages[pkg]
	entry, ok := versions[version]
	if !ok {
		return herror.New(herror.VersionNotFound, pkg+"="+version)
	}
	entry.Pinned = pin
	versions[version] = entry
	return nil
}

// InstalledVersions returns every recorded version of pkg, in no particular
// order.
func (j *Journal) InstalledVersions(pkg string) []string {
	versions := j.Packages[pkg]
	out := make([]string, 0, len(versions))
	for v := range versions {
		out = append(out, v)
	}
	return out
}

// Installed reports whether pkg/version is recorded, and returns its entry.
func (j *Journal) Installed(pkg, version string) (Entry, bool) {
	entry, ok := j.Packages[pkg][version]
	return entry, ok
}

// HasPackage reports whether any version of pkg is recorded.
func (j *Journal) HasPackage(pkg string) bool {
	return len(j.Packages[pkg]) > 0
}

// now is a seam so install timestamps are deterministic in tests.
var now = time.Now
