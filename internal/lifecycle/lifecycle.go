// Package lifecycle is the Lifecycle Controller: it orchestrates install,
// remove, switch, update, pin, outdated, and verify, owning the
// atomic-publish protocol and launcher-script management. It is the sole
// owner of the store and the journal during a mutating operation, each one
// bracketed by internal/lockfile acquire/release exactly once, grounded on
// golang-dep's cmd/dep/ensure.go and remove.go command bodies (load
// context, load manifest/lock, do the work, write results back).
package lifecycle

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/archive"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/download"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/index"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/integrity"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/journal"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/launcher"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lockfile"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/manifest"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/paths"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/resolve"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/sandbox"
	"github.com/pkg/errors"
)

// EngineExe is the path launcher scripts invoke to re-enter the engine.
const EngineExe = "/usr/bin/hpm"

// Controller ties the seven components together for one invocation.
type Controller struct {
	Ctx   *paths.Ctx
	Index *index.Store
	Log   *hlog.Logger
}

// New builds a Controller from a resolved path context.
func New(ctx *paths.Ctx, log *hlog.Logger) *Controller {
	return &Controller{Ctx: ctx, Index: index.NewStore(ctx.IndexFile), Log: log}
}

// Spec is a parsed "<package>" or "<package>=<version>" CLI argument.
type Spec struct {
	Package string
	Version string // empty means "resolver's choice" / "any installed version"
}

// ParseSpec splits a CLI spec argument into package and optional version.
func ParseSpec(s string) Spec {
	if i := strings.IndexByte(s, '='); i >= 0 {
		return Spec{Package: s[:i], Version: s[i+1:]}
	}
	return Spec{Package: s}
}

type indexSource struct{ ix *index.Index }

func (s indexSource) Versions(name string) ([]resolve.VersionEntry, error) {
	records, err := s.ix.Versions(name)
	if err != nil {
		return nil, err
	}
	out := make([]resolve.VersionEntry, len(records))
	for i, r := range records {
		out[i] = resolve.VersionEntry{Version: r.Version, Dependencies: r.Dependencies}
	}
	return out, nil
}

// installRoot and installRootVersion name the synthetic package Install
// resolves against so that every spec in one invocation shares a single
// resolve.Resolve call, and therefore a single chosen/visiting state: a
// conflict between two specs' transitive dependencies must be caught before
// either is installed, not after each has been resolved in isolation.
const (
	installRoot        = "__install__"
	installRootVersion = "0"
)

// installSource adapts an indexSource, answering Versions(installRoot) with
// a synthetic entry depending on every spec being installed and delegating
// everything else to the index.
type installSource struct {
	indexSource
	deps map[string]string
}

func (s installSource) Versions(name string) ([]resolve.VersionEntry, error) {
	if name == installRoot {
		return []resolve.VersionEntry{{Version: installRootVersion, Dependencies: s.deps}}, nil
	}
	return s.indexSource.Versions(name)
}

func (c *Controller) lookupRecord(ix *index.Index, pkg, version string) (index.VersionRecord, error) {
	records, err := ix.Versions(pkg)
	if err != nil {
		return index.VersionRecord{}, err
	}
	for _, r := range records {
		if r.Version == version {
			return r, nil
		}
	}
	return index.VersionRecord{}, herror.New(herror.VersionNotFound, pkg+"="+version)
}

// Plan resolves the install plan for a single spec without installing
// anything or acquiring the lock, backing the "deps" subcommand.
func (c *Controller) Plan(spec Spec) ([]resolve.Step, error) {
	ix, err := c.Index.Load()
	if err != nil {
		return nil, err
	}
	req := ""
	if spec.Version != "" {
		req = "=" + spec.Version
	}
	return resolve.Resolve(indexSource{ix}, spec.Package, req)
}

// Install resolves every spec together as dependents of one synthetic root
// package, so a version conflict between two specs' transitive dependencies
// (e.g. "install a b" where a and b need incompatible versions of a shared
// dependency c) is raised as herror.VersionConflict before anything is
// installed, rather than each spec succeeding in isolation and leaving both
// conflicting versions on disk. Only once the whole plan resolves does it
// start installing steps and mutating the journal.
func (c *Controller) Install(ctx context.Context, specs []Spec) error {
	lock, err := lockfile.Acquire(c.Ctx.LockPath())
	if err != nil {
		return err
	}
	defer lock.Release()

	ix, err := c.Index.Load()
	if err != nil {
		return err
	}

	deps := make(map[string]string, len(specs))
	for _, spec := range specs {
		req := ""
		if spec.Version != "" {
			req = "=" + spec.Version
		}
		deps[spec.Package] = req
	}

	src := installSource{indexSource: indexSource{ix}, deps: deps}
	plan, err := resolve.Resolve(src, installRoot, "")
	if err != nil {
		return err
	}

	j, err := journal.Load(c.Ctx.JournalPath())
	if err != nil {
		return err
	}

	for _, step := range plan {
		if step.Package == installRoot {
			continue
		}
		if err := c.installStep(ctx, ix, j, step.Package, step.Version); err != nil {
			return err
		}
	}

	return j.SaveAtomic(c.Ctx.JournalPath())
}

// installStep runs steps 4a-4j of the install protocol for one resolved
// (package, version) pair. The journal is mutated in memory only; the
// caller is responsible for the final SaveAtomic.
func (c *Controller) installStep(ctx context.Context, ix *index.Index, j *journal.Journal, pkg, version string) error {
	versionDir := c.Ctx.VersionDir(pkg, version)
	if _, ok := j.Installed(pkg, version); ok {
		if _, err := os.Stat(versionDir); err == nil {
			c.Log.Logf("%s=%s already installed\n", pkg, version)
			return nil
		}
	}

	record, err := c.lookupRecord(ix, pkg, version)
	if err != nil {
		return err
	}

	if err := c.Ctx.EnsureDirs(); err != nil {
		return err
	}

	archivePath := c.Ctx.ArchivePath(pkg, version)
	if _, err := os.Stat(archivePath); err != nil {
		if err := download.Fetch(ctx, record.URL, archivePath); err != nil {
			return err
		}
	}

	if record.Digest != "" {
		if err := integrity.Verify(archivePath, record.Digest); err != nil {
			os.Remove(archivePath)
			return err
		}
	}

	tmpDir := c.Ctx.TmpVersionDir(pkg, version)
	if err := os.RemoveAll(tmpDir); err != nil {
		return errors.Wrapf(err, "clearing stale %s", tmpDir)
	}
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", tmpDir)
	}
	if err := archive.Extract(archivePath, tmpDir); err != nil {
		return err
	}

	m, err := manifest.Load(tmpDir)
	if err != nil {
		return err
	}

	if err := sandbox.Install(ctx, tmpDir, m); err != nil {
		return err
	}

	if err := os.Rename(tmpDir, versionDir); err != nil {
		return herror.Wrap(herror.AtomicPublishFailed, err, "publishing "+versionDir)
	}

	if err := publishCurrent(c.Ctx, pkg, version); err != nil {
		return err
	}

	for _, binary := range m.Metadata.Binaries {
		if err := launcher.Write(c.Ctx.BinDir, EngineExe, pkg, binary); err != nil {
			return err
		}
	}

	digest := record.Digest
	if digest == "" {
		digest = journal.NoDigest
	}
	j.Record(pkg, version, digest, false)

	return nil
}

// publishCurrent atomically repoints <store>/<package>/current at version.
func publishCurrent(ctx *paths.Ctx, pkg, version string) error {
	link := ctx.CurrentLink(pkg)
	tmpLink := link + ".tmp"
	os.Remove(tmpLink)
	if err := os.Symlink(version, tmpLink); err != nil {
		return herror.Wrap(herror.AtomicPublishFailed, err, "symlinking "+tmpLink)
	}
	if err := os.Rename(tmpLink, link); err != nil {
		return herror.Wrap(herror.AtomicPublishFailed, err, "renaming "+tmpLink+" to "+link)
	}
	return nil
}

// Remove uninstalls a package. If spec.Version is empty, every recorded
// version of the package is removed. A binary's launcher is only dropped
// once no installed version of any package still declares it; if another
// version (of this package or another) still does, the launcher is
// repointed at it instead of deleted.
func (c *Controller) Remove(spec Spec) error {
	lock, err := lockfile.Acquire(c.Ctx.LockPath())
	if err != nil {
		return err
	}
	defer lock.Release()

	j, err := journal.Load(c.Ctx.JournalPath())
	if err != nil {
		return err
	}
	if !j.HasPackage(spec.Package) {
		return herror.New(herror.PackageNotInstalled, spec.Package)
	}

	var targets []string
	if spec.Version != "" {
		if _, ok := j.Installed(spec.Package, spec.Version); !ok {
			return herror.New(herror.VersionNotFound, spec.Package+"="+spec.Version)
		}
		targets = []string{spec.Version}
	} else {
		targets = j.InstalledVersions(spec.Package)
	}

	currentTarget, _ := os.Readlink(c.Ctx.CurrentLink(spec.Package))

	type removal struct {
		version  string
		dir      string
		binaries []string
	}
	removals := make([]removal, 0, len(targets))
	for _, version := range targets {
		dir := c.Ctx.VersionDir(spec.Package, version)
		var binaries []string
		if m, err := manifest.Load(dir); err == nil {
			binaries = m.Metadata.Binaries
		}
		removals = append(removals, removal{version: version, dir: dir, binaries: binaries})
	}

	// Forget every target before checking launcher ownership, so the check
	// reflects the journal as it will be once removal completes.
	for _, r := range removals {
		j.Forget(spec.Package, r.version)
	}

	for _, r := range removals {
		for _, binary := range r.binaries {
			if err := c.reconcileLauncher(j, spec.Package, binary); err != nil {
				return err
			}
		}

		if err := os.RemoveAll(r.dir); err != nil {
			return errors.Wrapf(err, "removing %s", r.dir)
		}
		if currentTarget == r.version {
			os.Remove(c.Ctx.CurrentLink(spec.Package))
		}
	}

	if !j.HasPackage(spec.Package) {
		os.Remove(c.Ctx.PackageDir(spec.Package))
	}

	return j.SaveAtomic(c.Ctx.JournalPath())
}

// reconcileLauncher is called after forgetting a (removedPkg, *) version
// that declared binary. It repoints the launcher at whichever installed
// version still owns the name, preferring another version of removedPkg
// itself, or drops it if nothing installed declares it anymore.
func (c *Controller) reconcileLauncher(j *journal.Journal, removedPkg, binary string) error {
	if owner := c.binaryOwner(j, removedPkg, binary); owner != "" {
		return launcher.Write(c.Ctx.BinDir, EngineExe, owner, binary)
	}
	return launcher.Remove(c.Ctx.BinDir, binary)
}

// binaryOwner returns a package with an installed version that declares
// binary, checking preferPkg first and otherwise scanning the rest of the
// journal in sorted order for a deterministic choice. It returns "" if no
// installed version anywhere declares the binary.
func (c *Controller) binaryOwner(j *journal.Journal, preferPkg, binary string) string {
	if c.packageDeclaresBinary(j, preferPkg, binary) {
		return preferPkg
	}

	pkgs := make([]string, 0, len(j.Packages))
	for pkg := range j.Packages {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)

	for _, pkg := range pkgs {
		if pkg == preferPkg {
			continue
		}
		if c.packageDeclaresBinary(j, pkg, binary) {
			return pkg
		}
	}
	return ""
}

// packageDeclaresBinary reports whether any installed version of pkg
// declares binary in its manifest.
func (c *Controller) packageDeclaresBinary(j *journal.Journal, pkg, binary string) bool {
	for _, version := range j.InstalledVersions(pkg) {
		m, err := manifest.Load(c.Ctx.VersionDir(pkg, version))
		if err != nil {
			continue
		}
		for _, b := range m.Metadata.Binaries {
			if b == binary {
				return true
			}
		}
	}
	return false
}

// Switch repoints <store>/<package>/current to version, which must already
// be recorded in the journal. This is the only operation that mutates
// current outside of install.
func (c *Controller) Switch(pkg, version string) error {
	lock, err := lockfile.Acquire(c.Ctx.LockPath())
	if err != nil {
		return err
	}
	defer lock.Release()

	j, err := journal.Load(c.Ctx.JournalPath())
	if err != nil {
		return err
	}
	if _, ok := j.Installed(pkg, version); !ok {
		return herror.New(herror.VersionNotFound, pkg+"="+version)
	}

	return publishCurrent(c.Ctx, pkg, version)
}

// Pin sets the pin flag on an installed version.
func (c *Controller) Pin(pkg, version string) error {
	return c.setPin(pkg, version, true)
}

// Unpin clears the pin flag on an installed version.
func (c *Controller) Unpin(pkg, version string) error {
	return c.setPin(pkg, version, false)
}

func (c *Controller) setPin(pkg, version string, pin bool) error {
	lock, err := lockfile.Acquire(c.Ctx.LockPath())
	if err != nil {
		return err
	}
	defer lock.Release()

	j, err := journal.Load(c.Ctx.JournalPath())
	if err != nil {
		return err
	}
	if err := j.SetPin(pkg, version, pin); err != nil {
		return err
	}
	return j.SaveAtomic(c.Ctx.JournalPath())
}

// UpdateResult reports how many packages update actually touched.
type UpdateResult struct {
	Updated   int
	Unchanged int
}

// Update finds the maximum available version for every journaled package
// and, for each one that is strictly newer and not pinned, removes the
// current version and installs the new one within the same lock.
func (c *Controller) Update(ctx context.Context) (UpdateResult, error) {
	lock, err := lockfile.Acquire(c.Ctx.LockPath())
	if err != nil {
		return UpdateResult{}, err
	}
	defer lock.Release()

	ix, err := c.Index.Load()
	if err != nil {
		return UpdateResult{}, err
	}
	j, err := journal.Load(c.Ctx.JournalPath())
	if err != nil {
		return UpdateResult{}, err
	}

	var result UpdateResult

	for pkg := range j.Packages {
		currentTarget, _ := os.Readlink(c.Ctx.CurrentLink(pkg))
		if currentTarget == "" {
			result.Unchanged++
			continue
		}
		entry, ok := j.Installed(pkg, currentTarget)
		if !ok {
			result.Unchanged++
			continue
		}

		records, err := ix.Versions(pkg)
		if err != nil {
			result.Unchanged++
			continue
		}
		versions := make([]string, len(records))
		for i, r := range records {
			versions[i] = r.Version
		}
		maxVersion := resolve.Max(versions)

		if entry.Pinned || !resolve.Less(currentTarget, maxVersion) {
			result.Unchanged++
			continue
		}

		if err := c.removeLocked(j, pkg, currentTarget); err != nil {
			return result, err
		}
		if err := c.installStep(ctx, ix, j, pkg, maxVersion); err != nil {
			return result, err
		}
		if err := publishCurrent(c.Ctx, pkg, maxVersion); err != nil {
			return result, err
		}
		result.Updated++
	}

	return result, j.SaveAtomic(c.Ctx.JournalPath())
}

// removeLocked performs the removal half of an update step; the lock is
// already held by the caller. Update always installs a replacement version
// of pkg immediately afterwards, but the launcher is still reconciled
// through the shared-ownership check rather than dropped unconditionally,
// so an interruption between the two halves can't strand a binary that
// another installed version (of pkg or another package) still declares.
func (c *Controller) removeLocked(j *journal.Journal, pkg, version string) error {
	versionDir := c.Ctx.VersionDir(pkg, version)
	var binaries []string
	if m, err := manifest.Load(versionDir); err == nil {
		binaries = m.Metadata.Binaries
	}

	j.Forget(pkg, version)

	for _, binary := range binaries {
		if err := c.reconcileLauncher(j, pkg, binary); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(versionDir); err != nil {
		return errors.Wrapf(err, "removing %s", versionDir)
	}
	os.Remove(c.Ctx.CurrentLink(pkg))
	return nil
}

// OutdatedEntry is one package whose installed current version sorts below
// the index maximum.
type OutdatedEntry struct {
	Package string
	Current string
	Latest  string
}

// Outdated is a read-only diff of journal current versions against index
// maxima; it does not acquire the lock.
func (c *Controller) Outdated() ([]OutdatedEntry, error) {
	ix, err := c.Index.Load()
	if err != nil {
		return nil, err
	}
	j, err := journal.Load(c.Ctx.JournalPath())
	if err != nil {
		return nil, err
	}

	var out []OutdatedEntry
	for pkg := range j.Packages {
		current, _ := os.Readlink(c.Ctx.CurrentLink(pkg))
		if current == "" {
			continue
		}
		records, err := ix.Versions(pkg)
		if err != nil {
			continue
		}
		versions := make([]string, len(records))
		for i, r := range records {
			versions[i] = r.Version
		}
		latest := resolve.Max(versions)
		if resolve.Less(current, latest) {
			out = append(out, OutdatedEntry{Package: pkg, Current: current, Latest: latest})
		}
	}
	return out, nil
}

// Verify recomputes the stored artifact's manifest-file digest and
// compares it against the journal's recorded digest. Read-only; does not
// acquire the lock.
func (c *Controller) Verify(pkg, version string) error {
	j, err := journal.Load(c.Ctx.JournalPath())
	if err != nil {
		return err
	}
	entry, ok := j.Installed(pkg, version)
	if !ok {
		return herror.New(herror.PackageNotInstalled, pkg+"="+version)
	}
	if entry.Digest == journal.NoDigest {
		return nil
	}

	got, err := integrity.Digest(c.Ctx.VersionDir(pkg, version) + "/" + manifest.Path)
	if err != nil {
		return err
	}
	if got != entry.Digest {
		return herror.New(herror.VerificationFailed, pkg+"="+version)
	}
	return nil
}
