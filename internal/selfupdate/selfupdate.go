// Package selfupdate implements the engine's own upgrade path: fetching a
// remote version marker, comparing it against the locally recorded engine
// version, and replacing the engine and sandbox-helper binaries in place.
// It is deliberately independent of internal/lockfile: a self-upgrade does
// not touch the package store or journal, so it never contends with an
// in-flight install/remove/update. Grounded on the download/verify/
// atomic-publish shape already used by internal/lifecycle, reused here for
// a different pair of artifacts.
package selfupdate

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/download"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/resolve"
	"github.com/pkg/errors"
)

// VersionURL serves the plain-text current engine version. A var, not a
// const, so tests can point it at an httptest server.
var VersionURL = "https://index.hpm.example/engine-version.txt"

// EngineURL and SandboxHelperURL serve the replacement binaries.
var (
	EngineURL        = "https://index.hpm.example/hpm"
	SandboxHelperURL = "https://index.hpm.example/bwrap"
)

// Targets is where the downloaded binaries are installed.
type Targets struct {
	EnginePath        string
	SandboxHelperPath string
	VersionFile       string
}

// Client fetches the remote version marker. Exposed for tests.
var Client = &http.Client{Timeout: 10 * time.Second}

// Result reports what Upgrade did.
type Result struct {
	Upgraded    bool
	FromVersion string
	ToVersion   string
}

// CurrentVersion reads the locally recorded engine version. A missing file
// reads as the empty string, which always compares older than any published
// version.
func CurrentVersion(versionFile string) (string, error) {
	data, err := os.ReadFile(versionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "reading %s", versionFile)
	}
	return strings.TrimSpace(string(data)), nil
}

func fetchRemoteVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, VersionURL, nil)
	if err != nil {
		return "", errors.Wrap(err, "building version request")
	}
	resp, err := Client.Do(req)
	if err != nil {
		return "", herror.Wrap(herror.Download, err, "fetching engine version")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", herror.New(herror.Download, "unexpected status fetching engine version: "+resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", herror.Wrap(herror.Download, err, "reading engine version response")
	}
	return strings.TrimSpace(string(data)), nil
}

// Upgrade compares the remote engine version against the local one and, if
// strictly newer, downloads the engine and sandbox-helper binaries into
// their canonical paths and records the new version atomically.
func Upgrade(ctx context.Context, t Targets) (Result, error) {
	current, err := CurrentVersion(t.VersionFile)
	if err != nil {
		return Result{}, err
	}

	latest, err := fetchRemoteVersion(ctx)
	if err != nil {
		return Result{}, err
	}

	if current != "" && !resolve.Less(current, latest) {
		return Result{Upgraded: false, FromVersion: current, ToVersion: current}, nil
	}

	tmpEngine := t.EnginePath + ".tmp"
	if err := download.Fetch(ctx, EngineURL, tmpEngine); err != nil {
		return Result{}, err
	}
	if err := os.Chmod(tmpEngine, 0o755); err != nil {
		return Result{}, herror.Wrap(herror.PermissionError, err, tmpEngine)
	}
	if err := os.Rename(tmpEngine, t.EnginePath); err != nil {
		return Result{}, herror.Wrap(herror.AtomicPublishFailed, err, "publishing "+t.EnginePath)
	}

	tmpHelper := t.SandboxHelperPath + ".tmp"
	if err := download.Fetch(ctx, SandboxHelperURL, tmpHelper); err != nil {
		return Result{}, err
	}
	if err := os.Chmod(tmpHelper, 0o755); err != nil {
		return Result{}, herror.Wrap(herror.PermissionError, err, tmpHelper)
	}
	if err := os.Rename(tmpHelper, t.SandboxHelperPath); err != nil {
		return Result{}, herror.Wrap(herror.AtomicPublishFailed, err, "publishing "+t.SandboxHelperPath)
	}

	tmpVersion := t.VersionFile + ".tmp"
	if err := os.WriteFile(tmpVersion, []byte(latest+"\n"), 0o644); err != nil {
		return Result{}, errors.Wrapf(err, "writing %s", tmpVersion)
	}
	if err := os.Rename(tmpVersion, t.VersionFile); err != nil {
		return Result{}, herror.Wrap(herror.AtomicPublishFailed, err, "renaming "+tmpVersion+" to "+t.VersionFile)
	}

	return Result{Upgraded: true, FromVersion: current, ToVersion: latest}, nil
}
