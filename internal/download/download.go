// Package download fetches artifact archives through the Process Executor,
// shelling out to curl rather than linking an HTTP client — grounded on
// golang-dep's preference for external VCS binaries over in-process
// protocol implementations (vcs_repo.go invokes git/hg/bzr/svn as
// subprocesses).
package download

import (
	"context"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/exec"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
)

// Helper is the external downloader binary name.
var Helper = "curl"

// Fetch downloads url into dest, failing with herror.Download on any
// non-zero exit or spawn failure.
func Fetch(ctx context.Context, url, dest string) error {
	argv := []string{Helper, "-fsSL", "-o", dest, url}
	if err := exec.Run(ctx, exec.Command{Argv: argv}); err != nil {
		return herror.Wrap(herror.Download, err, url)
	}
	return nil
}
