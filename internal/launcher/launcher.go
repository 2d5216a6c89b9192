// Package launcher writes and removes the small shell scripts published on
// PATH that re-enter the engine's run path, grounded on golang-dep's own
// template-driven file-writing helpers (txn_writer.go writes files, then
// chmods or renames them into place) generalized here to a fixed two-line
// script body instead of a manifest/lock document.
package launcher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
)

const scriptTemplate = "#!/bin/sh\nexec %s run %s %s \"$@\"\n"

// Write creates or overwrites the launcher script for binary, dispatching
// through engineExe's run subcommand for pkg.
func Write(binDir, engineExe, pkg, binary string) error {
	path := filepath.Join(binDir, binary)
	body := fmt.Sprintf(scriptTemplate, engineExe, pkg, binary)

	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		return herror.Wrap(herror.PermissionError, err, "writing "+path)
	}
	if err := os.Chmod(path, 0o755); err != nil {
		return herror.Wrap(herror.PermissionError, err, "chmod "+path)
	}
	return nil
}

// Remove deletes the launcher script for binary, if present.
func Remove(binDir, binary string) error {
	path := filepath.Join(binDir, binary)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return herror.Wrap(herror.PermissionError, err, "removing "+path)
	}
	return nil
}
