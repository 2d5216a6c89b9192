// Package builder implements the build path: assembling a manifest and a
// payload tree into a compressed artifact archive. Only these two inputs
// are read; there is no launcher-template input, and a missing payload
// tree is not an error (the archive then holds just the manifest). The
// fixed-name input convention is grounded on the retrieved pack's
// holo-build entry, which assembles a package from the same kind of
// conventional inputs (package.toml, a files/ payload tree) before handing
// them to a format-specific writer; here the "format" is always the
// engine's own tar+gzip artifact container. The archive's entry order comes
// from archive.Create's own godirwalk-ordered walk; entry headers carry the
// modification times of the freshly staged files, so two builds made at
// different times do not produce identical bytes. verifyPayloadTree below
// uses the same library only to reject an unreadable payload early.
package builder

import (
	"os"
	"path/filepath"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/archive"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/manifest"
	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
)

const (
	// ManifestInput is the conventional manifest file an `hpm build`
	// invocation reads from the working directory.
	ManifestInput = "manifest.toml"
	// PayloadInput is the conventional payload tree.
	PayloadInput = "payload"
)

// Build assembles the manifest and payload tree rooted at srcDir into a
// compressed archive named <name>.archive in destDir.
func Build(srcDir, destDir, name string) (string, error) {
	manifestPath := filepath.Join(srcDir, ManifestInput)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return "", herror.Wrap(herror.ManifestInvalid, err, "reading "+manifestPath)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return "", err
	}

	payloadDir := filepath.Join(srcDir, PayloadInput)
	if err := verifyPayloadTree(payloadDir); err != nil {
		return "", err
	}

	stage, err := os.MkdirTemp("", "hpm-build-")
	if err != nil {
		return "", errors.Wrap(err, "creating build staging directory")
	}
	defer os.RemoveAll(stage)

	// CopyTree requires a destination that does not exist yet, so the
	// archive root is a fresh directory inside the staging area.
	root := filepath.Join(stage, "root")
	if _, err := os.Stat(payloadDir); err == nil {
		if err := archive.CopyTree(payloadDir, root); err != nil {
			return "", err
		}
	} else if err := os.MkdirAll(root, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s", root)
	}
	if err := manifest.Write(root, m); err != nil {
		return "", err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s", destDir)
	}

	archivePath := filepath.Join(destDir, name+".archive")
	if err := archive.Create(root, archivePath); err != nil {
		return "", err
	}
	return archivePath, nil
}

// verifyPayloadTree walks the payload tree, rejecting anything that cannot
// be read, so a partially-unreadable payload fails the build rather than
// silently shipping an incomplete archive. Ordering doesn't matter here;
// archive.Create is what fixes the resulting archive's entry order.
func verifyPayloadTree(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	return godirwalk.Walk(dir, &godirwalk.Options{
		Unsorted: false,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsRegular() {
				if _, err := os.Open(path); err != nil {
					return errors.Wrapf(err, "reading payload file %s", path)
				}
			}
			return nil
		},
	})
}
