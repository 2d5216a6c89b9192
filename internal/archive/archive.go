// Package archive creates and extracts the compressed tar-style container
// used for artifact archives and build outputs. Directory-to-directory
// copies (used when staging a build's payload tree) go through the
// vendored github.com/termie/go-shutil CopyTree helper rather than a
// hand-rolled walk, grounded on how golang-dep's vcs_source.go leans on
// go-shutil for tree copies during checkout staging.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
	"github.com/termie/go-shutil"
)

// Extract unpacks the gzip-compressed tar archive at archivePath into dest,
// which must already exist. It fails with herror.ExtractionFailed on any
// read, decode, or write error, leaving whatever partial content was
// written — the caller (the install protocol) is responsible for treating
// dest as disposable staging.
func Extract(archivePath, dest string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return herror.Wrap(herror.ExtractionFailed, err, "opening "+archivePath)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return herror.Wrap(herror.ExtractionFailed, err, "reading gzip header")
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return herror.Wrap(herror.ExtractionFailed, err, "reading tar entry")
		}

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return herror.Wrap(herror.ExtractionFailed, err, hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)|0o700); err != nil {
				return herror.Wrap(herror.ExtractionFailed, err, "creating "+target)
			}
		case tar.TypeReg:
			if err := extractFile(tr, target, os.FileMode(hdr.Mode)); err != nil {
				return herror.Wrap(herror.ExtractionFailed, err, "writing "+target)
			}
		case tar.TypeSymlink:
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return herror.Wrap(herror.ExtractionFailed, err, "symlinking "+target)
			}
		}
	}
}

func extractFile(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, r)
	return err
}

// safeJoin joins dest and name, rejecting any entry that would escape dest
// via ".." traversal.
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, name)
	if target != dest && !strings.HasPrefix(target, dest+string(filepath.Separator)) {
		return "", errors.Errorf("tar entry %q escapes destination", name)
	}
	return target, nil
}

// Create writes a gzip-compressed tar archive at archivePath containing the
// contents of srcDir. Entries are written in the lexical order godirwalk
// gives each directory's children, so two builds of an unchanged payload
// tree produce byte-identical archives.
func Create(srcDir, archivePath string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return errors.Wrapf(err, "creating %s", archivePath)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	defer gz.Close()

	tw := tar.NewWriter(gz)
	defer tw.Close()

	return godirwalk.Walk(srcDir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			rel, err := filepath.Rel(srcDir, path)
			if err != nil {
				return err
			}
			if rel == "." {
				return nil
			}

			info, err := os.Lstat(path)
			if err != nil {
				return err
			}

			hdr, err := tar.FileInfoHeader(info, "")
			if err != nil {
				return err
			}
			hdr.Name = filepath.ToSlash(rel)

			if err := tw.WriteHeader(hdr); err != nil {
				return err
			}
			if info.Mode().IsRegular() {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				if _, err := io.Copy(tw, f); err != nil {
					return err
				}
			}
			return nil
		},
	})
}

// CopyTree recursively copies src to dst, used when staging a payload tree
// for a build. Thin wrapper so the rest of the codebase never imports
// go-shutil directly.
func CopyTree(src, dst string) error {
	if err := shutil.CopyTree(src, dst, nil); err != nil {
		return errors.Wrapf(err, "copying %s to %s", src, dst)
	}
	return nil
}
