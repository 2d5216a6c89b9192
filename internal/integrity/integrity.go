// Package integrity streams files through SHA-256 and checks them against
// an expected digest, grounded on HashInputs helper in
// hash.go, which reduces a set of inputs to a single sha256.Sum via a
// running hash.Hash rather than buffering the whole input.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/pkg/errors"
)

// chunkSize bounds how much of the file is held in memory at once while
// hashing.
const chunkSize = 32 * 1024

// Digest returns the lowercase hex SHA-256 digest of the file at path.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", errors.Wrapf(err, "hashing %s", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify fails with herror.ChecksumMismatch if the file at path does not
// hash to expected. It has no side effects on mismatch: the caller decides
// whether to delete the file.
func Verify(path, expected string) error {
	got, err := Digest(path)
	if err != nil {
		return err
	}
	if got != expected {
		return herror.New(herror.ChecksumMismatch, path+": expected "+expected+", got "+got)
	}
	return nil
}
