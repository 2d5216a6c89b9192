// Package herror defines the closed set of error kinds the engine can
// surface, and a single error type that carries one of them plus the
// underlying cause for logs. Callers match on Kind only; the wrapped cause
// is never inspected by control flow.
package herror

import "fmt"

// Kind identifies one of the error conditions enumerated by the engine's
// design. The set is closed: every *Error the engine returns carries one of
// these values, and kindText maps each of them to the text the top-level
// command handler prints as a one-line message (via Error).
type Kind uint8

const (
	InvalidArguments Kind = iota + 1
	IndexLoad
	JournalLoad
	LockHeld
	Download
	ChecksumMismatch
	ExtractionFailed
	SandboxInstallFailed
	SandboxRunFailed
	ManifestInvalid
	PackageNotFound
	PackageNotInstalled
	VersionNotFound
	VersionConflict
	DependencyCycle
	NoSatisfyingVersion
	AtomicPublishFailed
	PermissionError
	VerificationFailed
)

var kindText = map[Kind]string{
	InvalidArguments:     "invalid arguments",
	IndexLoad:            "failed to load package index",
	JournalLoad:          "failed to load installed-package state",
	LockHeld:             "another operation is already in progress",
	Download:             "download failed",
	ChecksumMismatch:     "checksum mismatch",
	ExtractionFailed:     "failed to extract artifact",
	SandboxInstallFailed: "sandboxed install script failed",
	SandboxRunFailed:     "sandboxed run failed",
	ManifestInvalid:      "invalid package manifest",
	PackageNotFound:      "package not found",
	PackageNotInstalled:  "package not installed",
	VersionNotFound:      "version not found",
	VersionConflict:      "version conflict",
	DependencyCycle:      "dependency cycle detected",
	NoSatisfyingVersion:  "no version satisfies the requirement",
	AtomicPublishFailed:  "failed to publish atomically",
	PermissionError:      "permission error",
	VerificationFailed:   "verification failed",
}

// Error is the engine's single error type. It is intentionally flat: a Kind
// and a human-readable detail, plus an optional wrapped cause kept only for
// logging. Nothing downstream unwraps it to recover parsed state.
type Error struct {
	Kind   Kind
	Detail string
	Cause  error
}

func New(k Kind, detail string) *Error {
	return &Error{Kind: k, Detail: detail}
}

func Wrap(k Kind, cause error, detail string) *Error {
	return &Error{Kind: k, Detail: detail, Cause: cause}
}

func (e *Error) Error() string {
	text := kindText[e.Kind]
	if e.Detail != "" {
		text = fmt.Sprintf("%s: %s", text, e.Detail)
	}
	if e.Cause != nil {
		text = fmt.Sprintf("%s (%v)", text, e.Cause)
	}
	return text
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether err is an *Error carrying the given Kind. Only err
// itself is examined; errors it wraps are not searched.
func Is(err error, k Kind) bool {
	he, ok := err.(*Error)
	return ok && he.Kind == k
}
