// Package resolve implements the dependency resolver: deterministic
// resolution of a root package and requirement into a reverse-topological
// install plan. The solving style — an explicit stack standing in for
// recursion, with a visiting set for cycle detection — is grounded on
// golang-dep's gps/solver.go, replacing its recursive descent with an
// iterative, depth-bounded variant.
package resolve

import (
	"strconv"
	"strings"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/Masterminds/semver"
)

// CompareVersions implements the segment-wise version ordering: split on
// '.' and '-', compare segments left to right (numerically when both parse
// as non-negative integers, lexicographically otherwise), with a shorter
// prefix sorting below a longer one. It returns -1, 0, or 1.
func CompareVersions(a, b string) int {
	as := splitSegments(a)
	bs := splitSegments(b)

	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}

	for i := 0; i < n; i++ {
		if c := compareSegment(as[i], bs[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}

// Less reports whether a sorts strictly below b.
func Less(a, b string) bool { return CompareVersions(a, b) < 0 }

func splitSegments(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool { return r == '.' || r == '-' })
}

func compareSegment(a, b string) int {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

// Max returns the greatest version in versions under CompareVersions. It
// panics if versions is empty; callers are expected to have already
// checked for that (an empty candidate set is NoSatisfyingVersion, not a
// programming error elsewhere).
func Max(versions []string) string {
	best := versions[0]
	for _, v := range versions[1:] {
		if Less(best, v) {
			best = v
		}
	}
	return best
}

// ValidateVersion rejects malformed version strings at index-parse time.
// The segment-wise order in CompareVersions is the engine's ordering
// contract and stays primary - this only catches garbage early. A version
// that parses as strict semver is accepted outright; otherwise it must not
// start or end with a '.'/'-' separator, or contain two in a row (either
// would collapse into a silently-dropped empty segment under the
// segment-wise comparator).
func ValidateVersion(v string) error {
	if v == "" {
		return herror.New(herror.ManifestInvalid, "empty version string")
	}
	if _, err := semver.NewVersion(v); err == nil {
		return nil
	}

	isSep := func(r rune) bool { return r == '.' || r == '-' }
	if isSep(rune(v[0])) || isSep(rune(v[len(v)-1])) {
		return herror.New(herror.ManifestInvalid, "malformed version "+v)
	}
	prevSep := false
	for _, r := range v {
		if isSep(r) {
			if prevSep {
				return herror.New(herror.ManifestInvalid, "malformed version "+v)
			}
			prevSep = true
		} else {
			prevSep = false
		}
	}
	return nil
}

// Satisfies reports whether version meets requirement, per the grammar:
// empty (any), "=X"/"X" (exact), ">X", ">=X".
func Satisfies(requirement, version string) bool {
	switch {
	case requirement == "":
		return true
	case strings.HasPrefix(requirement, ">="):
		return CompareVersions(version, requirement[2:]) >= 0
	case strings.HasPrefix(requirement, ">"):
		return CompareVersions(version, requirement[1:]) > 0
	case strings.HasPrefix(requirement, "="):
		return version == requirement[1:]
	default:
		return version == requirement
	}
}
