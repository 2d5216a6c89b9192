package resolve

import (
	"testing"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/stretchr/testify/require"
)

type fakeSource map[string][]VersionEntry

func (f fakeSource) Versions(name string) ([]VersionEntry, error) {
	entries, ok := f[name]
	if !ok {
		return nil, herror.New(herror.PackageNotFound, name)
	}
	return entries, nil
}

func TestCompareVersions(t *testing.T) {
	require.True(t, Less("1.0", "1.1"))
	require.True(t, Less("1.2", "1.10"))
	require.True(t, Less("1.0", "1.0.1"))
	require.False(t, Less("1.0.1-beta", "1.0.1-beta"))
	require.Equal(t, 0, CompareVersions("1.0-beta", "1.0-beta"))
}

func TestSatisfies(t *testing.T) {
	require.True(t, Satisfies("", "9.9"))
	require.True(t, Satisfies(">=1.0", "1.0"))
	require.True(t, Satisfies(">=1.0", "1.1"))
	require.False(t, Satisfies(">1.0", "1.0"))
	require.True(t, Satisfies("=1.0", "1.0"))
	require.True(t, Satisfies("1.0", "1.0"))
	require.False(t, Satisfies("1.0", "1.0.0"))
}

func TestValidateVersion(t *testing.T) {
	require.NoError(t, ValidateVersion("1.2.3"))
	require.NoError(t, ValidateVersion("1.0"))
	require.NoError(t, ValidateVersion("1.0.1-beta"))
	require.Error(t, ValidateVersion(""))
	require.True(t, herror.Is(ValidateVersion(""), herror.ManifestInvalid))
	require.Error(t, ValidateVersion("1..0"))
}

func TestResolveFreshInstallNoDeps(t *testing.T) {
	src := fakeSource{
		"foo": {{Version: "1.0"}},
	}
	plan, err := Resolve(src, "foo", "")
	require.NoError(t, err)
	require.Equal(t, []Step{{Package: "foo", Version: "1.0"}}, plan)
}

func TestResolveSharedDependencyVersionConflict(t *testing.T) {
	// a depends on c>=1.0, b depends on c=1.0, c has 1.0 and 1.1.
	src := fakeSource{
		"a": {{Version: "1.0", Dependencies: map[string]string{"c": ">=1.0"}}},
		"b": {{Version: "1.0", Dependencies: map[string]string{"c": "=1.0"}}},
		"c": {{Version: "1.0"}, {Version: "1.1"}},
	}
	// Model `install a b` as a synthetic root depending on both.
	src["__root__"] = []VersionEntry{{
		Version:      "0",
		Dependencies: map[string]string{"a": "", "b": ""},
	}}

	_, err := Resolve(src, "__root__", "")
	require.Error(t, err)
	require.True(t, herror.Is(err, herror.VersionConflict))
}

func TestResolveDependencyCycle(t *testing.T) {
	src := fakeSource{
		"a": {{Version: "1.0", Dependencies: map[string]string{"b": ""}}},
		"b": {{Version: "1.0", Dependencies: map[string]string{"a": ""}}},
	}
	_, err := Resolve(src, "a", "")
	require.Error(t, err)
	require.True(t, herror.Is(err, herror.DependencyCycle))
}

func TestResolvePackageNotFound(t *testing.T) {
	src := fakeSource{}
	_, err := Resolve(src, "missing", "")
	require.Error(t, err)
	require.True(t, herror.Is(err, herror.PackageNotFound))
}

func TestResolveNoSatisfyingVersion(t *testing.T) {
	src := fakeSource{"foo": {{Version: "1.0"}}}
	_, err := Resolve(src, "foo", ">=2.0")
	require.Error(t, err)
	require.True(t, herror.Is(err, herror.NoSatisfyingVersion))
}

func TestResolveDiamondSharedDependencyConsistent(t *testing.T) {
	// a and b both depend on c=1.0: no conflict, c appears once, before a and b.
	src := fakeSource{
		"a": {{Version: "1.0", Dependencies: map[string]string{"c": "=1.0"}}},
		"b": {{Version: "1.0", Dependencies: map[string]string{"c": "=1.0"}}},
		"c": {{Version: "1.0"}},
	}
	src["__root__"] = []VersionEntry{{
		Version:      "0",
		Dependencies: map[string]string{"a": "", "b": ""},
	}}

	plan, err := Resolve(src, "__root__", "")
	require.NoError(t, err)

	index := map[string]int{}
	for i, step := range plan {
		index[step.Package] = i
	}
	require.Less(t, index["c"], index["a"])
	require.Less(t, index["c"], index["b"])
	// c appears exactly once.
	count := 0
	for _, step := range plan {
		if step.Package == "c" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestResolveDeterministic(t *testing.T) {
	src := fakeSource{
		"foo": {{Version: "1.0", Dependencies: map[string]string{"bar": "", "baz": ""}}},
		"bar": {{Version: "1.0"}},
		"baz": {{Version: "1.0"}},
	}
	plan1, err := Resolve(src, "foo", "")
	require.NoError(t, err)
	plan2, err := Resolve(src, "foo", "")
	require.NoError(t, err)
	require.Equal(t, plan1, plan2)
}
