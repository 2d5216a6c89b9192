package resolve

import (
	"sort"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
)

// VersionSource is the read-only view of the index the resolver needs: the
// set of published versions for a package, each with its dependency
// requirement map. The resolver performs no I/O beyond calls to this
// interface.
type VersionSource interface {
	// Versions returns every published version of name along with its
	// dependency constraint map. It fails with herror.PackageNotFound if
	// name is absent from the index.
	Versions(name string) ([]VersionEntry, error)
}

// VersionEntry is the subset of an index version record the resolver reads.
type VersionEntry struct {
	Version      string
	Dependencies map[string]string // package name -> requirement string
}

// Step is one (package, chosen version) pair in the install plan.
type Step struct {
	Package string
	Version string
}

// frame is one stack entry of the iterative traversal. A frame that has not
// yet run its entry logic has entered == false; once entered, children
// holds the dependency list to push, in a fixed, sorted order.
type frame struct {
	pkg, req string
	entered  bool
	children []depReq
	next     int
}

type depReq struct {
	pkg, req string
}

// Resolve computes the install plan for root at rootReq against src. The
// output is in reverse-topological order: dependencies appear before their
// dependents, each package at most once.
func Resolve(src VersionSource, root, rootReq string) ([]Step, error) {
	chosen := map[string]string{}
	visiting := map[string]bool{}
	var output []Step

	stack := []*frame{{pkg: root, req: rootReq}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if !top.entered {
			top.entered = true

			if visiting[top.pkg] {
				return nil, herror.New(herror.DependencyCycle, top.pkg)
			}
			visiting[top.pkg] = true

			if v, ok := chosen[top.pkg]; ok {
				if !Satisfies(top.req, v) {
					return nil, herror.New(herror.VersionConflict, top.pkg+"="+v+" does not satisfy "+top.req)
				}
				delete(visiting, top.pkg)
				stack = stack[:len(stack)-1]
				continue
			}

			entries, err := src.Versions(top.pkg)
			if err != nil {
				return nil, err
			}

			var candidates []string
			byVersion := map[string]VersionEntry{}
			for _, e := range entries {
				byVersion[e.Version] = e
				if Satisfies(top.req, e.Version) {
					candidates = append(candidates, e.Version)
				}
			}
			if len(candidates) == 0 {
				return nil, herror.New(herror.NoSatisfyingVersion, top.pkg+" "+top.req)
			}

			v := Max(candidates)
			chosen[top.pkg] = v
			top.children = sortedDeps(byVersion[v].Dependencies)
		}

		if top.next < len(top.children) {
			d := top.children[top.next]
			top.next++
			stack = append(stack, &frame{pkg: d.pkg, req: d.req})
			continue
		}

		delete(visiting, top.pkg)
		output = append(output, Step{Package: top.pkg, Version: chosen[top.pkg]})
		stack = stack[:len(stack)-1]
	}

	return output, nil
}

func sortedDeps(m map[string]string) []depReq {
	out := make([]depReq, 0, len(m))
	for pkg, req := range m {
		out = append(out, depReq{pkg: pkg, req: req})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].pkg < out[j].pkg })
	return out
}
