package main

import (
	"context"
	"flag"
	"os"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/journal"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/manifest"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/sandbox"
)

// runCommand launches an installed binary sandboxed, either at the package's
// current version or at an explicitly given installed version. Running an explicit
// version never repoints current - that is switch's job alone.
type runCommand struct{}

func (*runCommand) Name() string      { return "run" }
func (*runCommand) Args() string      { return "<package>[=<version>] <binary> [args...]" }
func (*runCommand) ShortHelp() string { return "run an installed package's binary sandboxed" }
func (*runCommand) Register(*flag.FlagSet) {}

func (*runCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	if len(args) < 2 {
		return herror.New(herror.InvalidArguments, "run requires <package>[=<version>] <binary> [args...]")
	}

	spec := lifecycle.ParseSpec(args[0])
	binary := args[1]
	extra := args[2:]

	version := spec.Version
	if version == "" {
		link, err := os.Readlink(c.Ctx.CurrentLink(spec.Package))
		if err != nil {
			return herror.Wrap(herror.PackageNotInstalled, err, spec.Package)
		}
		version = link
	}

	j, err := journal.Load(c.Ctx.JournalPath())
	if err != nil {
		return err
	}
	if _, ok := j.Installed(spec.Package, version); !ok {
		return herror.New(herror.VersionNotFound, spec.Package+"="+version)
	}

	versionDir := c.Ctx.VersionDir(spec.Package, version)
	m, err := manifest.Load(versionDir)
	if err != nil {
		return err
	}

	return sandbox.Run(ctx, versionDir, m, binary, extra)
}
