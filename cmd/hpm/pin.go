package main

import (
	"context"
	"flag"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
)

type pinCommand struct{}

func (*pinCommand) Name() string      { return "pin" }
func (*pinCommand) Args() string      { return "<package>=<version>" }
func (*pinCommand) ShortHelp() string { return "exclude a version from update" }
func (*pinCommand) Register(*flag.FlagSet) {}

func (*pinCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	spec, err := requireVersionedSpec(args)
	if err != nil {
		return err
	}
	if err := c.Pin(spec.Package, spec.Version); err != nil {
		return err
	}
	log.Logf("pinned %s=%s\n", spec.Package, spec.Version)
	return nil
}

type unpinCommand struct{}

func (*unpinCommand) Name() string      { return "unpin" }
func (*unpinCommand) Args() string      { return "<package>=<version>" }
func (*unpinCommand) ShortHelp() string { return "allow a version to be updated again" }
func (*unpinCommand) Register(*flag.FlagSet) {}

func (*unpinCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	spec, err := requireVersionedSpec(args)
	if err != nil {
		return err
	}
	if err := c.Unpin(spec.Package, spec.Version); err != nil {
		return err
	}
	log.Logf("unpinned %s=%s\n", spec.Package, spec.Version)
	return nil
}

func requireVersionedSpec(args []string) (lifecycle.Spec, error) {
	if len(args) != 1 {
		return lifecycle.Spec{}, herror.New(herror.InvalidArguments, "requires <package>=<version>")
	}
	spec := lifecycle.ParseSpec(args[0])
	if spec.Version == "" {
		return lifecycle.Spec{}, herror.New(herror.InvalidArguments, "requires an explicit version")
	}
	return spec, nil
}
