package main

import (
	"context"
	"flag"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
)

type switchCommand struct{}

func (*switchCommand) Name() string      { return "switch" }
func (*switchCommand) Args() string      { return "<package>=<version>" }
func (*switchCommand) ShortHelp() string { return "repoint a package's current version" }
func (*switchCommand) Register(*flag.FlagSet) {}

func (*switchCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	if len(args) != 1 {
		return herror.New(herror.InvalidArguments, "switch requires <package>=<version>")
	}
	spec := lifecycle.ParseSpec(args[0])
	if spec.Version == "" {
		return herror.New(herror.InvalidArguments, "switch requires an explicit version")
	}

	if err := c.Switch(spec.Package, spec.Version); err != nil {
		return err
	}
	log.Logf("switched %s to %s\n", spec.Package, spec.Version)
	return nil
}
