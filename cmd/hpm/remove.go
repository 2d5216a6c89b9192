package main

import (
	"context"
	"flag"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
)

type removeCommand struct{}

func (*removeCommand) Name() string { return "remove" }
func (*removeCommand) Args() string { return "<package>[=<version>]" }
func (*removeCommand) ShortHelp() string {
	return "remove an installed package (all versions if none given)"
}
func (*removeCommand) Register(*flag.FlagSet) {}

func (*removeCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	if len(args) != 1 {
		return herror.New(herror.InvalidArguments, "remove requires exactly one package")
	}

	spec := lifecycle.ParseSpec(args[0])
	if err := c.Remove(spec); err != nil {
		return err
	}
	log.Logf("removed %s\n", args[0])
	return nil
}
