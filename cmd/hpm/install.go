package main

import (
	"context"
	"flag"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
)

type installCommand struct{}

func (*installCommand) Name() string      { return "install" }
func (*installCommand) Args() string      { return "<package>[=<version>] ..." }
func (*installCommand) ShortHelp() string { return "resolve and install one or more packages" }
func (*installCommand) Register(*flag.FlagSet) {}

func (*installCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	if len(args) == 0 {
		return herror.New(herror.InvalidArguments, "install requires at least one package")
	}

	specs := make([]lifecycle.Spec, len(args))
	for i, a := range args {
		specs[i] = lifecycle.ParseSpec(a)
	}

	if err := c.Install(ctx, specs); err != nil {
		return err
	}

	for _, s := range specs {
		log.Logf("installed %s\n", s.Package)
	}
	return nil
}
