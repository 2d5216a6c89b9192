package main

import (
	"context"
	"flag"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
)

type verifyCommand struct{}

func (*verifyCommand) Name() string      { return "verify" }
func (*verifyCommand) Args() string      { return "<package>=<version>" }
func (*verifyCommand) ShortHelp() string { return "recheck an installed version's recorded digest" }
func (*verifyCommand) Register(*flag.FlagSet) {}

func (*verifyCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	spec, err := requireVersionedSpec(args)
	if err != nil {
		return err
	}
	if err := c.Verify(spec.Package, spec.Version); err != nil {
		return err
	}
	log.Logf("%s=%s verified\n", spec.Package, spec.Version)
	return nil
}

// depsCommand is distinct from install: it prints the resolved plan without
// installing anything, per SPEC_FULL.md's supplemented "hpm deps" feature.
type depsCommand struct{}

func (*depsCommand) Name() string      { return "deps" }
func (*depsCommand) Args() string      { return "<package>[=<version>]" }
func (*depsCommand) ShortHelp() string { return "print the resolved install plan without installing" }
func (*depsCommand) Register(*flag.FlagSet) {}

func (*depsCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	if len(args) != 1 {
		return herror.New(herror.InvalidArguments, "deps requires exactly one package")
	}

	plan, err := c.Plan(lifecycle.ParseSpec(args[0]))
	if err != nil {
		return err
	}
	for _, step := range plan {
		log.Logf("%s=%s\n", step.Package, step.Version)
	}
	return nil
}
