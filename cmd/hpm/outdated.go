package main

import (
	"context"
	"flag"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
)

type outdatedCommand struct{}

func (*outdatedCommand) Name() string      { return "outdated" }
func (*outdatedCommand) Args() string      { return "" }
func (*outdatedCommand) ShortHelp() string { return "list installed packages with a newer version available" }
func (*outdatedCommand) Register(*flag.FlagSet) {}

func (*outdatedCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	entries, err := c.Outdated()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		log.Logln("everything is up to date")
		return nil
	}
	for _, e := range entries {
		log.Logf("%s: %s -> %s\n", e.Package, e.Current, e.Latest)
	}
	return nil
}
