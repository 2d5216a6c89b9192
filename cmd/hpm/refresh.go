package main

import (
	"context"
	"flag"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
)

type refreshCommand struct{}

func (*refreshCommand) Name() string      { return "refresh" }
func (*refreshCommand) Args() string      { return "" }
func (*refreshCommand) ShortHelp() string { return "fetch the latest package index" }
func (*refreshCommand) Register(*flag.FlagSet) {}

func (*refreshCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	ix, err := c.Index.Refresh()
	if err != nil {
		return err
	}
	log.Logf("refreshed index: %d packages\n", len(ix.Packages))
	return nil
}
