package main

import (
	"context"
	"flag"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
)

type updateCommand struct{}

func (*updateCommand) Name() string      { return "update" }
func (*updateCommand) Args() string      { return "" }
func (*updateCommand) ShortHelp() string { return "update every installed package not pinned" }
func (*updateCommand) Register(*flag.FlagSet) {}

func (*updateCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	result, err := c.Update(ctx)
	if err != nil {
		return err
	}
	log.Logf("updated %d, current %d\n", result.Updated, result.Unchanged)
	return nil
}
