package main

import (
	"context"
	"flag"
	"os"
	"sort"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/journal"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
)

type listCommand struct{}

func (*listCommand) Name() string      { return "list" }
func (*listCommand) Args() string      { return "" }
func (*listCommand) ShortHelp() string { return "list installed packages and versions" }
func (*listCommand) Register(*flag.FlagSet) {}

func (*listCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	j, err := journal.Load(c.Ctx.JournalPath())
	if err != nil {
		return err
	}

	names := make([]string, 0, len(j.Packages))
	for name := range j.Packages {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		log.Logln("no packages installed")
		return nil
	}

	for _, name := range names {
		current, _ := os.Readlink(c.Ctx.CurrentLink(name))

		versions := j.InstalledVersions(name)
		sort.Strings(versions)
		for _, v := range versions {
			entry, _ := j.Installed(name, v)
			marker := " "
			if v == current {
				marker = "*"
			}
			pinned := ""
			if entry.Pinned {
				pinned = " (pinned)"
			}
			log.Logf("%s %s=%s%s\n", marker, name, v, pinned)
		}
	}
	return nil
}
