package main

import (
	"context"
	"flag"
	"sort"
	"strings"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
)

type searchCommand struct{}

func (*searchCommand) Name() string      { return "search" }
func (*searchCommand) Args() string      { return "<query>" }
func (*searchCommand) ShortHelp() string { return "search the package index by name" }
func (*searchCommand) Register(*flag.FlagSet) {}

func (*searchCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	if len(args) != 1 {
		return herror.New(herror.InvalidArguments, "search requires a query")
	}
	query := strings.ToLower(args[0])

	ix, err := c.Index.Load()
	if err != nil {
		return err
	}

	var matches []string
	for name := range ix.Packages {
		if strings.Contains(strings.ToLower(name), query) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)

	if len(matches) == 0 {
		log.Logln("no matches")
		return nil
	}
	for _, name := range matches {
		entry, _ := ix.Entry(name)
		log.Logf("%s - %s\n", name, entry.Description)
	}
	return nil
}
