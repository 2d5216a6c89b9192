package main

import (
	"context"
	"flag"
	"sort"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/resolve"
)

type infoCommand struct{}

func (*infoCommand) Name() string      { return "info" }
func (*infoCommand) Args() string      { return "<package>" }
func (*infoCommand) ShortHelp() string { return "print index metadata for a package" }
func (*infoCommand) Register(*flag.FlagSet) {}

func (*infoCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	if len(args) != 1 {
		return herror.New(herror.InvalidArguments, "info requires a package name")
	}

	ix, err := c.Index.Load()
	if err != nil {
		return err
	}
	entry, ok := ix.Entry(args[0])
	if !ok {
		return herror.New(herror.PackageNotFound, args[0])
	}

	versions := make([]string, len(entry.Versions))
	for i, v := range entry.Versions {
		versions[i] = v.Version
	}
	sort.Slice(versions, func(i, j int) bool { return resolve.Less(versions[i], versions[j]) })

	log.Logf("%s\n", args[0])
	log.Logf("  author:      %s\n", entry.Author)
	log.Logf("  license:     %s\n", entry.License)
	log.Logf("  description: %s\n", entry.Description)
	log.Logf("  versions:    %s\n", versions)
	return nil
}
