package main

import (
	"context"
	"flag"
	"os"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/builder"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
)

// buildCommand assembles manifest.toml and payload/ in the current
// directory into a named archive, for publishing to the index.
type buildCommand struct {
	destDir string
}

func (*buildCommand) Name() string { return "build" }
func (*buildCommand) Args() string { return "<name>" }
func (*buildCommand) ShortHelp() string {
	return "assemble manifest.toml and payload/ into an artifact archive"
}

func (b *buildCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&b.destDir, "out", ".", "directory to write the archive into")
}

func (b *buildCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	if len(args) != 1 {
		return herror.New(herror.InvalidArguments, "build requires an archive name")
	}

	srcDir, err := os.Getwd()
	if err != nil {
		return err
	}

	archivePath, err := builder.Build(srcDir, b.destDir, args[0])
	if err != nil {
		return err
	}
	log.Logf("built %s\n", archivePath)
	return nil
}
