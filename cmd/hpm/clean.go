package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
	"github.com/pkg/errors"
)

// cleanCommand removes cached downloaded archives and the cached index
// document. It never touches the store or journal - a clean cache forces
// the next install to re-download, nothing more.
type cleanCommand struct{}

func (*cleanCommand) Name() string      { return "clean" }
func (*cleanCommand) Args() string      { return "" }
func (*cleanCommand) ShortHelp() string { return "clear the download and index cache" }
func (*cleanCommand) Register(*flag.FlagSet) {}

func (*cleanCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	entries, err := os.ReadDir(c.Ctx.Cache)
	if err != nil {
		if os.IsNotExist(err) {
			log.Logln("cache already empty")
			return nil
		}
		return errors.Wrapf(err, "reading %s", c.Ctx.Cache)
	}

	for _, e := range entries {
		p := filepath.Join(c.Ctx.Cache, e.Name())
		if err := os.RemoveAll(p); err != nil {
			return errors.Wrapf(err, "removing %s", p)
		}
	}

	log.Logf("removed %d cache entries\n", len(entries))
	return nil
}
