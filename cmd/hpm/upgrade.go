package main

import (
	"context"
	"flag"
	"path/filepath"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/sandbox"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/selfupdate"
)

// upgradeCommand replaces the engine and sandbox-helper binaries in place.
// Deliberately does not go through Controller.Install: this path is
// independent of the package store lock.
type upgradeCommand struct{}

func (*upgradeCommand) Name() string      { return "upgrade" }
func (*upgradeCommand) Args() string      { return "" }
func (*upgradeCommand) ShortHelp() string { return "upgrade the engine itself" }
func (*upgradeCommand) Register(*flag.FlagSet) {}

func (*upgradeCommand) Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error {
	result, err := selfupdate.Upgrade(ctx, selfupdate.Targets{
		EnginePath:        lifecycle.EngineExe,
		SandboxHelperPath: filepath.Join(filepath.Dir(lifecycle.EngineExe), sandbox.Helper),
		VersionFile:       c.Ctx.VersionFile(),
	})
	if err != nil {
		return err
	}
	if !result.Upgraded {
		log.Logf("already at %s\n", result.ToVersion)
		return nil
	}
	log.Logf("upgraded %s -> %s\n", result.FromVersion, result.ToVersion)
	return nil
}
