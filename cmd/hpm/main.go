// Command hpm is the Hacker Package Manager CLI: a thin dispatcher over the
// internal/lifecycle.Controller, grounded on golang-dep's cmd/dep/main.go
// command-table pattern (a small command interface plus a flag.FlagSet per
// subcommand).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/hlog"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/lifecycle"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/paths"
)

// command is implemented by every hpm subcommand.
type command interface {
	Name() string
	Args() string
	ShortHelp() string
	Register(*flag.FlagSet)
	Run(ctx context.Context, c *lifecycle.Controller, log *hlog.Logger, args []string) error
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	commands := []command{
		&refreshCommand{},
		&installCommand{},
		&removeCommand{},
		&updateCommand{},
		&switchCommand{},
		&upgradeCommand{},
		&runCommand{},
		&buildCommand{},
		&searchCommand{},
		&infoCommand{},
		&listCommand{},
		&cleanCommand{},
		&pinCommand{},
		&unpinCommand{},
		&outdatedCommand{},
		&verifyCommand{},
		&depsCommand{},
	}

	log := hlog.New(stderr)

	if len(args) < 2 {
		usage(stderr, commands)
		return 1
	}

	name := args[1]
	for _, cmd := range commands {
		if cmd.Name() != name {
			continue
		}

		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		cmd.Register(fs)
		fs.Usage = func() {
			fmt.Fprintf(stderr, "usage: hpm %s %s\n", name, cmd.Args())
		}
		if err := fs.Parse(args[2:]); err != nil {
			return 1
		}

		pctx, err := paths.NewContext()
		if err != nil {
			log.Errf("%v", err)
			return 1
		}

		ctrl := lifecycle.New(pctx, hlog.New(stdout))

		if err := cmd.Run(context.Background(), ctrl, log, fs.Args()); err != nil {
			log.Errf("%v", describe(err))
			return 1
		}
		return 0
	}

	fmt.Fprintf(stderr, "hpm: %s: no such command\n", name)
	usage(stderr, commands)
	return 1
}

// describe unwraps a *herror.Error to its message; any other error prints
// as-is. Either way the handler never prints more than one line.
func describe(err error) string {
	if he, ok := err.(*herror.Error); ok {
		return he.Error()
	}
	return err.Error()
}

func usage(w io.Writer, commands []command) {
	fmt.Fprintln(w, "hpm is a package manager")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: hpm <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, cmd := range commands {
		fmt.Fprintf(tw, "\t%s\t%s\n", cmd.Name(), cmd.ShortHelp())
	}
	tw.Flush()
}
