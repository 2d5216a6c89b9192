// Package sandbox builds and invokes the namespace-isolation helper command
// line for install and run actions. It does not reimplement any namespace
// primitive itself - it only assembles an argument vector and hands it to
// internal/exec, grounded on golang-dep's pattern of shelling out to
// external VCS binaries (vcs_repo.go) rather than linking against their
// internals.
package sandbox

import (
	"context"
	"os"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/exec"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/manifest"
)

// Helper is the external namespace-isolation binary name, resolved against
// PATH like any other Process Executor target.
var Helper = "bwrap"

const (
	mountPoint        = "/artifact"
	graphicsSocketDir = "/tmp/.X11-unix"
	deviceTree        = "/dev"
)

// standardROBinds are the read-only system directories needed to run shell
// utilities inside the sandbox.
var standardROBinds = []string{"/usr", "/bin", "/lib", "/lib64", "/etc"}

// args builds the common argv prefix shared by install and run invocations,
// from the default policy plus the manifest's sandbox profile overrides.
func args(profile manifest.Sandbox, artifactRoot string) []string {
	argv := []string{Helper, "--unshare-all", "--die-with-parent"}

	for _, d := range standardROBinds {
		if _, err := os.Stat(d); err == nil {
			argv = append(argv, "--ro-bind", d, d)
		}
	}

	argv = append(argv, "--bind", artifactRoot, mountPoint)
	argv = append(argv, "--chdir", mountPoint)

	if profile.Network {
		argv = append(argv, "--share-net")
	}

	if profile.Graphical {
		argv = append(argv, "--ro-bind", graphicsSocketDir, graphicsSocketDir)
		argv = append(argv, "--share-ipc")
		argv = append(argv, "--setenv", "DISPLAY", os.Getenv("DISPLAY"))
	}

	if profile.Device {
		argv = append(argv, "--dev-bind", deviceTree, deviceTree)
	}

	for _, p := range profile.ExtraPaths {
		argv = append(argv, "--bind", p, p)
	}

	return argv
}

// Install runs the manifest's install commands, joined with "&&", under
// "sh -c" inside the sandbox rooted at artifactRoot. An empty command list
// is a no-op success.
func Install(ctx context.Context, artifactRoot string, m *manifest.Manifest) error {
	if len(m.Install) == 0 {
		return nil
	}

	script := m.Install[0]
	for _, c := range m.Install[1:] {
		script += " && " + c
	}

	argv := args(m.Sandbox, artifactRoot)
	argv = append(argv, "sh", "-c", script)

	if err := exec.Run(ctx, exec.Command{Argv: argv}); err != nil {
		return herror.Wrap(herror.SandboxInstallFailed, err, m.Metadata.Name)
	}
	return nil
}

// Run executes binary at its fixed in-sandbox path, passing extraArgs,
// inside the sandbox rooted at artifactRoot. The child's exit status is
// propagated to the caller as a herror.SandboxRunFailed wrapping an
// *exec.ExitError, or returned directly on success.
func Run(ctx context.Context, artifactRoot string, m *manifest.Manifest, binary string, extraArgs []string) error {
	argv := args(m.Sandbox, artifactRoot)
	argv = append(argv, mountPoint+"/"+binary)
	argv = append(argv, extraArgs...)

	if err := exec.Run(ctx, exec.Command{Argv: argv}); err != nil {
		return herror.Wrap(herror.SandboxRunFailed, err, binary)
	}
	return nil
}
