// Package pkgmgr detects which Python package manager a project uses and
// adapts install/remove/list operations to it.
//
// Detection is marker-based with a fixed precedence: uv.lock, then
// poetry.lock, then Pipfile, then a pyproject.toml with the uv binary on
// PATH, then the pip fallback. Lockfiles outrank the binary probe so an
// installed-but-unused uv never hijacks a poetry or pipenv project.
package pkgmgr

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fastman-labs/fastman/internal/logging"
	"github.com/fastman-labs/fastman/internal/runner"
)

// Wall-clock budgets by operation class.
const (
	QueryTimeout   = 60 * time.Second
	InstallTimeout = 10 * time.Minute
)

// Descriptor describes one supported package manager.
type Descriptor struct {
	// Name is the manager identifier: uv, poetry, pipenv, or pip.
	Name string
	// RunPrefix is prepended to project-script invocations, e.g.
	// ["uv", "run"]. Empty for pip, which runs scripts directly.
	RunPrefix []string

	installArgv func(pkgs []string) []string
	removeArgv  func(pkgs []string) []string
	listArgv    []string
}

// RunArgv prepends the manager's run prefix to a project-level command line.
func (d Descriptor) RunArgv(argv ...string) []string {
	out := make([]string, 0, len(d.RunPrefix)+len(argv))
	out = append(out, d.RunPrefix...)
	return append(out, argv...)
}

var (
	uv = Descriptor{
		Name:      "uv",
		RunPrefix: []string{"uv", "run"},
		installArgv: func(pkgs []string) []string {
			return append([]string{"uv", "add"}, pkgs...)
		},
		removeArgv: func(pkgs []string) []string {
			return append([]string{"uv", "remove"}, pkgs...)
		},
		listArgv: []string{"uv", "pip", "list"},
	}
	poetry = Descriptor{
		Name:      "poetry",
		RunPrefix: []string{"poetry", "run"},
		installArgv: func(pkgs []string) []string {
			return append([]string{"poetry", "add"}, pkgs...)
		},
		removeArgv: func(pkgs []string) []string {
			return append([]string{"poetry", "remove"}, pkgs...)
		},
		listArgv: []string{"poetry", "show"},
	}
	pipenv = Descriptor{
		Name:      "pipenv",
		RunPrefix: []string{"pipenv", "run"},
		installArgv: func(pkgs []string) []string {
			return append([]string{"pipenv", "install"}, pkgs...)
		},
		removeArgv: func(pkgs []string) []string {
			return append([]string{"pipenv", "uninstall"}, pkgs...)
		},
		listArgv: []string{"pipenv", "run", "pip", "list"},
	}
	pip = Descriptor{
		Name:      "pip",
		RunPrefix: nil,
		installArgv: func(pkgs []string) []string {
			return append([]string{Interpreter(), "-m", "pip", "install"}, pkgs...)
		},
		removeArgv: func(pkgs []string) []string {
			return append([]string{Interpreter(), "-m", "pip", "uninstall", "-y"}, pkgs...)
		},
		listArgv: []string{"python3", "-m", "pip", "list"},
	}
)

// ByName returns the descriptor for a manager name, falling back to pip for
// anything unrecognized.
func ByName(name string) Descriptor {
	switch name {
	case "uv":
		return uv
	case "poetry":
		return poetry
	case "pipenv":
		return pipenv
	default:
		return pip
	}
}

// Interpreter returns the Python interpreter to use for direct invocations.
func Interpreter() string {
	if runner.LookPath("python3") {
		return "python3"
	}
	return "python"
}

// Detect probes the project root for package-manager markers and returns
// the winning descriptor.
func Detect(root string) Descriptor {
	return detect(root, func() bool { return runner.LookPath("uv") })
}

func detect(root string, hasUV func() bool) Descriptor {
	exists := func(name string) bool {
		_, err := os.Stat(filepath.Join(root, name))
		return err == nil
	}

	var d Descriptor
	switch {
	case exists("uv.lock"):
		d = uv
	case exists("poetry.lock"):
		d = poetry
	case exists("Pipfile"):
		d = pipenv
	case exists("pyproject.toml") && hasUV():
		d = uv
	default:
		d = pip
	}

	logging.Debug().Str("manager", d.Name).Str("root", root).Msg("detected package manager")
	return d
}

// Adapter runs package operations for one project with its detected manager.
type Adapter struct {
	Desc Descriptor
	Dir  string
}

// Install adds packages to the project. No-op for an empty list.
func (a *Adapter) Install(ctx context.Context, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	_, err := runner.Run(ctx, a.Desc.installArgv(pkgs), runner.Options{
		Timeout: InstallTimeout,
		Dir:     a.Dir,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	})
	return err
}

// Remove uninstalls packages from the project.
func (a *Adapter) Remove(ctx context.Context, pkgs []string) error {
	if len(pkgs) == 0 {
		return nil
	}
	_, err := runner.Run(ctx, a.Desc.removeArgv(pkgs), runner.Options{
		Timeout: InstallTimeout,
		Dir:     a.Dir,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	})
	return err
}

// List returns the manager's installed-package listing.
func (a *Adapter) List(ctx context.Context) (*runner.Outcome, error) {
	return runner.Run(ctx, a.Desc.listArgv, runner.Options{
		Timeout: QueryTimeout,
		Dir:     a.Dir,
	})
}
