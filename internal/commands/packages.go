package commands

import (
	"fmt"

	"github.com/fastman-labs/fastman/internal/command"
	"github.com/fastman-labs/fastman/internal/console"
)

type packageImportCmd struct{}

func (packageImportCmd) Signature() string   { return "package:import {package}" }
func (packageImportCmd) Description() string { return "Install Python package" }

func (packageImportCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	pkg := in.Argument(0)
	console.Info("Installing %s with %s...", pkg, ctx.Manager().Name)
	if err := ctx.Adapter().Install(ctx.Ctx(), []string{pkg}); err != nil {
		return fmt.Errorf("installing %q: %w", pkg, err)
	}
	console.Success("Package %q installed", pkg)
	return nil
}

type packageRemoveCmd struct{}

func (packageRemoveCmd) Signature() string   { return "package:remove {package}" }
func (packageRemoveCmd) Description() string { return "Remove Python package" }

func (packageRemoveCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	pkg := in.Argument(0)
	console.Info("Removing %s...", pkg)
	if err := ctx.Adapter().Remove(ctx.Ctx(), []string{pkg}); err != nil {
		return fmt.Errorf("removing %q: %w", pkg, err)
	}
	console.Success("Package %q removed", pkg)
	return nil
}

type packageListCmd struct{}

func (packageListCmd) Signature() string   { return "package:list" }
func (packageListCmd) Description() string { return "List installed packages" }

func (packageListCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	console.Info("Using package manager: %s", ctx.Manager().Name)
	out, err := ctx.Adapter().List(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("listing packages: %w", err)
	}
	console.Echo("%s", out.Stdout)
	return nil
}
