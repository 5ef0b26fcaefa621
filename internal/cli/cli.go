// Package cli wires the command registry to the process: argument
// preprocessing, signal handling, and exit code mapping.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fastman-labs/fastman/internal/branding"
	"github.com/fastman-labs/fastman/internal/command"
	"github.com/fastman-labs/fastman/internal/commands"
	"github.com/fastman-labs/fastman/internal/console"
	"github.com/fastman-labs/fastman/internal/logging"
)

// Execute runs one CLI invocation and returns the process exit code.
// Build metadata comes in via ldflags.
func Execute(version, commit, date string, args []string) int {
	logging.Init(os.Getenv(branding.EnvPrefix()+"_LOG"), os.Stderr)
	logging.Debug().Str("version", version).Str("commit", commit).Str("date", date).Msg("starting")

	registry, err := commands.BuildRegistry()
	if err != nil {
		console.Error("broken command table: %v", err)
		return command.ExitInternal
	}

	tokens := normalize(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := os.Getwd()
	if err != nil {
		console.Error("cannot determine working directory: %v", err)
		return command.ExitInternal
	}

	// Project-level commands join the table once the root is known.
	for _, c := range commands.DiscoverCustom(root) {
		if err := registry.Register(c); err != nil {
			console.Warn("skipping custom command: %v", err)
		}
	}

	cctx := command.NewContext(ctx, root, version)

	// A project may pin a minimum tool version in its manifest.
	if err := cctx.Settings().CheckRequires(version); err != nil {
		console.Error("%v", err)
		return command.ExitUserError
	}

	err = registry.Dispatch(cctx, tokens)

	if ctx.Err() != nil {
		console.Info("Operation cancelled")
		return command.ExitInterrupt
	}

	if err != nil {
		console.Error("%v", err)
		var notFound *command.CommandNotFoundError
		if errors.As(err, &notFound) {
			console.Info("Run '%s list' to see available commands", branding.CLIName())
		}
		return command.ExitCode(err)
	}
	return command.ExitOK
}

// normalize maps the conventional help and version spellings onto their
// command equivalents; a bare invocation shows the command list.
func normalize(args []string) []string {
	if len(args) == 0 {
		return []string{"list"}
	}
	switch args[0] {
	case "-h", "--help":
		return []string{"list"}
	case "-v", "--version":
		return []string{"version"}
	}
	return args
}
