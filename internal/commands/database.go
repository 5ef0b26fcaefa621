package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/fastman-labs/fastman/internal/command"
	"github.com/fastman-labs/fastman/internal/console"
	"github.com/fastman-labs/fastman/internal/naming"
	"github.com/fastman-labs/fastman/internal/runner"
)

// alembic runs an alembic subcommand through the project's manager prefix,
// streaming output to the terminal.
func alembic(ctx *command.Context, args ...string) error {
	argv := ctx.Manager().RunArgv(append([]string{"alembic"}, args...)...)
	_, err := runner.Run(ctx.Ctx(), argv, runner.Options{
		Dir:    ctx.Root,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	return err
}

var (
	migrationSpaces  = regexp.MustCompile(`\s+`)
	migrationAllowed = regexp.MustCompile(`[^\w-]`)
)

// sanitizeMigrationMessage turns free text into a filename-safe slug.
func sanitizeMigrationMessage(message string) string {
	s := migrationSpaces.ReplaceAllString(message, "_")
	s = migrationAllowed.ReplaceAllString(s, "")
	s = strings.Trim(s, "_")
	if s == "" {
		return "update"
	}
	return s
}

type makeMigrationCmd struct{}

func (makeMigrationCmd) Signature() string   { return "make:migration {message=update}" }
func (makeMigrationCmd) Description() string { return "Create database migration" }

func (makeMigrationCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	message := sanitizeMigrationMessage(in.Argument(0))
	if err := alembic(ctx, "revision", "--autogenerate", "-m", message); err != nil {
		return fmt.Errorf("creating migration: %w", err)
	}
	console.Success("Migration created: %s", message)
	console.Info("Review the migration file before running database:migrate")
	return nil
}

type databaseMigrateCmd struct{}

func (databaseMigrateCmd) Signature() string   { return "database:migrate" }
func (databaseMigrateCmd) Description() string { return "Run database migrations" }

func (databaseMigrateCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	console.Info("Running migrations...")
	if err := alembic(ctx, "upgrade", "head"); err != nil {
		return err
	}
	console.Success("Migrations completed")
	return nil
}

type migrateRollbackCmd struct{}

func (migrateRollbackCmd) Signature() string   { return "migrate:rollback {--steps=1}" }
func (migrateRollbackCmd) Description() string { return "Rollback database migrations" }

func (migrateRollbackCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	steps, err := strconv.Atoi(in.Option("steps"))
	if err != nil || steps < 1 {
		return fmt.Errorf("invalid steps value %q, must be a positive integer", in.Option("steps"))
	}

	if !console.Confirm(fmt.Sprintf("Rollback %d migration(s)?", steps), false) {
		console.Info("Cancelled")
		return nil
	}

	if err := alembic(ctx, "downgrade", fmt.Sprintf("-%d", steps)); err != nil {
		return err
	}
	console.Success("Rolled back %d migration(s)", steps)
	return nil
}

type migrateResetCmd struct{}

func (migrateResetCmd) Signature() string   { return "migrate:reset" }
func (migrateResetCmd) Description() string { return "Reset database (rollback all migrations)" }

func (migrateResetCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	if !console.Confirm("Reset ALL migrations? This cannot be undone!", false) {
		console.Info("Cancelled")
		return nil
	}

	if err := alembic(ctx, "downgrade", "base"); err != nil {
		return err
	}
	console.Success("Database reset complete")
	return nil
}

type migrateStatusCmd struct{}

func (migrateStatusCmd) Signature() string   { return "migrate:status" }
func (migrateStatusCmd) Description() string { return "Show migration status" }

func (migrateStatusCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	return alembic(ctx, "current")
}

// seederScript runs inside the project environment. It imports every module
// passed on argv, finds the *Seeder classes, and runs each against a fresh
// session.
const seederScript = `
import sys
from pathlib import Path

sys.path.insert(0, str(Path.cwd()))

from app.core.database import SessionLocal

db = SessionLocal()
ran = 0
try:
    import importlib
    for module_name in sys.argv[1:]:
        module = importlib.import_module("database.seeders." + module_name)
        for attr_name in dir(module):
            if attr_name.endswith("Seeder") and attr_name != "Seeder":
                print("Running " + attr_name + "...")
                getattr(module, attr_name).run(db)
                ran += 1
finally:
    db.close()
print("ran=" + str(ran))
`

type databaseSeedCmd struct{}

func (databaseSeedCmd) Signature() string   { return "database:seed {--class=}" }
func (databaseSeedCmd) Description() string { return "Run database seeders" }

func (databaseSeedCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	only := in.Option("class")

	seedersDir := filepath.Join(ctx.Root, "database", "seeders")
	entries, err := os.ReadDir(seedersDir)
	if os.IsNotExist(err) {
		return fmt.Errorf("seeders directory not found")
	}
	if err != nil {
		return err
	}

	var modules []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, "_seeder.py") {
			continue
		}
		stem := strings.TrimSuffix(name, ".py")
		// --class matches either the module stem or its PascalCase class.
		if only != "" && only != stem && only != naming.ToPascal(stem) {
			continue
		}
		modules = append(modules, stem)
	}

	if len(modules) == 0 {
		console.Warn("No seeders found")
		return nil
	}

	argv := ctx.Manager().RunArgv(append([]string{"python", "-c", seederScript}, modules...)...)
	out, err := runner.Run(ctx.Ctx(), argv, runner.Options{
		Dir:    ctx.Root,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("running seeders: %w", err)
	}

	// A module may hold several seeder classes, or none that match, so the
	// probe reports how many actually ran.
	count, ok := parseSeederCount(out.Stdout)
	if !ok {
		count = len(modules)
	}
	console.Success("Ran %d seeder(s)", count)
	return nil
}

func parseSeederCount(stdout string) (int, bool) {
	for _, line := range strings.Split(stdout, "\n") {
		if rest, found := strings.CutPrefix(strings.TrimSpace(line), "ran="); found {
			n, err := strconv.Atoi(rest)
			if err != nil {
				return 0, false
			}
			return n, true
		}
	}
	return 0, false
}
