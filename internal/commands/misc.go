package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/fastman-labs/fastman/internal/branding"
	"github.com/fastman-labs/fastman/internal/command"
	"github.com/fastman-labs/fastman/internal/console"
	"github.com/fastman-labs/fastman/internal/naming"
	"github.com/fastman-labs/fastman/internal/pkgmgr"
	"github.com/fastman-labs/fastman/internal/runner"
)

type listCmd struct {
	registry *command.Registry
}

func (*listCmd) Signature() string   { return "list" }
func (*listCmd) Description() string { return "Show all available commands" }

// categoryOrder fixes the display order of command groups.
var categoryOrder = []string{
	"Project Setup", "Development", "Scaffolding", "Routes", "Database",
	"Testing", "Authentication", "Package Management", "Configuration",
	"Cache", "Custom", "Utilities",
}

func categorize(name string) string {
	switch {
	case name == "new" || name == "init":
		return "Project Setup"
	case name == "serve" || name == "build" || name == "optimize":
		return "Development"
	case name == "make:migration" || name == "make:seeder" ||
		strings.HasPrefix(name, "database:") || strings.HasPrefix(name, "migrate"):
		return "Database"
	case name == "make:test" || name == "make:factory":
		return "Testing"
	case strings.HasPrefix(name, "make:"):
		return "Scaffolding"
	case name == "route:list":
		return "Routes"
	case strings.HasPrefix(name, "install:auth"):
		return "Authentication"
	case strings.HasPrefix(name, "package:"):
		return "Package Management"
	case strings.HasPrefix(name, "config:") || strings.HasPrefix(name, "generate:"):
		return "Configuration"
	case strings.HasPrefix(name, "cache:"):
		return "Cache"
	case strings.HasPrefix(name, "custom:"):
		return "Custom"
	default:
		return "Utilities"
	}
}

func (c *listCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	console.Banner(ctx.Version)

	console.Section("Usage", "command [options] [arguments]")
	console.Listing([][2]string{
		{"-h, --help", "Display help for a command"},
		{"-v, --version", "Display application version"},
	})

	grouped := map[string][][2]string{}
	for _, e := range c.registry.Entries() {
		name := e.Signature.Name
		grouped[categorize(name)] = append(grouped[categorize(name)], [2]string{name, e.Command.Description()})
	}

	console.Section("Available commands", "")
	for _, category := range categoryOrder {
		items := grouped[category]
		if len(items) == 0 {
			continue
		}
		sort.Slice(items, func(i, j int) bool { return items[i][0] < items[j][0] })
		console.Highlight(" %s", category)
		console.Listing(items)
	}
	return nil
}

type versionCmd struct{}

func (versionCmd) Signature() string   { return "version" }
func (versionCmd) Description() string { return "Show version information" }

func (versionCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	console.Echo("%s v%s", branding.DisplayName(), ctx.Version)
	console.Info("%s", branding.Description())
	console.Highlight("Repository: %s", branding.RepoURL())
	console.Highlight("Platform: %s/%s", runtime.GOOS, runtime.GOARCH)
	console.Highlight("Package Manager: %s", ctx.Manager().Name)
	return nil
}

type docsCmd struct{}

func (docsCmd) Signature() string   { return "docs {--open}" }
func (docsCmd) Description() string { return "Show documentation or open in browser" }

func (docsCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	url := branding.DocsURL()

	if in.Flag("open") {
		console.Info("Opening %s...", url)
		opener := "xdg-open"
		switch runtime.GOOS {
		case "darwin":
			opener = "open"
		case "windows":
			opener = "explorer"
		}
		_, err := runner.Run(ctx.Ctx(), []string{opener, url}, runner.Options{Timeout: pkgmgr.QueryTimeout})
		return err
	}

	console.Section("Documentation", url)
	console.Echo("Quick Start:")
	console.Highlight("  1. %s new myproject", branding.CLIName())
	console.Highlight("  2. cd myproject")
	console.Highlight("  3. %s serve", branding.CLIName())
	console.Echo("Common Commands:")
	console.Listing([][2]string{
		{"make:feature {name}", "Create vertical slice with CRUD"},
		{"make:api {name}", "Create lightweight endpoint"},
		{"make:migration {msg}", "Create database migration"},
		{"database:migrate", "Run migrations"},
		{"route:list", "List all routes"},
	})
	console.Echo("Repository: %s", branding.RepoURL())
	return nil
}

type inspectCmd struct{}

func (inspectCmd) Signature() string { return "inspect {type} {name}" }
func (inspectCmd) Description() string {
	return "Inspect project component (model, feature, api)"
}

func (c inspectCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	kind := in.Argument(0)
	name := in.Argument(1)

	switch kind {
	case "feature":
		return c.inspectFeature(ctx, name)
	case "api":
		return c.inspectAPI(ctx, name)
	case "model":
		return c.inspectModel(ctx, name)
	default:
		return fmt.Errorf("unknown type %q, available: model, feature, api", kind)
	}
}

func (inspectCmd) inspectFeature(ctx *command.Context, name string) error {
	snake := naming.ToSnake(name)
	dir := filepath.Join(ctx.Root, "app", "features", snake)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("feature %q not found", snake)
	}

	console.Section("Feature: "+snake, dir)
	parts := [][2]string{
		{"models.py", "Database Models"},
		{"schemas.py", "Pydantic Schemas"},
		{"service.py", "Business Logic"},
		{"router.py", "API Routes"},
	}
	for _, p := range parts {
		info, err := os.Stat(filepath.Join(dir, p[0]))
		if err != nil {
			console.Error("  missing %s - %s", p[0], p[1])
			continue
		}
		console.Success("  %s - %s (%d bytes)", p[0], p[1], info.Size())
	}
	return nil
}

func (inspectCmd) inspectAPI(ctx *command.Context, name string) error {
	snake := naming.ToSnake(name)
	dir := filepath.Join(ctx.Root, "app", "api", snake)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("api %q not found", snake)
	}

	console.Section("API: "+snake, dir)
	if _, err := os.Stat(filepath.Join(dir, "router.py")); err == nil {
		console.Success("  Type: REST API")
	} else if _, err := os.Stat(filepath.Join(dir, "schema.py")); err == nil {
		console.Success("  Type: GraphQL API")
	}
	return nil
}

func (inspectCmd) inspectModel(ctx *command.Context, name string) error {
	snake := naming.ToSnake(name)
	pascal := naming.ToPascal(name)
	path := filepath.Join(ctx.Root, "app", "models", snake+".py")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("model %q not found", pascal)
	}

	console.Section("Model: "+pascal, path)
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "__tablename__") {
			console.Success("  %s", trimmed)
		}
		if strings.Contains(trimmed, "= Column(") {
			console.Highlight("  %s", trimmed)
		}
	}
	return nil
}

// routesMarker brackets the JSON payload so the probe output survives any
// framework noise on stdout.
const routesMarker = "__FASTMAN_ROUTES_JSON__"

const routesScript = `
import json
import sys
import warnings
from pathlib import Path

warnings.filterwarnings("ignore")
sys.path.insert(0, str(Path.cwd()))

from app.main import app

routes = []
for route in app.routes:
    path = getattr(route, "path", "")
    methods = getattr(route, "methods", set())
    methods_str = ",".join(sorted(methods)) if methods else "WS"
    name = getattr(route, "name", "-")
    routes.append([methods_str, path, name])
print("` + routesMarker + `" + json.dumps(routes) + "` + routesMarker + `")
`

type routeListCmd struct{}

func (routeListCmd) Signature() string   { return "route:list {--path=} {--method=}" }
func (routeListCmd) Description() string { return "List all API routes" }

func (routeListCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	pathFilter := in.Option("path")
	methodFilter := strings.ToUpper(in.Option("method"))

	argv := ctx.Manager().RunArgv("python", "-c", routesScript)
	out, err := runner.Run(ctx.Ctx(), argv, runner.Options{
		Dir:     ctx.Root,
		Timeout: pkgmgr.QueryTimeout,
	})
	if err != nil {
		return fmt.Errorf("loading routes: %w", err)
	}

	routes, err := parseRoutesOutput(out.Stdout)
	if err != nil {
		return err
	}

	var rows [][]string
	for _, r := range routes {
		if len(r) != 3 {
			continue
		}
		if pathFilter != "" && !strings.Contains(r[1], pathFilter) {
			continue
		}
		if methodFilter != "" && !strings.Contains(r[0], methodFilter) {
			continue
		}
		rows = append(rows, r)
	}

	if len(rows) == 0 {
		console.Warn("No routes found")
		return nil
	}
	console.Table("API Routes", []string{"Methods", "Path", "Name"}, rows)
	console.Info("Total routes: %d", len(rows))
	return nil
}

func parseRoutesOutput(stdout string) ([][]string, error) {
	parts := strings.Split(stdout, routesMarker)
	if len(parts) < 3 {
		return nil, fmt.Errorf("could not locate routes payload in probe output")
	}
	var routes [][]string
	if err := json.Unmarshal([]byte(parts[1]), &routes); err != nil {
		return nil, fmt.Errorf("parsing routes payload: %w", err)
	}
	return routes, nil
}

type activateCmd struct{}

func (activateCmd) Signature() string   { return "activate" }
func (activateCmd) Description() string { return "Show virtual environment activation command" }

func (activateCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	var venv string
	for _, candidate := range []string{".venv", "venv", "env"} {
		if info, err := os.Stat(filepath.Join(ctx.Root, candidate)); err == nil && info.IsDir() {
			venv = filepath.Join(ctx.Root, candidate)
			break
		}
	}
	if venv == "" {
		console.Info("Expected one of: .venv, venv, env")
		console.Info("Run 'fastman new' to create a project with a virtual environment")
		return fmt.Errorf("no virtual environment found")
	}

	console.Section("Virtual Environment Detected", venv)

	if runtime.GOOS == "windows" {
		console.Highlight("Command Prompt:")
		console.Echo("  %s", filepath.Join(venv, "Scripts", "activate.bat"))
		console.Highlight("PowerShell:")
		console.Echo("  %s", filepath.Join(venv, "Scripts", "Activate.ps1"))
		return nil
	}

	activate := filepath.Join(venv, "bin", "activate")
	shell := filepath.Base(os.Getenv("SHELL"))
	switch shell {
	case "fish":
		activate += ".fish"
	case "csh", "tcsh":
		activate += ".csh"
	}

	console.Info("Shell detected: %s", shell)
	console.Highlight("Activation command:")
	console.Echo("  source %s", activate)
	console.Info("To deactivate, run: deactivate")
	return nil
}
