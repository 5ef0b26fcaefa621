package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fastman-labs/fastman/internal/command"
	"github.com/fastman-labs/fastman/internal/signature"
)

func newTestContext(t *testing.T) *command.Context {
	t.Helper()
	return command.NewContext(context.Background(), t.TempDir(), "0.0.0-test")
}

func dispatch(t *testing.T, ctx *command.Context, tokens ...string) error {
	t.Helper()
	r, err := BuildRegistry()
	if err != nil {
		t.Fatalf("BuildRegistry() error: %v", err)
	}
	return r.Dispatch(ctx, tokens)
}

func readProjectFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

func TestBuildRegistry(t *testing.T) {
	r, err := BuildRegistry()
	if err != nil {
		t.Fatalf("BuildRegistry() error: %v", err)
	}

	for _, name := range []string{
		"new", "init", "serve", "build", "optimize",
		"make:feature", "make:api", "make:websocket", "make:controller",
		"make:model", "make:service", "make:middleware", "make:dependency",
		"make:schema", "make:exception", "make:repository", "make:command",
		"make:test", "make:seeder", "make:factory",
		"make:migration", "database:migrate", "migrate:rollback",
		"migrate:reset", "migrate:status", "database:seed",
		"install:auth", "route:list",
		"package:import", "package:list", "package:remove",
		"generate:key", "config:cache", "config:clear", "cache:clear",
		"list", "version", "docs", "inspect", "activate", "completion",
	} {
		if _, err := r.Lookup(name); err != nil {
			t.Errorf("Lookup(%q) failed: %v", name, err)
		}
	}
}

func TestMakeFeatureCommand(t *testing.T) {
	ctx := newTestContext(t)
	if err := dispatch(t, ctx, "make:feature", "blog_post", "--crud"); err != nil {
		t.Fatalf("make:feature error: %v", err)
	}

	router := readProjectFile(t, ctx.Root, "app/features/blog_post/router.py")
	if !strings.Contains(router, "def delete_blog_post(") {
		t.Errorf("crud router missing delete endpoint:\n%s", router)
	}
}

func TestMakeModelCommand(t *testing.T) {
	ctx := newTestContext(t)
	if err := dispatch(t, ctx, "make:model", "order"); err != nil {
		t.Fatalf("make:model error: %v", err)
	}

	model := readProjectFile(t, ctx.Root, "app/models/order.py")
	if !strings.Contains(model, `__tablename__ = "orders"`) {
		t.Errorf("default table name not pluralized snake:\n%s", model)
	}

	imports := readProjectFile(t, ctx.Root, "app/models/__init__.py")
	if !strings.Contains(imports, "from .order import Order") {
		t.Errorf("model not registered:\n%s", imports)
	}
}

func TestMakeModelExplicitTable(t *testing.T) {
	ctx := newTestContext(t)
	if err := dispatch(t, ctx, "make:model", "order", "--table=order_records"); err != nil {
		t.Fatal(err)
	}
	model := readProjectFile(t, ctx.Root, "app/models/order.py")
	if !strings.Contains(model, `__tablename__ = "order_records"`) {
		t.Errorf("explicit table ignored:\n%s", model)
	}
}

func TestMakeExceptionStripsSuffix(t *testing.T) {
	ctx := newTestContext(t)
	if err := dispatch(t, ctx, "make:exception", "PaymentException"); err != nil {
		t.Fatal(err)
	}

	content := readProjectFile(t, ctx.Root, "app/core/exceptions/payment.py")
	if !strings.Contains(content, "class PaymentException(") {
		t.Errorf("exception class name wrong:\n%s", content)
	}
	if strings.Contains(content, "PaymentExceptionException") {
		t.Errorf("exception suffix doubled:\n%s", content)
	}
}

func TestMakeAPIRejectsUnknownStyle(t *testing.T) {
	ctx := newTestContext(t)
	err := dispatch(t, ctx, "make:api", "orders", "--style=soap")
	if err == nil || !strings.Contains(err.Error(), "soap") {
		t.Errorf("error = %v, want unknown style mentioning soap", err)
	}
}

func TestMakeCommandRejectsBadName(t *testing.T) {
	ctx := newTestContext(t)
	if err := dispatch(t, ctx, "make:service", "9lives"); err == nil {
		t.Error("invalid identifier accepted")
	}
	if err := dispatch(t, ctx, "make:service", "../escape"); err == nil {
		t.Error("path-escaping name accepted")
	}
}

func TestNewCommandWithPip(t *testing.T) {
	ctx := newTestContext(t)
	// pip skips the environment bootstrap, so the run is hermetic.
	if err := dispatch(t, ctx, "new", "shop", "--package=pip", "--database=postgresql"); err != nil {
		t.Fatalf("new error: %v", err)
	}

	dir := filepath.Join(ctx.Root, "shop")

	env := readProjectFile(t, dir, ".env")
	if !strings.Contains(env, "PROJECT_NAME=shop") {
		t.Errorf(".env missing project name:\n%s", env)
	}
	if !strings.Contains(env, "DATABASE_URL=postgresql://") {
		t.Errorf(".env missing postgres url:\n%s", env)
	}
	if !strings.Contains(env, "SECRET_KEY=") {
		t.Errorf(".env missing secret key:\n%s", env)
	}

	manifest := readProjectFile(t, dir, "fastman.yaml")
	for _, want := range []string{"name: shop", "pattern: feature", "database: postgresql", "package_manager: pip"} {
		if !strings.Contains(manifest, want) {
			t.Errorf("manifest missing %q:\n%s", want, manifest)
		}
	}

	reqs := readProjectFile(t, dir, "requirements.txt")
	if !strings.Contains(reqs, "psycopg2-binary") {
		t.Errorf("requirements missing database driver:\n%s", reqs)
	}

	if _, err := os.Stat(filepath.Join(dir, "alembic.ini")); err != nil {
		t.Error("SQL project missing alembic.ini")
	}

	readme := readProjectFile(t, dir, "README.md")
	if !strings.Contains(readme, "pip install -r requirements.txt") {
		t.Errorf("README missing install command:\n%s", readme)
	}
}

func TestNewCommandRejectsExistingDirectory(t *testing.T) {
	ctx := newTestContext(t)
	if err := os.Mkdir(filepath.Join(ctx.Root, "shop"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := dispatch(t, ctx, "new", "shop", "--package=pip"); err == nil {
		t.Error("existing directory accepted")
	}
}

func TestNewCommandRejectsBadChoices(t *testing.T) {
	ctx := newTestContext(t)
	for _, tokens := range [][]string{
		{"new", "shop", "--pattern=hexagonal"},
		{"new", "shop", "--package=conda"},
		{"new", "shop", "--database=mongodb"},
	} {
		if err := dispatch(t, ctx, tokens...); err == nil {
			t.Errorf("dispatch(%v) accepted invalid choice", tokens)
		}
	}
}

func TestGenerateKeyCommand(t *testing.T) {
	ctx := newTestContext(t)
	if err := dispatch(t, ctx, "generate:key"); err != nil {
		t.Fatal(err)
	}
	env := readProjectFile(t, ctx.Root, ".env")
	if !strings.Contains(env, "SECRET_KEY=") {
		t.Errorf(".env missing key:\n%s", env)
	}

	// A second run rotates the key in place without duplicating the line.
	if err := dispatch(t, ctx, "generate:key"); err != nil {
		t.Fatal(err)
	}
	env = readProjectFile(t, ctx.Root, ".env")
	if strings.Count(env, "SECRET_KEY=") != 1 {
		t.Errorf("SECRET_KEY duplicated:\n%s", env)
	}
}

func TestGenerateKeyShowDoesNotWrite(t *testing.T) {
	ctx := newTestContext(t)
	if err := dispatch(t, ctx, "generate:key", "--show"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(ctx.Root, ".env")); !os.IsNotExist(err) {
		t.Error("--show wrote .env")
	}
}

func TestCacheClearCommand(t *testing.T) {
	ctx := newTestContext(t)
	cacheDir := filepath.Join(ctx.Root, "app", "__pycache__")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cacheDir, "m.cpython-311.pyc"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(ctx.Root, "stale.pyc"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := dispatch(t, ctx, "cache:clear"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Error("__pycache__ survived")
	}
	if _, err := os.Stat(filepath.Join(ctx.Root, "stale.pyc")); !os.IsNotExist(err) {
		t.Error("stray .pyc survived")
	}
}

func TestSanitizeMigrationMessage(t *testing.T) {
	cases := []struct{ in, want string }{
		{"add users table", "add_users_table"},
		{"drop  column!", "drop_column"},
		{"", "update"},
		{"???", "update"},
		{"_padded_", "padded"},
		{"keep-dash_and_word", "keep-dash_and_word"},
	}
	for _, c := range cases {
		if got := sanitizeMigrationMessage(c.in); got != c.want {
			t.Errorf("sanitizeMigrationMessage(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCategorize(t *testing.T) {
	cases := []struct{ name, want string }{
		{"new", "Project Setup"},
		{"serve", "Development"},
		{"optimize", "Development"},
		{"custom:report", "Custom"},
		{"make:feature", "Scaffolding"},
		{"make:migration", "Database"},
		{"make:seeder", "Database"},
		{"make:test", "Testing"},
		{"make:factory", "Testing"},
		{"migrate:rollback", "Database"},
		{"database:seed", "Database"},
		{"install:auth", "Authentication"},
		{"package:list", "Package Management"},
		{"generate:key", "Configuration"},
		{"cache:clear", "Cache"},
		{"route:list", "Routes"},
		{"completion", "Utilities"},
	}
	for _, c := range cases {
		if got := categorize(c.name); got != c.want {
			t.Errorf("categorize(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestParseRoutesOutput(t *testing.T) {
	stdout := "some uvicorn noise\n" + routesMarker + `[["GET","/health","health"],["WS","/ws","socket"]]` + routesMarker + "\n"
	routes, err := parseRoutesOutput(stdout)
	if err != nil {
		t.Fatal(err)
	}
	if len(routes) != 2 || routes[0][1] != "/health" || routes[1][0] != "WS" {
		t.Errorf("routes = %v", routes)
	}

	if _, err := parseRoutesOutput("no marker here"); err == nil {
		t.Error("missing marker accepted")
	}
}

func TestCompletionScripts(t *testing.T) {
	r, err := BuildRegistry()
	if err != nil {
		t.Fatal(err)
	}
	c := &completionCmd{registry: r}

	bash := c.generateBash()
	for _, want := range []string{"make:feature", "--crud", "database:migrate", "complete -F"} {
		if !strings.Contains(bash, want) {
			t.Errorf("bash script missing %q", want)
		}
	}

	zsh := c.generateZsh()
	if !strings.Contains(zsh, "#compdef") || !strings.Contains(zsh, "make:model") {
		t.Errorf("zsh script malformed:\n%s", zsh)
	}
}

func TestDatabaseDependencies(t *testing.T) {
	full := strings.Join(databaseDependencies("postgresql", false), " ")
	for _, want := range []string{"fastapi", "psycopg2-binary", "alembic", "pytest"} {
		if !strings.Contains(full, want) {
			t.Errorf("postgresql deps missing %s: %s", want, full)
		}
	}

	minimal := strings.Join(databaseDependencies("firebase", true), " ")
	if !strings.Contains(minimal, "firebase-admin") {
		t.Errorf("firebase deps missing firebase-admin: %s", minimal)
	}
	for _, banned := range []string{"sqlalchemy", "pytest"} {
		if strings.Contains(minimal, banned) {
			t.Errorf("minimal firebase deps carry %s: %s", banned, minimal)
		}
	}
}

func TestDatabaseSeedWithoutSeeders(t *testing.T) {
	ctx := newTestContext(t)
	if err := dispatch(t, ctx, "database:seed"); err == nil {
		t.Error("missing seeders directory accepted")
	}
}

func writeCustomCommand(t *testing.T, root, file, content string) {
	t.Helper()
	dir := filepath.Join(root, "app", "console", "commands")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverCustom(t *testing.T) {
	root := t.TempDir()
	writeCustomCommand(t, root, "report.py", `
signature = "custom:report {month} {--format=csv}"
description = "Export the monthly report"

class ReportCommand:
    def handle(self, arguments, options, flags):
        return 0
`)
	// The prefix is implied when the file leaves it off.
	writeCustomCommand(t, root, "cleanup.py", `
signature = "cleanup {--dry-run}"

class CleanupCommand:
    def handle(self, arguments, options, flags):
        return 0
`)
	writeCustomCommand(t, root, "_helpers.py", `signature = "custom:hidden"`)
	writeCustomCommand(t, root, "broken.py", `signature = "custom:broken {name} {name}"`)
	writeCustomCommand(t, root, "plain.py", `print("no contract here")`)

	cmds := DiscoverCustom(root)
	if len(cmds) != 2 {
		t.Fatalf("DiscoverCustom() found %d commands, want 2", len(cmds))
	}

	byName := map[string]command.Command{}
	for _, c := range cmds {
		byName[strings.Fields(c.Signature())[0]] = c
	}

	report, ok := byName["custom:report"]
	if !ok {
		t.Fatalf("custom:report not discovered: %v", byName)
	}
	if got := report.Signature(); got != "custom:report {month} {--format=csv}" {
		t.Errorf("report signature = %q", got)
	}
	if got := report.Description(); got != "Export the monthly report" {
		t.Errorf("report description = %q", got)
	}

	if _, ok := byName["custom:cleanup"]; !ok {
		t.Errorf("unprefixed signature not namespaced: %v", byName)
	}
}

func TestDiscoverCustomRegistersAlongsideBuiltins(t *testing.T) {
	root := t.TempDir()
	writeCustomCommand(t, root, "report.py", `
signature = "custom:report {month}"
`)

	r, err := BuildRegistry()
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range DiscoverCustom(root) {
		if err := r.Register(c); err != nil {
			t.Fatalf("Register custom command: %v", err)
		}
	}
	if _, err := r.Lookup("custom:report"); err != nil {
		t.Errorf("Lookup(custom:report) failed: %v", err)
	}
}

// captureCmd records the invocation the dispatcher binds, so binding
// behavior can be asserted without touching an interpreter.
type captureCmd struct {
	sig string
	got *command.Invocation
}

func (c *captureCmd) Signature() string   { return c.sig }
func (c *captureCmd) Description() string { return "capture" }
func (c *captureCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	c.got = in
	return nil
}

func TestBindCustomInputs(t *testing.T) {
	raw := "custom:report {month} {day=1} {--format=csv} {--verbose}"
	sig, err := signature.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}

	capture := &captureCmd{sig: raw}
	r := command.NewRegistry()
	if err := r.Register(capture); err != nil {
		t.Fatal(err)
	}
	ctx := newTestContext(t)
	if err := r.Dispatch(ctx, []string{"custom:report", "june", "--format", "json", "--verbose"}); err != nil {
		t.Fatal(err)
	}

	inputs := bindCustomInputs(sig, capture.got)
	if inputs.Arguments["month"] != "june" || inputs.Arguments["day"] != "1" {
		t.Errorf("arguments = %v", inputs.Arguments)
	}
	if inputs.Options["format"] != "json" {
		t.Errorf("options = %v", inputs.Options)
	}
	if !inputs.Flags["verbose"] {
		t.Errorf("flags = %v", inputs.Flags)
	}
}

func TestMakeCommandOutputIsDiscoverable(t *testing.T) {
	ctx := newTestContext(t)
	if err := dispatch(t, ctx, "make:command", "audit_log"); err != nil {
		t.Fatal(err)
	}

	cmds := DiscoverCustom(ctx.Root)
	if len(cmds) != 1 {
		t.Fatalf("generated command not discovered: %d found", len(cmds))
	}
	if !strings.HasPrefix(cmds[0].Signature(), "custom:audit_log") {
		t.Errorf("discovered signature = %q", cmds[0].Signature())
	}
}

func TestParseSeederCount(t *testing.T) {
	cases := []struct {
		stdout string
		want   int
		ok     bool
	}{
		{"Running UserSeeder...\nRunning AdminSeeder...\nran=2\n", 2, true},
		{"ran=0\n", 0, true},
		{"no trailer here\n", 0, false},
		{"ran=many\n", 0, false},
	}
	for _, c := range cases {
		got, ok := parseSeederCount(c.stdout)
		if got != c.want || ok != c.ok {
			t.Errorf("parseSeederCount(%q) = %d, %v, want %d, %v", c.stdout, got, ok, c.want, c.ok)
		}
	}
}

func TestOptimizeOutsideProject(t *testing.T) {
	ctx := newTestContext(t)
	if err := dispatch(t, ctx, "optimize", "--check"); err == nil {
		t.Error("optimize accepted a directory without an app tree")
	}
}

func TestInspectMissingComponents(t *testing.T) {
	ctx := newTestContext(t)
	if err := dispatch(t, ctx, "inspect", "feature", "ghost"); err == nil {
		t.Error("missing feature accepted")
	}
	if err := dispatch(t, ctx, "inspect", "starship", "x"); err == nil {
		t.Error("unknown component type accepted")
	}
}
