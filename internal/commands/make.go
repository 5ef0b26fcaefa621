package commands

import (
	"fmt"
	"strings"

	"github.com/fastman-labs/fastman/internal/command"
	"github.com/fastman-labs/fastman/internal/console"
	"github.com/fastman-labs/fastman/internal/naming"
	"github.com/fastman-labs/fastman/internal/scaffold"
	"github.com/fastman-labs/fastman/internal/template"
)

// generator is the shared shape of every make:* command: validate the
// target name, pick a template set, generate, report.
type generator struct {
	signature   string
	description string
	files       func(in *command.Invocation) ([]scaffold.File, error)
	bindings    func(name string, in *command.Invocation) template.Bindings
	after       func(ctx *command.Context, name string, res *scaffold.Result) error
}

func (g *generator) Signature() string   { return g.signature }
func (g *generator) Description() string { return g.description }

func (g *generator) Handle(ctx *command.Context, in *command.Invocation) error {
	name := in.Argument(0)
	if err := naming.ValidateIdentifier(name); err != nil {
		return err
	}

	files, err := g.files(in)
	if err != nil {
		return err
	}

	bindings := scaffold.NameBindings(name)
	if g.bindings != nil {
		bindings = g.bindings(name, in)
	}

	res, err := scaffold.Generate(ctx.Root, files, bindings, in.Flag("force"))
	if err != nil {
		return err
	}
	reportGeneration(res)

	if g.after != nil {
		return g.after(ctx, name, res)
	}
	return nil
}

func reportGeneration(res *scaffold.Result) {
	for _, f := range res.Created {
		console.Success("created %s", f)
	}
	for _, f := range res.Skipped {
		console.Info("skipped %s (already exists, use --force to overwrite)", f)
	}
}

func fixedSet(files []scaffold.File) func(*command.Invocation) ([]scaffold.File, error) {
	return func(*command.Invocation) ([]scaffold.File, error) { return files, nil }
}

func makeFeature() command.Command {
	return &generator{
		signature:   "make:feature {name} {--crud} {--force}",
		description: "Create a vertical slice feature with router, service, model, and schema",
		files: func(in *command.Invocation) ([]scaffold.File, error) {
			return scaffold.Feature(in.Flag("crud")), nil
		},
	}
}

func makeAPI() command.Command {
	return &generator{
		signature:   "make:api {name} {--style=rest} {--force}",
		description: "Create a lightweight API endpoint (rest or graphql)",
		files: func(in *command.Invocation) ([]scaffold.File, error) {
			style := strings.ToLower(in.Option("style"))
			if style != "rest" && style != "graphql" {
				return nil, fmt.Errorf("style must be 'rest' or 'graphql', got %q", style)
			}
			return scaffold.API(style), nil
		},
	}
}

func makeWebSocket() command.Command {
	return &generator{
		signature:   "make:websocket {name} {--force}",
		description: "Create WebSocket feature with connection manager",
		files:       fixedSet(scaffold.WebSocket()),
	}
}

func makeModel() command.Command {
	return &generator{
		signature:   "make:model {name} {--table=} {--force}",
		description: "Create database model",
		files:       fixedSet(scaffold.Model()),
		bindings: func(name string, in *command.Invocation) template.Bindings {
			table := in.Option("table")
			if table == "" {
				table = naming.ToSnake(name) + "s"
			}
			return template.Bindings{
				"name":  template.Name(name),
				"table": template.Literal(table),
			}
		},
		after: func(ctx *command.Context, name string, res *scaffold.Result) error {
			if len(res.Created) == 0 {
				return nil
			}
			added, err := scaffold.AppendModelImport(ctx.Root, name)
			if err != nil {
				return err
			}
			if added {
				console.Success("registered in app/models/__init__.py")
			}
			return nil
		},
	}
}

func makeException() command.Command {
	return &generator{
		signature:   "make:exception {name} {--force}",
		description: "Create custom exception class",
		files:       fixedSet(scaffold.Exception()),
		bindings: func(name string, in *command.Invocation) template.Bindings {
			// The template appends the Exception suffix itself.
			trimmed := strings.TrimSuffix(naming.ToSnake(name), "_exception")
			return scaffold.NameBindings(trimmed)
		},
	}
}

// simpleGenerators covers the make commands that write one templated file.
func simpleGenerators() []command.Command {
	specs := []struct {
		signature   string
		description string
		files       []scaffold.File
	}{
		{"make:controller {name} {--force}", "Create a controller class", scaffold.Controller()},
		{"make:service {name} {--force}", "Create service class for business logic", scaffold.Service()},
		{"make:middleware {name} {--force}", "Create HTTP middleware", scaffold.Middleware()},
		{"make:dependency {name} {--force}", "Create FastAPI dependency", scaffold.Dependency()},
		{"make:schema {name} {--force}", "Create Pydantic schema", scaffold.Schema()},
		{"make:repository {name} {--force}", "Create repository pattern class", scaffold.Repository()},
		{"make:command {name} {--force}", "Create custom CLI command", scaffold.ConsoleCommand()},
		{"make:test {name} {--force}", "Create test file", scaffold.Test()},
		{"make:seeder {name} {--force}", "Create database seeder", scaffold.Seeder()},
		{"make:factory {name} {--force}", "Create model factory for testing", scaffold.Factory()},
	}

	cmds := make([]command.Command, 0, len(specs))
	for _, s := range specs {
		cmds = append(cmds, &generator{
			signature:   s.signature,
			description: s.description,
			files:       fixedSet(s.files),
		})
	}
	return cmds
}
