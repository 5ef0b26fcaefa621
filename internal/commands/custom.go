package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fastman-labs/fastman/internal/command"
	"github.com/fastman-labs/fastman/internal/logging"
	"github.com/fastman-labs/fastman/internal/runner"
	"github.com/fastman-labs/fastman/internal/signature"
)

// Project-level commands live in app/console/commands, one file per
// command. A command file declares its contract as module-level strings:
//
//	signature = "custom:report {month} {--format=csv}"
//	description = "Export the monthly report"
//
// and a class whose name ends in Command with a
// handle(arguments, options, flags) method. The Go side parses the
// declared signature, binds the invocation against it like any built-in,
// and hands the bound values to the class as JSON through the project's
// interpreter. The custom: prefix is added when the file omits it, so
// project commands can never shadow a built-in.

const customCommandsDir = "app/console/commands"

var (
	customSignatureRe   = regexp.MustCompile(`(?m)^signature\s*=\s*["'](.+?)["']`)
	customDescriptionRe = regexp.MustCompile(`(?m)^description\s*=\s*["'](.+?)["']`)
)

// customScript loads one command module, locates its *Command class, and
// runs handle with the bound inputs decoded from argv.
const customScript = `
import importlib
import json
import sys
from pathlib import Path

sys.path.insert(0, str(Path.cwd()))

module = importlib.import_module("app.console.commands." + sys.argv[1])
inputs = json.loads(sys.argv[2])

handler = None
for attr in dir(module):
    if attr.endswith("Command") and attr != "Command":
        handler = getattr(module, attr)
        break
if handler is None:
    print("no *Command class in " + sys.argv[1], file=sys.stderr)
    sys.exit(1)

code = handler().handle(inputs["arguments"], inputs["options"], inputs["flags"])
sys.exit(int(code or 0))
`

type customCmd struct {
	module      string
	sig         *signature.Signature
	description string
}

func (c *customCmd) Signature() string   { return c.sig.String() }
func (c *customCmd) Description() string { return c.description }

// customInputs is the payload handed to the Python class: every declared
// name resolved to its bound value, so the class never re-parses argv.
type customInputs struct {
	Arguments map[string]string `json:"arguments"`
	Options   map[string]string `json:"options"`
	Flags     map[string]bool   `json:"flags"`
}

func bindCustomInputs(sig *signature.Signature, in *command.Invocation) customInputs {
	inputs := customInputs{
		Arguments: make(map[string]string, len(sig.Arguments)),
		Options:   make(map[string]string, len(sig.Options)),
		Flags:     make(map[string]bool, len(sig.Flags)),
	}
	for i, a := range sig.Arguments {
		inputs.Arguments[a.Name] = in.Argument(i)
	}
	for _, o := range sig.Options {
		inputs.Options[o.Name] = in.Option(o.Name)
	}
	for _, f := range sig.Flags {
		inputs.Flags[f] = in.Flag(f)
	}
	return inputs
}

func (c *customCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	payload, err := json.Marshal(bindCustomInputs(c.sig, in))
	if err != nil {
		return err
	}

	argv := ctx.Manager().RunArgv("python", "-c", customScript, c.module, string(payload))
	if _, err := runner.Run(ctx.Ctx(), argv, runner.Options{
		Dir:    ctx.Root,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
	}); err != nil {
		return fmt.Errorf("custom command %s: %w", c.module, err)
	}
	return nil
}

// DiscoverCustom scans the project's command directory and returns one
// command per well-formed file. Malformed files are logged and skipped so
// one broken command never takes down the CLI.
func DiscoverCustom(root string) []command.Command {
	dir := filepath.Join(root, filepath.FromSlash(customCommandsDir))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var cmds []command.Command
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".py") || strings.HasPrefix(name, "_") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logging.Warn().Err(err).Str("file", name).Msg("skipping unreadable custom command")
			continue
		}

		m := customSignatureRe.FindSubmatch(data)
		if m == nil {
			logging.Warn().Str("file", name).Msg("custom command file declares no signature")
			continue
		}
		sig, err := signature.Parse(string(m[1]))
		if err != nil {
			logging.Warn().Err(err).Str("file", name).Msg("skipping custom command with malformed signature")
			continue
		}
		if !strings.HasPrefix(sig.Name, "custom:") {
			sig.Name = "custom:" + sig.Name
		}

		description := "Custom command from " + customCommandsDir + "/" + name
		if m := customDescriptionRe.FindSubmatch(data); m != nil {
			description = string(m[1])
		}

		cmds = append(cmds, &customCmd{
			module:      strings.TrimSuffix(name, ".py"),
			sig:         sig,
			description: description,
		})
	}
	return cmds
}
