package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fastman-labs/fastman/internal/branding"
	"github.com/fastman-labs/fastman/internal/command"
	"github.com/fastman-labs/fastman/internal/console"
	"github.com/fastman-labs/fastman/internal/paths"
)

type completionCmd struct {
	registry *command.Registry
}

func (*completionCmd) Signature() string { return "completion {shell=bash} {--install}" }

func (*completionCmd) Description() string {
	return "Generate shell completion script (bash, zsh)"
}

func (c *completionCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	shell := strings.ToLower(in.Argument(0))

	var script string
	switch shell {
	case "bash":
		script = c.generateBash()
	case "zsh":
		script = c.generateZsh()
	default:
		return fmt.Errorf("unknown shell %q, supported: bash, zsh", shell)
	}

	if in.Flag("install") {
		return installCompletion(shell, script)
	}

	console.Echo("%s", script)
	console.Info("To install this completion script, run:")
	console.Highlight("  %s completion %s --install", branding.CLIName(), shell)
	return nil
}

func (c *completionCmd) commandNames() []string {
	var names []string
	for _, e := range c.registry.Entries() {
		names = append(names, e.Signature.Name)
	}
	return names
}

// optionWords lists the completable tokens for one command: flags as-is,
// value options with a trailing = so the shell stops before the value.
func optionWords(e *command.Entry) []string {
	var words []string
	for _, f := range e.Signature.Flags {
		words = append(words, "--"+f)
	}
	for _, o := range e.Signature.Options {
		words = append(words, "--"+o.Name+"=")
	}
	return words
}

func (c *completionCmd) generateBash() string {
	cli := branding.CLIName()

	var cases strings.Builder
	for _, e := range c.registry.Entries() {
		words := optionWords(e)
		if len(words) == 0 {
			continue
		}
		fmt.Fprintf(&cases, "        %s)\n            opts=\"%s --help\"\n            ;;\n",
			e.Signature.Name, strings.Join(words, " "))
	}

	return fmt.Sprintf(`#!/bin/bash
# %[1]s CLI completion. Source this file from your shell profile.

_%[1]s_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    local commands="%[2]s"

    case "${COMP_WORDS[1]}" in
%[3]s        *)
            opts="--help"
            ;;
    esac

    if [[ ${cur} == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
    else
        COMPREPLY=( $(compgen -W "${commands}" -- "${cur}") )
    fi
}

complete -F _%[1]s_completions %[1]s
`, cli, strings.Join(c.commandNames(), " "), cases.String())
}

func (c *completionCmd) generateZsh() string {
	cli := branding.CLIName()

	var lines strings.Builder
	for _, e := range c.registry.Entries() {
		desc := strings.ReplaceAll(e.Command.Description(), "'", "")
		fmt.Fprintf(&lines, "        '%s:%s'\n", e.Signature.Name, desc)
	}

	return fmt.Sprintf(`#compdef %[1]s
# %[1]s CLI completion for zsh.

_%[1]s() {
    local -a commands
    commands=(
%[2]s    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
    fi
}

_%[1]s "$@"
`, cli, lines.String())
}

func installCompletion(shell, script string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	cli := branding.CLIName()

	switch shell {
	case "bash":
		target := filepath.Join(home, "."+cli+"-completion.bash")
		if err := paths.WriteFile(target, []byte(script), true); err != nil {
			return err
		}
		console.Success("Completion script installed to: %s", target)

		profile := filepath.Join(home, ".bashrc")
		sourceLine := "source " + target
		if err := appendUnlessPresent(profile, sourceLine, fmt.Sprintf("\n# %s CLI completion\n%s\n", cli, sourceLine)); err != nil {
			return err
		}
		console.Info("Restart your shell or run: source ~/.bashrc")

	case "zsh":
		dir := filepath.Join(home, ".zsh", "completions")
		if err := paths.EnsureDir(dir); err != nil {
			return err
		}
		target := filepath.Join(dir, "_"+cli)
		if err := paths.WriteFile(target, []byte(script), true); err != nil {
			return err
		}
		console.Success("Completion script installed to: %s", target)
		console.Info("Ensure %s is on your fpath, then restart your shell", dir)
	}
	return nil
}

func appendUnlessPresent(path, marker, block string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if strings.Contains(string(data), marker) {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(block)
	return err
}
