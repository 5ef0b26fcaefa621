// Package command defines the command contract, the registry that holds
// every registered command, and the dispatcher that binds a raw invocation
// to a command's parsed signature and runs its handler.
package command

// Command is one registered CLI command. Signature returns the declarative
// grammar string (parsed once at registration), Description the one-line
// help text, and Handle the implementation.
type Command interface {
	Signature() string
	Description() string
	Handle(ctx *Context, in *Invocation) error
}

// Invocation is the bound form of one raw command line: positionals in
// declared order, option values after defaulting, and flag presence.
type Invocation struct {
	args    []string
	options map[string]string
	flags   map[string]bool
}

// Argument returns the positional argument at index i, or "" when the
// signature declares fewer arguments.
func (in *Invocation) Argument(i int) string {
	if i < 0 || i >= len(in.args) {
		return ""
	}
	return in.args[i]
}

// Option returns the bound value for a declared option ("" when the option
// has no default and was not given).
func (in *Invocation) Option(name string) string {
	return in.options[name]
}

// Flag reports whether a declared flag was present.
func (in *Invocation) Flag(name string) bool {
	return in.flags[name]
}
