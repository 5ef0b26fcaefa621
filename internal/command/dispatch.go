package command

import (
	"fmt"
	"strings"

	"github.com/fastman-labs/fastman/internal/logging"
	"github.com/fastman-labs/fastman/internal/signature"
)

// Dispatch resolves the first token to a registered command, binds the
// remaining tokens against its signature, and runs the handler. Handler
// failures and panics are returned as errors, never propagated as crashes;
// the caller maps them to an exit code with ExitCode.
func (r *Registry) Dispatch(ctx *Context, tokens []string) (err error) {
	if len(tokens) == 0 {
		return &CommandNotFoundError{Name: ""}
	}

	entry, err := r.Lookup(tokens[0])
	if err != nil {
		return err
	}

	in, err := bind(entry.Signature, tokens[1:])
	if err != nil {
		return err
	}

	logging.Debug().Str("command", entry.Signature.Name).Msg("dispatching")

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("command %s: internal fault: %v", entry.Signature.Name, rec)
		}
	}()

	if err := entry.Command.Handle(ctx, in); err != nil {
		return fmt.Errorf("command %s: %w", entry.Signature.Name, err)
	}
	return nil
}

// bind matches raw tokens to a signature: positionals in declared order,
// --name=value and --name value interchangeably for options, bare --name
// for flags. Undeclared names are an UnknownOptionError.
func bind(sig *signature.Signature, tokens []string) (*Invocation, error) {
	in := &Invocation{
		options: make(map[string]string, len(sig.Options)),
		flags:   make(map[string]bool, len(sig.Flags)),
	}
	for _, opt := range sig.Options {
		in.options[opt.Name] = opt.Default
	}

	var positionals []string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !strings.HasPrefix(tok, "--") {
			positionals = append(positionals, tok)
			continue
		}

		name := tok[2:]
		value := ""
		hasValue := false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name, value = name[:eq], name[eq+1:]
			hasValue = true
		}

		switch {
		case sig.HasFlag(name) && !hasValue:
			in.flags[name] = true
		case hasOption(sig, name):
			if !hasValue {
				// --name value form: consume the next token when it
				// is not itself an option.
				if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "--") {
					value = tokens[i+1]
					i++
				}
			}
			if value != "" {
				in.options[name] = value
			}
		default:
			return nil, &UnknownOptionError{Command: sig.Name, Option: name}
		}
	}

	for i, arg := range sig.Arguments {
		if i < len(positionals) {
			in.args = append(in.args, positionals[i])
			continue
		}
		if arg.Required {
			return nil, &MissingArgumentError{Command: sig.Name, Argument: arg.Name}
		}
		in.args = append(in.args, arg.Default)
	}
	if extra := len(positionals) - len(sig.Arguments); extra > 0 {
		logging.Warn().Str("command", sig.Name).Int("extra", extra).Msg("ignoring extra positional arguments")
	}

	return in, nil
}

func hasOption(sig *signature.Signature, name string) bool {
	_, ok := sig.Option(name)
	return ok
}
