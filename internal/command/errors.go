package command

import (
	"errors"
	"fmt"
)

// CommandNotFoundError reports an invocation naming no registered command.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("command %q not found, run \"list\" to see available commands", e.Name)
}

// MissingArgumentError names the first unfilled required argument.
type MissingArgumentError struct {
	Command  string
	Argument string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("%s: missing required argument %q", e.Command, e.Argument)
}

// UnknownOptionError reports an option or flag the signature does not declare.
type UnknownOptionError struct {
	Command string
	Option  string
}

func (e *UnknownOptionError) Error() string {
	return fmt.Sprintf("%s: unknown option --%s", e.Command, e.Option)
}

// IsUserError reports whether err is caused by the invocation rather than
// the tool, which drives the process exit code.
func IsUserError(err error) bool {
	var notFound *CommandNotFoundError
	var missing *MissingArgumentError
	var unknown *UnknownOptionError
	return errors.As(err, &notFound) || errors.As(err, &missing) || errors.As(err, &unknown)
}

// Exit codes for the process boundary.
const (
	ExitOK        = 0
	ExitInternal  = 1
	ExitUserError = 2
	ExitInterrupt = 130
)

// ExitCode maps a dispatch error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsUserError(err):
		return ExitUserError
	default:
		return ExitInternal
	}
}
