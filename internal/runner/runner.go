// Package runner executes external tools (package managers, alembic, the
// project interpreter) with a hard wall-clock timeout and classified
// failures.
//
// A call never hangs: on timeout the child is forcibly terminated and the
// outcome carries a TimeoutError. A non-zero exit is returned as a
// NonZeroExitError with the captured stderr, so callers can decide whether
// to retry, prompt, or abort.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/fastman-labs/fastman/internal/logging"
)

// Outcome captures the result of one external process invocation.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// TimeoutError reports a process terminated for exceeding its wall-clock
// budget.
type TimeoutError struct {
	Argv    []string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", strings.Join(e.Argv, " "), e.Timeout)
}

// NonZeroExitError reports a process that ran to completion with a failure
// exit code.
type NonZeroExitError struct {
	Argv     []string
	ExitCode int
	Stderr   string
}

func (e *NonZeroExitError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", strings.Join(e.Argv, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Options adjust a single Run call.
type Options struct {
	// Timeout is the hard wall-clock budget; zero means unbounded
	// (used for long-lived children like the development server).
	Timeout time.Duration
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Stdout/Stderr, when set, receive the child's output as it is
	// produced in addition to the captured Outcome copies.
	Stdout io.Writer
	Stderr io.Writer
	// Stdin, when set, is connected to the child.
	Stdin io.Reader
	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

// Run executes argv and returns its Outcome. The error, when non-nil, is a
// *TimeoutError, a *NonZeroExitError, or a start failure (e.g. binary not
// found); the Outcome is returned alongside the first two so callers keep
// the captured output.
func Run(ctx context.Context, argv []string, opts Options) (*Outcome, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command line")
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if opts.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = opts.Dir
	cmd.Stdin = opts.Stdin
	if opts.Env != nil {
		cmd.Env = opts.Env
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	if opts.Stdout != nil {
		cmd.Stdout = io.MultiWriter(opts.Stdout, &stdoutBuf)
	}
	if opts.Stderr != nil {
		cmd.Stderr = io.MultiWriter(opts.Stderr, &stderrBuf)
	}

	logging.Debug().Strs("argv", argv).Dur("timeout", opts.Timeout).Msg("running external process")

	start := time.Now()
	err := cmd.Run()

	outcome := &Outcome{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: time.Since(start),
	}

	if runCtx.Err() == context.DeadlineExceeded {
		outcome.ExitCode = -1
		logging.Warn().Strs("argv", argv).Msg("process killed on timeout")
		return outcome, &TimeoutError{Argv: argv, Timeout: opts.Timeout}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			outcome.ExitCode = exitErr.ExitCode()
			return outcome, &NonZeroExitError{Argv: argv, ExitCode: outcome.ExitCode, Stderr: outcome.Stderr}
		}
		return outcome, fmt.Errorf("starting %s: %w", argv[0], err)
	}

	outcome.ExitCode = 0
	return outcome, nil
}

// LookPath reports whether an executable is available on PATH.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
