package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command describes one subprocess invocation.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	Env    []string // nil inherits the current environment
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for messages.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run starts the command and waits for it. A non-zero exit is returned as
// a *StepError carrying the exit code.
func (ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &StepError{Command: c.String(), ExitCode: exitErr.ExitCode(), Err: err}
	}
	return fmt.Errorf("executing %s: %w", c.String(), err)
}

// StepError reports a subprocess that exited unsuccessfully.
type StepError struct {
	Command  string
	ExitCode int
	Output   string // captured combined output, if any
	Err      error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *StepError) Unwrap() error { return e.Err }

// runCaptured runs c with stdout and stderr collected into one buffer. On a
// *StepError the captured text is attached so the user sees why pip or venv
// failed.
func runCaptured(ctx context.Context, r Runner, c Command) (string, error) {
	var buf bytes.Buffer
	c.Stdout = &buf
	c.Stderr = &buf
	err := r.Run(ctx, c)
	if err != nil {
		var stepErr *StepError
		if errors.As(err, &stepErr) && stepErr.Output == "" {
			stepErr.Output = buf.String()
		}
	}
	return buf.String(), err
}
