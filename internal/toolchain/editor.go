package toolchain

import (
	"context"
	"fmt"
	"os"
)

// Editor launches the configured editor on a project directory.
type Editor struct {
	Bin    string
	Runner Runner
}

// NewEditor returns an Editor using ExecRunner.
func NewEditor(bin string) *Editor {
	return &Editor{Bin: bin, Runner: ExecRunner{}}
}

// Open runs "<bin> ." inside dir with env, attached to the terminal.
func (e *Editor) Open(ctx context.Context, dir string, env []string) error {
	c := Command{
		Name:   e.Bin,
		Args:   []string{"."},
		Dir:    dir,
		Env:    env,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	if err := e.Runner.Run(ctx, c); err != nil {
		return fmt.Errorf("running editor %s: %w", e.Bin, err)
	}
	return nil
}
