package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pyproj-labs/pyproj/internal/config"
	"github.com/pyproj-labs/pyproj/internal/layout"
	"github.com/pyproj-labs/pyproj/internal/progress"
	"github.com/pyproj-labs/pyproj/internal/toolchain"
)

// Options configures a Workflow. Zero values fall back to the real process
// environment.
type Options struct {
	Out      io.Writer
	In       io.Reader
	Logger   *slog.Logger
	Runner   toolchain.Runner
	LookPath toolchain.LookPathFunc
	Settings config.Settings

	// Yes answers the PATH prompt affirmatively without asking.
	Yes bool
	// NoRegister skips the PATH prompt entirely.
	NoRegister bool
	// NoEditor stops after activation instead of launching the editor.
	NoEditor bool

	// BinDir is the directory appended to PATH in the shell profile.
	// Defaults to the directory of the running executable.
	BinDir  string
	HomeDir string

	Getwd   func() (string, error)
	Getenv  func(string) string
	Environ func() []string
}

// Workflow runs the validate-or-build procedure.
type Workflow struct {
	opts     Options
	log      *slog.Logger
	progress *progress.Indicator
}

// New fills unset options from the process environment.
func New(opts Options) *Workflow {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Runner == nil {
		opts.Runner = toolchain.ExecRunner{}
	}
	if opts.Settings.Python == "" {
		opts.Settings.Python = config.Default(config.KeyPython)
	}
	if opts.Settings.Editor == "" {
		opts.Settings.Editor = config.Default(config.KeyEditor)
	}
	if opts.Settings.MinPython == "" {
		opts.Settings.MinPython = toolchain.DefaultMinPython
	}
	if opts.Getwd == nil {
		opts.Getwd = os.Getwd
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Environ == nil {
		opts.Environ = os.Environ
	}
	if opts.HomeDir == "" {
		opts.HomeDir, _ = os.UserHomeDir()
	}
	if opts.BinDir == "" {
		if exe, err := os.Executable(); err == nil {
			opts.BinDir = filepath.Dir(exe)
		}
	}

	return &Workflow{
		opts:     opts,
		log:      opts.Logger,
		progress: progress.New(opts.Out),
	}
}

// Run resolves arg against the working directory, checks the toolchain and
// then validates or builds the project before launching the editor. The
// first failing step aborts the run; nothing is rolled back.
func (w *Workflow) Run(ctx context.Context, arg string) error {
	cwd, err := w.opts.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}
	p, err := layout.Resolve(arg, cwd)
	if err != nil {
		return err
	}
	w.log.Debug("resolved project", "root", p.Root, "name", p.Name)

	py, editor, err := w.preflight(ctx)
	if err != nil {
		return err
	}

	_, err = os.Stat(p.Root)
	switch {
	case err == nil:
		if err := w.validate(p); err != nil {
			return err
		}
	case errors.Is(err, os.ErrNotExist):
		if err := w.build(ctx, p, py); err != nil {
			return err
		}
	default:
		return fmt.Errorf("checking %s: %w", p.Root, err)
	}

	return w.activate(ctx, p, editor)
}

func (w *Workflow) preflight(ctx context.Context) (*toolchain.Python, *toolchain.Editor, error) {
	s := w.opts.Settings
	tools, err := toolchain.Preflight(w.opts.LookPath, s.Python, s.Editor)
	if err != nil {
		return nil, nil, err
	}
	w.log.Debug("toolchain found", "python", tools.Python, "editor", tools.Editor)

	py := &toolchain.Python{Bin: tools.Python, Runner: w.opts.Runner}
	v, err := py.Version(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := toolchain.CheckPythonVersion(v, s.MinPython); err != nil {
		return nil, nil, err
	}

	fmt.Fprintf(w.opts.Out, "[ OK ] %s (Python %s)\n", s.Python, v)
	fmt.Fprintf(w.opts.Out, "[ OK ] %s\n", s.Editor)

	return py, &toolchain.Editor{Bin: tools.Editor, Runner: w.opts.Runner}, nil
}

// validate checks an existing project. It only reads the filesystem.
func (w *Workflow) validate(p *layout.Project) error {
	w.log.Debug("validating existing project", "root", p.Root)
	if err := layout.Validate(p); err != nil {
		var me *layout.MissingError
		if errors.As(err, &me) {
			fmt.Fprintf(w.opts.Out, "[MISS] %s\n", me.Check.Label())
		}
		return err
	}
	fmt.Fprintf(w.opts.Out, "[ OK ] %s matches the project layout\n", p.Root)
	return nil
}

// activate hands the environment rooted at the venv symlink to the editor.
func (w *Workflow) activate(ctx context.Context, p *layout.Project, editor *toolchain.Editor) error {
	env := toolchain.ActivationEnv(w.opts.Environ(), p.VenvLinkPath())
	fmt.Fprintf(w.opts.Out, "[ OK ] activated %s\n", p.VenvLinkPath())

	if w.opts.NoEditor {
		fmt.Fprintf(w.opts.Out, "[SKIP] %s (--no-editor)\n", editor.Bin)
		return nil
	}

	w.log.Debug("launching editor", "editor", editor.Bin, "dir", p.Root)
	return editor.Open(ctx, p.Root, env)
}
