package project

import (
	"context"
	"fmt"
	"os"

	"github.com/pyproj-labs/pyproj/internal/layout"
	"github.com/pyproj-labs/pyproj/internal/manifest"
	"github.com/pyproj-labs/pyproj/internal/platform"
	"github.com/pyproj-labs/pyproj/internal/scaffold"
	"github.com/pyproj-labs/pyproj/internal/shellrc"
	"github.com/pyproj-labs/pyproj/internal/toolchain"
)

type step struct {
	label string
	run   func() error
}

// build creates a new project at p.Root. Steps run in order and the first
// failure aborts; whatever was already created stays on disk.
func (w *Workflow) build(ctx context.Context, p *layout.Project, py *toolchain.Python) error {
	fmt.Fprintf(w.opts.Out, "Creating %s in %s\n", p.Name, p.Root)

	steps := []step{
		{"Creating project directory", func() error {
			return os.MkdirAll(p.Root, layout.DirPerm)
		}},
		{"Creating virtual environment " + p.VenvName(), func() error {
			return py.CreateVenv(ctx, p.VenvDir())
		}},
		{"Writing " + layout.ManifestFile, func() error {
			return manifest.Write(p.ManifestPath())
		}},
		{"Creating project folders", func() error {
			return createSubdirs(p)
		}},
		{"Linking " + layout.VenvLink + " -> " + p.VenvName(), func() error {
			return platform.CreateSymlink(p.VenvName(), p.VenvLinkPath())
		}},
		{"Upgrading pip", func() error {
			return py.UpgradePip(ctx, p.VenvDir())
		}},
		{"Installing dependencies", func() error {
			return py.Install(ctx, p.VenvDir(), p.ManifestPath())
		}},
		{"Writing example apps", func() error {
			res, err := scaffold.Generate(p)
			if err == nil {
				w.log.Debug("examples written", "files", res.Files)
			}
			return err
		}},
	}

	for _, s := range steps {
		w.log.Debug("step", "label", s.label)
		if err := w.progress.Run(s.label, s.run); err != nil {
			return err
		}
	}

	return w.register()
}

func createSubdirs(p *layout.Project) error {
	for _, d := range layout.Subdirs {
		if err := os.Mkdir(p.Path(d), layout.DirPerm); err != nil {
			return fmt.Errorf("creating %s: %w", d, err)
		}
	}
	return nil
}

// register offers to append the binary directory to the shell profile.
// It never asks twice: a profile carrying the sentinel is left untouched.
func (w *Workflow) register() error {
	if w.opts.NoRegister {
		fmt.Fprintln(w.opts.Out, "[SKIP] PATH registration (--no-register)")
		return nil
	}
	if w.opts.BinDir == "" {
		w.log.Warn("cannot determine executable directory; skipping PATH registration")
		fmt.Fprintln(w.opts.Out, "[SKIP] PATH registration")
		return nil
	}

	profile := shellrc.ProfilePath(w.opts.Settings.Profile, w.opts.Getenv("SHELL"), w.opts.HomeDir)
	registered, err := shellrc.IsRegistered(profile)
	if err != nil {
		return err
	}
	if registered {
		w.log.Debug("profile already registered", "profile", profile)
		fmt.Fprintf(w.opts.Out, "[ OK ] PATH already registered in %s\n", profile)
		return nil
	}

	ok := w.opts.Yes
	if !ok {
		question := fmt.Sprintf("Add %s to PATH in %s?", w.opts.BinDir, profile)
		ok, err = shellrc.Confirm(w.opts.In, w.opts.Out, question)
		if err != nil {
			return err
		}
	}
	if !ok {
		fmt.Fprintln(w.opts.Out, "[SKIP] PATH registration")
		return nil
	}

	if _, err := shellrc.Register(profile, w.opts.BinDir); err != nil {
		return err
	}
	fmt.Fprintf(w.opts.Out, "[ OK ] added %s to PATH in %s (restart your shell)\n", w.opts.BinDir, profile)
	return nil
}
