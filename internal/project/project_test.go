package project

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/pyproj-labs/pyproj/internal/config"
	"github.com/pyproj-labs/pyproj/internal/layout"
	"github.com/pyproj-labs/pyproj/internal/manifest"
	"github.com/pyproj-labs/pyproj/internal/scaffold"
	"github.com/pyproj-labs/pyproj/internal/toolchain"
)

// fakeRunner stands in for python, pip and the editor. "-m venv <dir>"
// creates dir so the resulting layout validates.
type fakeRunner struct {
	calls   []toolchain.Command
	version string
	failOn  string
}

func (f *fakeRunner) Run(_ context.Context, c toolchain.Command) error {
	f.calls = append(f.calls, c)
	line := c.String()

	if f.failOn != "" && strings.Contains(line, f.failOn) {
		if c.Stdout != nil {
			io.WriteString(c.Stdout, "ERROR: simulated failure")
		}
		return &toolchain.StepError{Command: line, ExitCode: 1, Err: errors.New("exit status 1")}
	}

	switch {
	case len(c.Args) == 1 && c.Args[0] == "--version":
		io.WriteString(c.Stdout, f.version)
	case len(c.Args) == 3 && c.Args[0] == "-m" && c.Args[1] == "venv":
		return os.MkdirAll(toolchain.VenvBin(c.Args[2]), 0755)
	}
	return nil
}

// editorCalls returns the commands that ran the editor.
func (f *fakeRunner) editorCalls() []toolchain.Command {
	var out []toolchain.Command
	for _, c := range f.calls {
		if len(c.Args) == 1 && c.Args[0] == "." {
			out = append(out, c)
		}
	}
	return out
}

type fixture struct {
	cwd     string
	home    string
	runner  *fakeRunner
	out     *bytes.Buffer
	missing string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		cwd:    t.TempDir(),
		home:   t.TempDir(),
		runner: &fakeRunner{version: "Python 3.12.1\n"},
		out:    &bytes.Buffer{},
	}
}

func (f *fixture) workflow(mod func(*Options)) *Workflow {
	opts := Options{
		Out:    f.out,
		In:     strings.NewReader(""),
		Runner: f.runner,
		LookPath: func(name string) (string, error) {
			if name == f.missing {
				return "", exec.ErrNotFound
			}
			return "/usr/bin/" + name, nil
		},
		Settings: config.Settings{Python: "python3", Editor: "code", MinPython: "3.8.0"},
		BinDir:   "/opt/pyproj/bin",
		HomeDir:  f.home,
		Getwd:    func() (string, error) { return f.cwd, nil },
		Getenv: func(key string) string {
			if key == "SHELL" {
				return "/bin/zsh"
			}
			return ""
		},
		Environ: func() []string { return []string{"PATH=/usr/bin", "PYTHONHOME=/x"} },
	}
	if mod != nil {
		mod(&opts)
	}
	return New(opts)
}

func TestRunBuildsNewProject(t *testing.T) {
	f := newFixture(t)
	if err := f.workflow(func(o *Options) { o.NoRegister = true }).Run(context.Background(), "demo"); err != nil {
		t.Fatalf("Run: %v\n%s", err, f.out)
	}

	root := filepath.Join(f.cwd, "demo")
	for _, d := range append([]string{"demo-venv"}, layout.Subdirs...) {
		info, err := os.Stat(filepath.Join(root, d))
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s: %v", d, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(root, "requirements.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, manifest.Render(manifest.DefaultPins)) {
		t.Errorf("manifest =\n%s", data)
	}

	for _, ex := range scaffold.Examples {
		want, _ := scaffold.Content(ex.Rel)
		got, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(ex.Rel)))
		if err != nil {
			t.Errorf("example %s: %v", ex.Rel, err)
			continue
		}
		if !bytes.Equal(got, want) {
			t.Errorf("example %s differs from template", ex.Rel)
		}
	}

	target, err := os.Readlink(filepath.Join(root, "venv"))
	if err != nil {
		t.Fatal(err)
	}
	if target != "demo-venv" {
		t.Errorf("venv -> %q, want demo-venv", target)
	}

	p := &layout.Project{Root: root, Name: "demo"}
	if err := layout.Validate(p); err != nil {
		t.Errorf("built project does not validate: %v", err)
	}
}

func TestRunCommandOrder(t *testing.T) {
	f := newFixture(t)
	if err := f.workflow(func(o *Options) { o.NoRegister = true }).Run(context.Background(), "demo"); err != nil {
		t.Fatal(err)
	}

	root := filepath.Join(f.cwd, "demo")
	venvPy := toolchain.VenvPython(filepath.Join(root, "demo-venv"))
	want := []string{
		"/usr/bin/python3 --version",
		"/usr/bin/python3 -m venv " + filepath.Join(root, "demo-venv"),
		venvPy + " -m pip install --upgrade pip",
		venvPy + " -m pip install -r " + filepath.Join(root, "requirements.txt"),
		"/usr/bin/code .",
	}
	var got []string
	for _, c := range f.runner.calls {
		got = append(got, c.String())
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("commands:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestRunEditorGetsActivatedEnv(t *testing.T) {
	f := newFixture(t)
	if err := f.workflow(func(o *Options) { o.NoRegister = true }).Run(context.Background(), "demo"); err != nil {
		t.Fatal(err)
	}

	calls := f.runner.editorCalls()
	if len(calls) != 1 {
		t.Fatalf("editor launched %d times, want 1", len(calls))
	}
	c := calls[0]
	root := filepath.Join(f.cwd, "demo")
	if c.Dir != root {
		t.Errorf("editor dir = %q, want %q", c.Dir, root)
	}

	env := strings.Join(c.Env, "\n")
	venv := filepath.Join(root, "venv")
	if !strings.Contains(env, "VIRTUAL_ENV="+venv) {
		t.Errorf("VIRTUAL_ENV not set:\n%s", env)
	}
	if !strings.Contains(env, "PATH="+toolchain.VenvBin(venv)+string(os.PathListSeparator)+"/usr/bin") {
		t.Errorf("PATH not prefixed:\n%s", env)
	}
	if strings.Contains(env, "PYTHONHOME=") {
		t.Errorf("PYTHONHOME should be removed:\n%s", env)
	}
}

func TestRunSecondRunWritesNothing(t *testing.T) {
	f := newFixture(t)
	wf := f.workflow(func(o *Options) { o.NoRegister = true })
	if err := wf.Run(context.Background(), "demo"); err != nil {
		t.Fatal(err)
	}

	root := filepath.Join(f.cwd, "demo")
	before := snapshot(t, root)
	f.runner.calls = nil

	if err := wf.Run(context.Background(), "demo"); err != nil {
		t.Fatalf("second Run: %v\n%s", err, f.out)
	}
	if after := snapshot(t, root); after != before {
		t.Errorf("second run modified the project:\nbefore:\n%s\nafter:\n%s", before, after)
	}

	// Only the version probe and the editor run on a valid project.
	if len(f.runner.calls) != 2 {
		t.Errorf("second run made %d calls, want 2: %v", len(f.runner.calls), f.runner.calls)
	}
}

func TestRunExistingInvalid(t *testing.T) {
	f := newFixture(t)
	root := filepath.Join(f.cwd, "demo")
	if err := os.MkdirAll(filepath.Join(root, "demo-venv"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "notebooks"), 0755); err != nil {
		t.Fatal(err)
	}

	err := f.workflow(nil).Run(context.Background(), root)
	var me *layout.MissingError
	if !errors.As(err, &me) {
		t.Fatalf("Run error = %v, want *layout.MissingError", err)
	}
	if me.Check.Rel != layout.StreamlitDir {
		t.Errorf("reported %q, want streamlit", me.Check.Label())
	}
	if !strings.Contains(f.out.String(), "[MISS] directory streamlit") {
		t.Errorf("output should flag streamlit:\n%s", f.out)
	}
	if len(f.runner.editorCalls()) != 0 {
		t.Error("editor must not launch on a failed validation")
	}
	if _, err := os.Stat(filepath.Join(root, "requirements.txt")); !os.IsNotExist(err) {
		t.Error("validation must not create files")
	}
}

func TestRunMissingTool(t *testing.T) {
	tests := []struct {
		missing string
	}{
		{"python3"},
		{"code"},
	}
	for _, tt := range tests {
		t.Run(tt.missing, func(t *testing.T) {
			f := newFixture(t)
			f.missing = tt.missing

			err := f.workflow(nil).Run(context.Background(), "demo")
			var mt *toolchain.MissingToolError
			if !errors.As(err, &mt) {
				t.Fatalf("Run error = %v, want *MissingToolError", err)
			}
			if mt.Name != tt.missing {
				t.Errorf("missing tool = %q, want %q", mt.Name, tt.missing)
			}
			if _, err := os.Stat(filepath.Join(f.cwd, "demo")); !os.IsNotExist(err) {
				t.Error("nothing should be created when preflight fails")
			}
		})
	}
}

func TestRunRejectsOldPython(t *testing.T) {
	f := newFixture(t)
	f.runner.version = "Python 3.6.9"

	err := f.workflow(nil).Run(context.Background(), "demo")
	if err == nil || !strings.Contains(err.Error(), "3.8.0") {
		t.Fatalf("Run error = %v, want minimum version error", err)
	}
	if _, err := os.Stat(filepath.Join(f.cwd, "demo")); !os.IsNotExist(err) {
		t.Error("nothing should be created for an unsupported interpreter")
	}
}

func TestRunAbortsOnInstallFailure(t *testing.T) {
	f := newFixture(t)
	f.runner.failOn = "install -r"

	err := f.workflow(func(o *Options) { o.NoRegister = true }).Run(context.Background(), "demo")
	var se *toolchain.StepError
	if !errors.As(err, &se) {
		t.Fatalf("Run error = %v, want *StepError", err)
	}
	if !strings.Contains(se.Output, "simulated failure") {
		t.Errorf("step output not captured: %q", se.Output)
	}

	root := filepath.Join(f.cwd, "demo")
	if _, err := os.Stat(filepath.Join(root, "apps", "cli_example.py")); !os.IsNotExist(err) {
		t.Error("examples must not be written after a failed install")
	}
	// Earlier steps are not rolled back.
	if _, err := os.Stat(filepath.Join(root, "requirements.txt")); err != nil {
		t.Errorf("manifest should remain after abort: %v", err)
	}
	if len(f.runner.editorCalls()) != 0 {
		t.Error("editor must not launch after a failed step")
	}
	if !strings.Contains(f.out.String(), "✗ Installing dependencies") {
		t.Errorf("failure mark missing:\n%s", f.out)
	}
}

func TestRunNoEditor(t *testing.T) {
	f := newFixture(t)
	err := f.workflow(func(o *Options) {
		o.NoRegister = true
		o.NoEditor = true
	}).Run(context.Background(), "demo")
	if err != nil {
		t.Fatal(err)
	}
	if len(f.runner.editorCalls()) != 0 {
		t.Error("editor launched despite NoEditor")
	}
	if !strings.Contains(f.out.String(), "[SKIP] /usr/bin/code (--no-editor)") {
		t.Errorf("skip line missing:\n%s", f.out)
	}
}

func TestRunRegisterPath(t *testing.T) {
	tests := []struct {
		name     string
		yes      bool
		input    string
		wantLine bool
	}{
		{"flag yes", true, "", true},
		{"answered yes", false, "y\n", true},
		{"answered no", false, "n\n", false},
		{"no answer", false, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.workflow(func(o *Options) {
				o.Yes = tt.yes
				o.In = strings.NewReader(tt.input)
			}).Run(context.Background(), "demo")
			if err != nil {
				t.Fatal(err)
			}

			data, err := os.ReadFile(filepath.Join(f.home, ".zshrc"))
			got := err == nil && strings.Contains(string(data), `export PATH="$PATH:/opt/pyproj/bin"`)
			if got != tt.wantLine {
				t.Errorf("PATH export present = %v, want %v (%q)", got, tt.wantLine, data)
			}
		})
	}
}

func TestRunRegisterSkipsWhenSentinelPresent(t *testing.T) {
	f := newFixture(t)
	profile := filepath.Join(f.home, "custom_rc")
	original := "# Added by pyproj\nexport PATH=\"$PATH:/old\"\n"
	if err := os.WriteFile(profile, []byte(original), 0644); err != nil {
		t.Fatal(err)
	}

	err := f.workflow(func(o *Options) {
		o.Yes = true
		o.Settings.Profile = profile
	}).Run(context.Background(), "demo")
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(profile)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != original {
		t.Errorf("profile modified:\n%s", data)
	}
	if strings.Contains(f.out.String(), "[y/N]") {
		t.Error("prompt shown although the sentinel is present")
	}
}

func TestRunExecutableExample(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no exec bit on windows")
	}
	f := newFixture(t)
	if err := f.workflow(func(o *Options) { o.NoRegister = true }).Run(context.Background(), "demo"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filepath.Join(f.cwd, "demo", "apps", "cli_example.py"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0111 == 0 {
		t.Errorf("cli_example.py mode = %v, want executable", info.Mode())
	}
}

// snapshot lists every entry under root with its mode and mtime.
func snapshot(t *testing.T, root string) string {
	t.Helper()
	var b strings.Builder
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		b.WriteString(rel + " " + info.Mode().String() + " " + info.ModTime().Format(time.RFC3339Nano) + "\n")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return b.String()
}
