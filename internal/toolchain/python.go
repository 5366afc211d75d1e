package toolchain

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// DefaultMinPython is the oldest interpreter accepted when no minimum is
// configured.
const DefaultMinPython = "3.8.0"

var pythonVersionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// Python drives an interpreter binary.
type Python struct {
	Bin    string
	Runner Runner
}

// NewPython returns a Python using ExecRunner.
func NewPython(bin string) *Python {
	return &Python{Bin: bin, Runner: ExecRunner{}}
}

// Version runs "<bin> --version" and parses the reported release.
func (py *Python) Version(ctx context.Context) (*semver.Version, error) {
	out, err := runCaptured(ctx, py.Runner, Command{Name: py.Bin, Args: []string{"--version"}})
	if err != nil {
		return nil, fmt.Errorf("querying interpreter version: %w", err)
	}
	return ParsePythonVersion(out)
}

// ParsePythonVersion extracts the release from output such as
// "Python 3.12.1" or "Python 3.13.0rc2".
func ParsePythonVersion(out string) (*semver.Version, error) {
	m := pythonVersionPattern.FindStringSubmatch(out)
	if m == nil {
		return nil, fmt.Errorf("no version number in %q", out)
	}
	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	return semver.NewVersion(fmt.Sprintf("%s.%s.%s", m[1], m[2], patch))
}

// CheckPythonVersion rejects interpreters that are not Python 3 or are
// older than minimum.
func CheckPythonVersion(v *semver.Version, minimum string) error {
	if minimum == "" {
		minimum = DefaultMinPython
	}
	minV, err := semver.NewVersion(minimum)
	if err != nil {
		return fmt.Errorf("parsing minimum version %q: %w", minimum, err)
	}
	if v.Major() != 3 {
		return fmt.Errorf("python 3 is required, found %s", v)
	}
	if v.LessThan(minV) {
		return fmt.Errorf("python %s or newer is required, found %s", minV, v)
	}
	return nil
}

// CreateVenv runs "<bin> -m venv <dir>".
func (py *Python) CreateVenv(ctx context.Context, dir string) error {
	_, err := runCaptured(ctx, py.Runner, Command{Name: py.Bin, Args: []string{"-m", "venv", dir}})
	if err != nil {
		return fmt.Errorf("creating virtual environment %s: %w", dir, err)
	}
	return nil
}

// UpgradePip upgrades pip inside the environment at venvDir.
func (py *Python) UpgradePip(ctx context.Context, venvDir string) error {
	c := Command{
		Name: VenvPython(venvDir),
		Args: []string{"-m", "pip", "install", "--upgrade", "pip"},
	}
	if _, err := runCaptured(ctx, py.Runner, c); err != nil {
		return fmt.Errorf("upgrading pip: %w", err)
	}
	return nil
}

// Install installs the requirements file into the environment at venvDir.
func (py *Python) Install(ctx context.Context, venvDir, requirements string) error {
	c := Command{
		Name: VenvPython(venvDir),
		Args: []string{"-m", "pip", "install", "-r", requirements},
		Dir:  filepath.Dir(requirements),
	}
	if _, err := runCaptured(ctx, py.Runner, c); err != nil {
		return fmt.Errorf("installing %s: %w", filepath.Base(requirements), err)
	}
	return nil
}

// VenvBin returns the environment's executable directory.
func VenvBin(venvDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(venvDir, "Scripts")
	}
	return filepath.Join(venvDir, "bin")
}

// VenvPython returns the interpreter inside the environment.
func VenvPython(venvDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(VenvBin(venvDir), "python.exe")
	}
	return filepath.Join(VenvBin(venvDir), "python")
}
