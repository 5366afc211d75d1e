package layout

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pyproj-labs/pyproj/internal/platform"
)

// Kind tags what a Check expects to find.
type Kind int

const (
	KindDir Kind = iota
	KindFile
	KindSymlink
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindDir:
		return "directory"
	case KindFile:
		return "file"
	case KindSymlink:
		return "symlink"
	default:
		return "unknown"
	}
}

// Check is one required item of the layout.
type Check struct {
	Kind   Kind
	Rel    string // path relative to the project root
	Target string // expected link target, symlinks only
}

// Label describes the check for messages, e.g. "directory apps".
func (c Check) Label() string {
	if c.Kind == KindSymlink {
		return fmt.Sprintf("symlink %s -> %s", c.Rel, c.Target)
	}
	return fmt.Sprintf("%s %s", c.Kind, c.Rel)
}

// Checks returns the required items in the fixed order the validator
// evaluates them.
func (p *Project) Checks() []Check {
	checks := []Check{{Kind: KindDir, Rel: p.VenvName()}}
	for _, d := range Subdirs {
		checks = append(checks, Check{Kind: KindDir, Rel: d})
	}
	return append(checks,
		Check{Kind: KindFile, Rel: CLIExampleFile},
		Check{Kind: KindFile, Rel: ManifestFile},
		Check{Kind: KindSymlink, Rel: VenvLink, Target: p.VenvName()},
	)
}

// MissingError reports the first required item that failed its check.
type MissingError struct {
	Root  string
	Check Check
	Err   error
}

func (e *MissingError) Error() string {
	msg := fmt.Sprintf("%s: missing %s", e.Root, e.Check.Label())
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MissingError) Unwrap() error { return e.Err }

// errWrongTarget is returned when the venv link exists but names a
// different directory.
var errWrongTarget = errors.New("link points elsewhere")

// Validate runs the checklist in order and returns a *MissingError for the
// first failure. Later checks are not evaluated. Validate never writes.
func Validate(p *Project) error {
	for _, c := range p.Checks() {
		if err := p.evaluate(c); err != nil {
			return &MissingError{Root: p.Root, Check: c, Err: err}
		}
	}
	return nil
}

// Status is the outcome of one check in an Inspect report.
type Status struct {
	Check Check
	Err   error
}

// OK reports whether the check passed.
func (s Status) OK() bool { return s.Err == nil }

// Inspect evaluates every check without short-circuiting.
func Inspect(p *Project) []Status {
	checks := p.Checks()
	out := make([]Status, 0, len(checks))
	for _, c := range checks {
		out = append(out, Status{Check: c, Err: p.evaluate(c)})
	}
	return out
}

// WriteReport prints an Inspect report with [ OK ]/[MISS] markers and
// returns the number of failed checks.
func WriteReport(w io.Writer, p *Project, statuses []Status) int {
	fmt.Fprintf(w, "Layout check: %s\n", p.Root)
	missing := 0
	for _, s := range statuses {
		if s.OK() {
			fmt.Fprintf(w, "  [ OK ] %s\n", s.Check.Label())
			continue
		}
		missing++
		fmt.Fprintf(w, "  [MISS] %s (%v)\n", s.Check.Label(), s.Err)
	}
	return missing
}

func (p *Project) evaluate(c Check) error {
	path := p.Path(c.Rel)

	switch c.Kind {
	case KindDir:
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s exists but is not a directory", path)
		}
		return nil

	case KindFile:
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory, expected file", path)
		}
		return nil

	case KindSymlink:
		ok, err := platform.SymlinkPointsTo(path, c.Target)
		if err != nil {
			return err
		}
		if !ok {
			target, _ := platform.ReadSymlinkTarget(path)
			return fmt.Errorf("%w: %s", errWrongTarget, target)
		}
		return nil

	default:
		return fmt.Errorf("unknown check kind %d", c.Kind)
	}
}
