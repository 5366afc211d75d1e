package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Directory and file name constants for the project layout.
const (
	VenvLink       = "venv"
	VenvSuffix     = "-venv"
	ManifestFile   = "requirements.txt"
	CLIExampleFile = "apps/cli_example.py"
	NotebooksDir   = "notebooks"
	StreamlitDir   = "streamlit"
	AppsDir        = "apps"
	FlaskDir       = "flask"
	FastAPIDir     = "fastapi"
)

// Permission constants.
const (
	DirPerm        os.FileMode = 0755
	FilePerm       os.FileMode = 0644
	ExecutablePerm os.FileMode = 0755
)

// Subdirs lists the framework subdirectories in check order.
var Subdirs = []string{NotebooksDir, StreamlitDir, AppsDir, FlaskDir, FastAPIDir}

// Project holds the resolved paths of one project.
type Project struct {
	Root string // absolute project root
	Name string // base name of Root
}

// Resolve turns a user-supplied name or path into a Project. Relative
// arguments are joined onto cwd; the result is always absolute and clean.
func Resolve(arg, cwd string) (*Project, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, fmt.Errorf("project name or path is required")
	}

	root := arg
	if !filepath.IsAbs(root) {
		if cwd == "" {
			return nil, fmt.Errorf("resolving %q: current directory is unknown", arg)
		}
		root = filepath.Join(cwd, root)
	}
	root = filepath.Clean(root)

	name := filepath.Base(root)
	if name == string(filepath.Separator) || name == "." {
		return nil, fmt.Errorf("invalid project path %q", arg)
	}

	return &Project{Root: root, Name: name}, nil
}

// VenvName returns the environment directory name, e.g. "demo-venv".
func (p *Project) VenvName() string { return p.Name + VenvSuffix }

// VenvDir returns the absolute path of the environment directory.
func (p *Project) VenvDir() string { return filepath.Join(p.Root, p.VenvName()) }

// VenvLinkPath returns the absolute path of the "venv" symlink.
func (p *Project) VenvLinkPath() string { return filepath.Join(p.Root, VenvLink) }

// ManifestPath returns the absolute path of requirements.txt.
func (p *Project) ManifestPath() string { return filepath.Join(p.Root, ManifestFile) }

// Path joins rel onto the project root.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}
