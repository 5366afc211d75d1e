package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/pyproj-labs/pyproj/internal/layout"
	"github.com/pyproj-labs/pyproj/internal/platform"
)

//go:embed templates
var templateFS embed.FS

const templatesDir = "templates"

// Example is one file written into a new project.
type Example struct {
	Rel        string // slash-separated path relative to the project root
	Executable bool
}

// Examples lists the example files in the order they are written.
var Examples = []Example{
	{Rel: layout.CLIExampleFile, Executable: true},
	{Rel: "flask/app.py"},
	{Rel: "fastapi/main.py"},
	{Rel: "streamlit/app.py"},
	{Rel: "notebooks/exemple.ipynb"},
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
}

// Content returns the embedded bytes for an example path.
func Content(rel string) ([]byte, error) {
	data, err := fs.ReadFile(templateFS, path.Join(templatesDir, rel))
	if err != nil {
		return nil, fmt.Errorf("template %q not found: %w", rel, err)
	}
	return data, nil
}

// Generate writes every example file under p.Root. The framework
// subdirectories must already exist. Existing files are never overwritten;
// finding one aborts generation.
func Generate(p *layout.Project) (*Result, error) {
	result := &Result{OutputDir: p.Root}

	for _, ex := range Examples {
		data, err := Content(ex.Rel)
		if err != nil {
			return nil, err
		}

		perm := layout.FilePerm
		if ex.Executable {
			perm = layout.ExecutablePerm
		}

		outPath := p.Path(ex.Rel)
		if err := writeNew(outPath, data, perm); err != nil {
			return nil, err
		}
		// The umask may have stripped bits from the create mode.
		if err := platform.Chmod(outPath, perm); err != nil {
			return nil, fmt.Errorf("setting permissions on %s: %w", outPath, err)
		}

		result.Files = append(result.Files, filepath.FromSlash(ex.Rel))
	}

	return result, nil
}

func writeNew(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
