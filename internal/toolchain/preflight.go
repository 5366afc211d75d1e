package toolchain

import (
	"fmt"
	"os/exec"
)

// LookPathFunc resolves an executable name on the search path.
type LookPathFunc func(file string) (string, error)

// Tools holds the resolved external programs.
type Tools struct {
	Python string
	Editor string
}

// MissingToolError reports a required program that is not on the PATH.
type MissingToolError struct {
	Name    string
	Purpose string
	Err     error
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("%s not found on PATH (needed for %s)", e.Name, e.Purpose)
}

func (e *MissingToolError) Unwrap() error { return e.Err }

// Preflight verifies that the interpreter and the editor launcher are on the
// search path, checking the interpreter first. lookPath defaults to
// exec.LookPath.
func Preflight(lookPath LookPathFunc, python, editor string) (*Tools, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	pyPath, err := lookPath(python)
	if err != nil {
		return nil, &MissingToolError{Name: python, Purpose: "creating the virtual environment", Err: err}
	}

	edPath, err := lookPath(editor)
	if err != nil {
		return nil, &MissingToolError{Name: editor, Purpose: "opening the project", Err: err}
	}

	return &Tools{Python: pyPath, Editor: edPath}, nil
}
