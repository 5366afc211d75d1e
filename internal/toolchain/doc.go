// Package toolchain wraps the external programs pyproj drives: the Python
// interpreter (venv creation, pip) and the editor launcher. Every subprocess
// goes through the Runner interface so the workflow can be exercised without
// Python or an editor installed.
package toolchain
