// Package shellrc registers the pyproj binary directory on the user's shell
// PATH by appending an export line to the shell profile. A sentinel comment
// written alongside the export makes the registration idempotent.
package shellrc
