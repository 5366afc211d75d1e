// Package layout describes the on-disk shape of a pyproj project: the venv
// directory and its "venv" symlink, the fixed framework subdirectories, the
// dependency manifest and the CLI example file. The ordered checklist in
// this package is the compatibility contract between the builder, which
// creates the layout, and the validator, which re-checks it on later runs.
package layout
