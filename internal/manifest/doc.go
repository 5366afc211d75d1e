// Package manifest reads, writes and validates the pinned dependency
// manifest (requirements.txt) that pyproj places at a project root. The pin
// set is a fixed constant: every project gets the same four package==version
// lines, whatever its name.
package manifest
