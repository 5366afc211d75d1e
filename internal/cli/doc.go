// Package cli defines the Cobra command tree for the pyproj CLI. The root
// command takes the project name or path; doctor, config and version are
// registered as subcommands from their own files. Commands delegate to
// internal packages and only handle flags, output and exit status.
package cli
