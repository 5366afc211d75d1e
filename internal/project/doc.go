// Package project drives one pyproj invocation: it resolves the target,
// checks the toolchain, then either validates an existing project or builds
// a new one, and finally hands the activated environment to the editor.
package project
