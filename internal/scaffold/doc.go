// Package scaffold materializes the example files of a new project from
// templates embedded in the binary. Templates are copied byte for byte; no
// variables are substituted, so every project starts from identical
// examples.
package scaffold
