// Package config manages user-level settings stored at ~/.pyproj/config.yaml.
// It provides functions to load, read, and write the keys that pick the
// Python interpreter, the editor launcher, the shell profile and the minimum
// interpreter version. Every key can be overridden with a PYPROJ_* variable.
package config
