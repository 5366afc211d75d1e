package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// sidecarSuffix names the file that records a link target when the platform
// cannot create a native symlink.
const sidecarSuffix = ".target"

// CreateSymlink creates a symbolic link at link pointing to target. Targets
// are stored as given, so a relative target stays relative to the link's
// directory. On Windows without developer mode the target is written to a
// <link>.target sidecar that ReadSymlinkTarget understands.
func CreateSymlink(target, link string) error {
	err := os.Symlink(target, link)
	if err == nil || runtime.GOOS != "windows" {
		return err
	}

	if werr := os.WriteFile(link+sidecarSuffix, []byte(target), 0644); werr != nil {
		return fmt.Errorf("symlink fallback (sidecar) failed: %w", werr)
	}
	return nil
}

// ReadSymlinkTarget returns the target of a symlink exactly as it was
// recorded. On Windows, if os.Readlink fails because the sidecar fallback was
// used, the target is read from the sidecar.
func ReadSymlinkTarget(path string) (string, error) {
	target, err := os.Readlink(path)
	if err == nil {
		return target, nil
	}

	if runtime.GOOS != "windows" {
		return "", err
	}

	data, readErr := os.ReadFile(path + sidecarSuffix)
	if readErr != nil {
		return "", fmt.Errorf("readlink failed and no %s sidecar found: %w", sidecarSuffix, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SymlinkPointsTo reports whether the link at path exists and its recorded
// target names want. Relative and absolute spellings of the same directory
// both match.
func SymlinkPointsTo(path, want string) (bool, error) {
	target, err := ReadSymlinkTarget(path)
	if err != nil {
		return false, err
	}
	if target == want {
		return true, nil
	}

	dir := filepath.Dir(path)
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(dir, p)
	}
	return resolve(target) == resolve(want), nil
}

// IsSymlinkSupported returns true if the current platform supports native symlinks.
// On Windows this attempts a test symlink to check developer mode.
func IsSymlinkSupported() bool {
	if runtime.GOOS != "windows" {
		return true
	}

	tmpDir := os.TempDir()
	link := filepath.Join(tmpDir, ".pyproj-symlink-test")
	defer os.Remove(link)

	return os.Symlink(tmpDir, link) == nil
}
