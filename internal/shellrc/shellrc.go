package shellrc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pyproj-labs/pyproj/internal/branding"
)

// ProfilePath picks the profile file to modify. An explicit override wins;
// otherwise the login shell's base name selects ~/.zshrc, ~/.bashrc or
// ~/.profile.
func ProfilePath(override, shell, home string) string {
	if override != "" {
		return override
	}
	switch filepath.Base(shell) {
	case "zsh":
		return filepath.Join(home, ".zshrc")
	case "bash":
		return filepath.Join(home, ".bashrc")
	default:
		return filepath.Join(home, ".profile")
	}
}

// ExportLine returns the PATH export appended for dir.
func ExportLine(dir string) string {
	return fmt.Sprintf(`export PATH="$PATH:%s"`, dir)
}

// IsRegistered reports whether the profile already carries the sentinel.
// A missing profile counts as not registered.
func IsRegistered(profile string) (bool, error) {
	content, err := os.ReadFile(profile)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", profile, err)
	}
	return hasSentinel(string(content)), nil
}

func hasSentinel(content string) bool {
	sentinel := branding.Sentinel()
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == sentinel {
			return true
		}
	}
	return false
}

// Register appends the sentinel and the PATH export for dir to profile,
// creating the file if needed. If the sentinel is already present this is a
// no-op. It reports whether anything was appended.
func Register(profile, dir string) (bool, error) {
	content, err := os.ReadFile(profile)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("reading %s: %w", profile, err)
	}

	if hasSentinel(string(content)) {
		return false, nil
	}

	suffix := branding.Sentinel() + "\n" + ExportLine(dir) + "\n"
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		suffix = "\n" + suffix
	}

	f, err := os.OpenFile(profile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return false, fmt.Errorf("opening %s for append: %w", profile, err)
	}
	defer f.Close()

	if _, err := f.WriteString(suffix); err != nil {
		return false, fmt.Errorf("writing to %s: %w", profile, err)
	}
	return true, nil
}

// Confirm asks a yes/no question on w and reads the answer from r. Only
// "y" or "yes" (any case) count as yes; an empty answer or EOF is no.
func Confirm(r io.Reader, w io.Writer, question string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N]: ", question)

	answer, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
