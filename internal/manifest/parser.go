package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Render returns the manifest body for pins, one line each, newline
// terminated.
func Render(pins []Pin) []byte {
	var buf bytes.Buffer
	for _, p := range pins {
		buf.WriteString(p.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Write writes DefaultPins to path. The file must not exist yet.
func Write(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("creating manifest %s: %w", path, err)
	}
	if _, err := f.Write(Render(DefaultPins)); err != nil {
		f.Close()
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing manifest %s: %w", path, err)
	}
	return nil
}

// Parse reads a manifest file and returns its pins in file order.
func Parse(path string) ([]Pin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	pins, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return pins, nil
}

// ParseBytes parses manifest content. Blank lines and # comments are
// skipped; every other line must have the form package==version.
func ParseBytes(data []byte) ([]Pin, error) {
	var pins []Pin
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, version, found := strings.Cut(line, "==")
		if !found {
			return nil, fmt.Errorf("line %d: %q is not pinned with ==", lineNo, line)
		}
		pins = append(pins, Pin{
			Package: strings.TrimSpace(name),
			Version: strings.TrimSpace(version),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pins, nil
}
