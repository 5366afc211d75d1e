package manifest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// packageNamePattern accepts PEP 508 distribution names.
var packageNamePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)

// ValidationResult contains the outcome of a manifest validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single problem found in a manifest.
type ValidationIssue struct {
	Package string // empty for file-level issues
	Message string
}

// Validate checks pins for well-formed names, exact semantic versions and
// duplicate packages.
func Validate(pins []Pin) *ValidationResult {
	var issues []ValidationIssue
	seen := make(map[string]bool)

	if len(pins) == 0 {
		issues = append(issues, ValidationIssue{Message: "manifest has no pins"})
	}

	for _, p := range pins {
		if !packageNamePattern.MatchString(p.Package) {
			issues = append(issues, ValidationIssue{
				Package: p.Package,
				Message: fmt.Sprintf("invalid package name %q", p.Package),
			})
		}

		key := normalizeName(p.Package)
		if seen[key] {
			issues = append(issues, ValidationIssue{
				Package: p.Package,
				Message: "duplicate package",
			})
		}
		seen[key] = true

		if _, err := semver.StrictNewVersion(p.Version); err != nil {
			issues = append(issues, ValidationIssue{
				Package: p.Package,
				Message: fmt.Sprintf("version %q is not an exact release: %v", p.Version, err),
			})
		}
	}

	return &ValidationResult{Valid: len(issues) == 0, Issues: issues}
}

// ValidateFile reads a manifest and validates its pins.
func ValidateFile(path string) (*ValidationResult, error) {
	pins, err := Parse(path)
	if err != nil {
		return nil, err
	}
	return Validate(pins), nil
}

// Matches reports whether pins are exactly DefaultPins, in order.
func Matches(pins []Pin) bool {
	if len(pins) != len(DefaultPins) {
		return false
	}
	for i, p := range pins {
		if normalizeName(p.Package) != normalizeName(DefaultPins[i].Package) || p.Version != DefaultPins[i].Version {
			return false
		}
	}
	return true
}

// normalizeName folds a distribution name per PEP 503.
func normalizeName(name string) string {
	name = strings.ToLower(name)
	return strings.NewReplacer("_", "-", ".", "-").Replace(name)
}
