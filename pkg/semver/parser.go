// Package semver checks relay protocol versions against accepted ranges.
package semver

import (
	"fmt"
	"regexp"
	"strings"

	masterminds "github.com/Masterminds/semver/v3"
)

const logPrefix = "semver:parser"

var (
	majorOnlyRegex    = regexp.MustCompile(`^\d+$`)
	exactVersionRegex = regexp.MustCompile(`^\d+\.\d+\.\d+(-[\w.]+)?(\+[\w.]+)?$`)
)

// IsMajorOnly checks if a range is a major-only specifier (e.g., "1").
func IsMajorOnly(rangeStr string) bool {
	return majorOnlyRegex.MatchString(rangeStr)
}

// IsExactVersion checks if a range is an exact version (e.g., "1.2.0").
func IsExactVersion(rangeStr string) bool {
	return exactVersionRegex.MatchString(rangeStr)
}

// ExtractMajor returns the major of a major-only range, or -1.
func ExtractMajor(rangeStr string) int {
	if !IsMajorOnly(rangeStr) {
		return -1
	}
	var major int
	fmt.Sscanf(rangeStr, "%d", &major)
	return major
}

// ValidateRange reports whether rangeStr is a major-only specifier or a
// constraint Masterminds can parse ("^1.0.0", ">=1.0.0 <2.0.0", ...).
func ValidateRange(rangeStr string) error {
	rangeStr = strings.TrimSpace(rangeStr)
	if rangeStr == "" {
		return fmt.Errorf("%s - empty version range", logPrefix)
	}
	if IsMajorOnly(rangeStr) {
		return nil
	}
	if _, err := masterminds.NewConstraint(rangeStr); err != nil {
		return fmt.Errorf("%s - invalid version range %q: %w", logPrefix, rangeStr, err)
	}
	return nil
}

// ValidateVersion reports whether version is a full semantic version.
func ValidateVersion(version string) error {
	if !IsExactVersion(version) {
		return fmt.Errorf("%s - %q is not a MAJOR.MINOR.PATCH version", logPrefix, version)
	}
	return nil
}
