package semver

import (
	"sort"

	masterminds "github.com/Masterminds/semver/v3"
)

// SatisfiesRange checks if a version string satisfies a range.
func SatisfiesRange(version, rangeStr string) bool {
	if IsMajorOnly(rangeStr) {
		sv, err := masterminds.NewVersion(version)
		if err != nil {
			return false
		}
		return int(sv.Major()) == ExtractMajor(rangeStr)
	}

	constraint, err := masterminds.NewConstraint(rangeStr)
	if err != nil {
		return false
	}

	sv, err := masterminds.NewVersion(version)
	if err != nil {
		return false
	}

	return constraint.Check(sv)
}

// Newest returns the highest of versions that satisfies rangeStr, or "" if
// none does. Unparseable versions are skipped.
func Newest(versions []string, rangeStr string) string {
	var matching []*masterminds.Version
	for _, v := range versions {
		if !SatisfiesRange(v, rangeStr) {
			continue
		}
		sv, err := masterminds.NewVersion(v)
		if err != nil {
			continue
		}
		matching = append(matching, sv)
	}
	if len(matching) == 0 {
		return ""
	}
	sort.Sort(sort.Reverse(masterminds.Collection(matching)))
	return matching[0].Original()
}
