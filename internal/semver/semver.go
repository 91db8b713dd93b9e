// Package semver implements parsing, comparison, and bumping of
// Semantic Versioning 2.0.0 version strings. It is intentionally small:
// chlog only needs the subset of semver required to validate changelog
// headings, order versions newest-first, and compute release bumps.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Part identifies which component of a version to bump.
type Part int

const (
	Major Part = iota
	Minor
	Patch
)

// String returns the lowercase name of the part ("major", "minor", "patch").
func (p Part) String() string {
	switch p {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Patch:
		return "patch"
	default:
		return "unknown"
	}
}

// ParsePart converts a string like "major" into a Part.
func ParsePart(s string) (Part, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	case "patch":
		return Patch, nil
	default:
		return 0, fmt.Errorf("invalid bump part %q (expected: major, minor, or patch)", s)
	}
}

// Version is a parsed semantic version.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string // without the leading "-"
	Build      string // without the leading "+"
}

// pattern follows the semver.org 2.0.0 grammar for the core triple plus
// optional prerelease and build metadata.
var pattern = regexp.MustCompile(
	`^(\d+)\.(\d+)\.(\d+)` +
		`(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?` +
		`(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`)

// Normalize strips an optional "v" or "V" prefix and surrounding whitespace.
// Both "v0.6.0" and "0.6.0" are accepted throughout chlog.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[0] == 'v' || s[0] == 'V') {
		return s[1:]
	}
	return s
}

// IsValid reports whether s (after normalization) is a valid semantic version.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Parse parses a semantic version string. A leading "v" prefix is tolerated.
func Parse(s string) (Version, error) {
	normalized := Normalize(s)
	m := pattern.FindStringSubmatch(normalized)
	if m == nil {
		return Version{}, fmt.Errorf("invalid semver format %q (expected: X.Y.Z)", s)
	}

	major, err := strconv.Atoi(m[1])
	if err != nil {
		return Version{}, fmt.Errorf("invalid major component in %q: %w", s, err)
	}
	minor, err := strconv.Atoi(m[2])
	if err != nil {
		return Version{}, fmt.Errorf("invalid minor component in %q: %w", s, err)
	}
	patch, err := strconv.Atoi(m[3])
	if err != nil {
		return Version{}, fmt.Errorf("invalid patch component in %q: %w", s, err)
	}

	return Version{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		Prerelease: m[4],
		Build:      m[5],
	}, nil
}

// String renders the version without a "v" prefix.
func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		b.WriteString("-")
		b.WriteString(v.Prerelease)
	}
	if v.Build != "" {
		b.WriteString("+")
		b.WriteString(v.Build)
	}
	return b.String()
}

// Bump returns a copy of v with the given part incremented and lower
// parts reset. Prerelease and build metadata are cleared: a bump always
// produces a final release version.
func (v Version) Bump(part Part) Version {
	next := Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}
	switch part {
	case Major:
		next.Major++
		next.Minor = 0
		next.Patch = 0
	case Minor:
		next.Minor++
		next.Patch = 0
	case Patch:
		next.Patch++
	}
	return next
}

// Compare returns -1, 0, or 1 if a is less than, equal to, or greater
// than b. Build metadata is ignored, per the semver specification.
func Compare(a, b Version) int {
	if c := compareInt(a.Major, b.Major); c != 0 {
		return c
	}
	if c := compareInt(a.Minor, b.Minor); c != 0 {
		return c
	}
	if c := compareInt(a.Patch, b.Patch); c != 0 {
		return c
	}
	return comparePrerelease(a.Prerelease, b.Prerelease)
}

// CompareStrings parses and compares two version strings.
// Returns an error if either string is not valid semver.
func CompareStrings(a, b string) (int, error) {
	va, err := Parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return Compare(va, vb), nil
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// comparePrerelease implements semver precedence rule 11: a version
// without a prerelease ranks higher than one with it; identifiers are
// compared dot-by-dot, numerically when both are numeric.
func comparePrerelease(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return 1
	}
	if b == "" {
		return -1
	}

	aParts := strings.Split(a, ".")
	bParts := strings.Split(b, ".")

	for i := 0; i < len(aParts) && i < len(bParts); i++ {
		if c := compareIdentifier(aParts[i], bParts[i]); c != 0 {
			return c
		}
	}

	// All shared identifiers equal: the longer set has higher precedence.
	return compareInt(len(aParts), len(bParts))
}

func compareIdentifier(a, b string) int {
	aNum, aErr := strconv.Atoi(a)
	bNum, bErr := strconv.Atoi(b)

	aIsNum := aErr == nil
	bIsNum := bErr == nil

	switch {
	case aIsNum && bIsNum:
		return compareInt(aNum, bNum)
	case aIsNum:
		// Numeric identifiers always have lower precedence than alphanumeric.
		return -1
	case bIsNum:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
