package changelog

import (
	"fmt"
	"strings"
	"time"

	"github.com/ariel-frischer/chlog/internal/semver"
)

// append adds text to the named category. Unknown categories are
// silently ignored; callers validate the name first.
func (c *Changes) append(category, text string) {
	switch category {
	case "added":
		c.Added = append(c.Added, text)
	case "changed":
		c.Changed = append(c.Changed, text)
	case "deprecated":
		c.Deprecated = append(c.Deprecated, text)
	case "removed":
		c.Removed = append(c.Removed, text)
	case "fixed":
		c.Fixed = append(c.Fixed, text)
	case "security":
		c.Security = append(c.Security, text)
	case "other":
		c.Other = append(c.Other, text)
	}
}

// AddEntry appends a change entry to the unreleased section, creating
// the section if the changelog has none. The category must be one of
// ValidCategories and the text must be non-empty.
func (c *Changelog) AddEntry(category, text string) error {
	category = strings.ToLower(strings.TrimSpace(category))
	if !IsValidCategory(category) {
		return &ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("unknown category %q (valid: %s)", category, strings.Join(ValidCategories(), ", ")),
		}
	}
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "text", Message: "change entry cannot be empty"}
	}

	unreleased := c.GetUnreleased()
	if unreleased == nil {
		c.Versions = append([]Version{{Version: "unreleased"}}, c.Versions...)
		unreleased = &c.Versions[0]
	}

	unreleased.Changes.append(category, text)
	return nil
}

// Release promotes the unreleased section to a released version with
// the given version identifier and date. The version must be valid
// semver, strictly greater than the latest release, and the date must
// be YYYY-MM-DD (today when empty). Returns the released version.
func (c *Changelog) Release(version, date string) (*Version, error) {
	unreleased := c.GetUnreleased()
	if unreleased == nil || unreleased.Changes.IsEmpty() {
		return nil, &ValidationError{
			Field:   "versions",
			Message: "nothing to release: no unreleased changes",
		}
	}

	normalized := NormalizeVersion(version)
	if _, err := semver.Parse(normalized); err != nil {
		return nil, &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("invalid semver format %q (expected: X.Y.Z)", version),
		}
	}

	if latest := c.GetLatestRelease(); latest != nil {
		cmp, err := semver.CompareStrings(normalized, latest.Version)
		if err == nil && cmp <= 0 {
			return nil, &ValidationError{
				Field:   "version",
				Message: fmt.Sprintf("version %q must be greater than latest release %q", normalized, latest.Version),
			}
		}
	}

	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if err := validateDate(date, 0); err != nil {
		return nil, &ValidationError{
			Field:   "date",
			Message: fmt.Sprintf("invalid date format %q (expected: YYYY-MM-DD)", date),
		}
	}

	unreleased.Version = normalized
	unreleased.Date = date
	return unreleased, nil
}

// NextVersion computes the version produced by bumping the latest
// release. With no prior releases the result starts from 0.0.0, so a
// patch bump yields 0.0.1 and a minor bump 0.1.0.
func (c *Changelog) NextVersion(part semver.Part) (string, error) {
	base := semver.Version{}
	if latest := c.GetLatestRelease(); latest != nil {
		parsed, err := semver.Parse(latest.Version)
		if err != nil {
			return "", fmt.Errorf("latest release %q is not valid semver: %w", latest.Version, err)
		}
		base = parsed
	}
	return base.Bump(part).String(), nil
}
