package changelog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/chlog/internal/semver"
)

// ValidationError represents a changelog validation error with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Load reads and validates a changelog YAML file from the given path.
// Returns the parsed Changelog struct or an error with context.
func Load(path string) (*Changelog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening changelog file: %w", err)
	}
	defer f.Close()

	return LoadFromReader(f)
}

// LoadFromReader reads and validates changelog YAML from an io.Reader.
// This is useful for testing and for loading from embedded content.
func LoadFromReader(r io.Reader) (*Changelog, error) {
	var changelog Changelog

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&changelog); err != nil {
		return nil, fmt.Errorf("parsing changelog YAML: %w", err)
	}

	if err := Validate(&changelog); err != nil {
		return nil, err
	}

	return &changelog, nil
}

// Save validates the changelog and writes it to a YAML file.
func Save(path string, c *Changelog) error {
	if err := Validate(c); err != nil {
		return err
	}

	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding changelog YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding changelog YAML: %w", err)
	}

	if err := os.WriteFile(path, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("writing changelog file: %w", err)
	}
	return nil
}

// Validate checks that a Changelog struct satisfies all schema constraints.
// Returns nil if valid, or a ValidationError with details if invalid.
func Validate(c *Changelog) error {
	if c.Project == "" {
		return &ValidationError{Field: "project", Message: "required field is empty"}
	}

	unreleasedCount := 0
	seenVersions := make(map[string]bool)

	for i, v := range c.Versions {
		if err := validateVersion(&v, i); err != nil {
			return err
		}

		normalizedVersion := NormalizeVersion(v.Version)
		if seenVersions[normalizedVersion] {
			return &ValidationError{
				Field:   fmt.Sprintf("versions[%d].version", i),
				Message: fmt.Sprintf("duplicate version %q", v.Version),
			}
		}
		seenVersions[normalizedVersion] = true

		if v.IsUnreleased() {
			unreleasedCount++
			if i != 0 {
				return &ValidationError{
					Field:   fmt.Sprintf("versions[%d]", i),
					Message: "'unreleased' must be the first version",
				}
			}
		}
	}

	if unreleasedCount > 1 {
		return &ValidationError{
			Field:   "versions",
			Message: "only one 'unreleased' version is allowed",
		}
	}

	if err := validateOrdering(c); err != nil {
		return err
	}

	return validateDateOrdering(c)
}

// validateOrdering enforces strictly descending semver order for
// released versions (newest first).
func validateOrdering(c *Changelog) error {
	var prev *semver.Version
	var prevIdx int

	for i, v := range c.Versions {
		if v.IsUnreleased() {
			continue
		}

		cur, err := semver.Parse(v.Version)
		if err != nil {
			// Format errors are reported by validateVersion.
			continue
		}

		if prev != nil && semver.Compare(*prev, cur) <= 0 {
			return &ValidationError{
				Field: fmt.Sprintf("versions[%d].version", i),
				Message: fmt.Sprintf("version %q is not older than %q above it (expected newest-first order)",
					v.Version, c.Versions[prevIdx].Version),
			}
		}
		prev = &cur
		prevIdx = i
	}

	return nil
}

// validateDateOrdering enforces non-increasing release dates top to
// bottom. Equal dates on adjacent versions are allowed.
func validateDateOrdering(c *Changelog) error {
	var prev *time.Time
	var prevIdx int

	for i, v := range c.Versions {
		if v.IsUnreleased() || v.Date == "" {
			continue
		}

		cur, err := time.Parse("2006-01-02", v.Date)
		if err != nil {
			// Format errors are reported by validateVersion.
			continue
		}

		if prev != nil && cur.After(*prev) {
			return &ValidationError{
				Field: fmt.Sprintf("versions[%d].date", i),
				Message: fmt.Sprintf("date %q is later than %q above it (expected non-increasing dates)",
					v.Date, c.Versions[prevIdx].Date),
			}
		}
		prev = &cur
		prevIdx = i
	}

	return nil
}

// validateVersion checks constraints for a single version entry.
func validateVersion(v *Version, index int) error {
	if v.Version == "" {
		return &ValidationError{
			Field:   fmt.Sprintf("versions[%d].version", index),
			Message: "required field is empty",
		}
	}

	if !v.IsUnreleased() {
		if !semver.IsValid(v.Version) {
			return &ValidationError{
				Field:   fmt.Sprintf("versions[%d].version", index),
				Message: fmt.Sprintf("invalid semver format %q (expected: X.Y.Z)", v.Version),
			}
		}
		if v.Date == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("versions[%d].date", index),
				Message: "date is required for released versions",
			}
		}
	}

	if v.Date != "" {
		if err := validateDate(v.Date, index); err != nil {
			return err
		}
	}

	// An empty unreleased section is fine; released versions must
	// document at least one change.
	if v.Changes.IsEmpty() && !v.IsUnreleased() {
		return &ValidationError{
			Field:   fmt.Sprintf("versions[%d].changes", index),
			Message: "at least one change entry is required",
		}
	}

	return validateChangeEntries(&v.Changes, index)
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// validateDate checks that the date is in YYYY-MM-DD format and is a
// real calendar date.
func validateDate(date string, index int) error {
	if !datePattern.MatchString(date) {
		return &ValidationError{
			Field:   fmt.Sprintf("versions[%d].date", index),
			Message: fmt.Sprintf("invalid date format %q (expected: YYYY-MM-DD)", date),
		}
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return &ValidationError{
			Field:   fmt.Sprintf("versions[%d].date", index),
			Message: fmt.Sprintf("invalid calendar date %q", date),
		}
	}
	return nil
}

// validateChangeEntries checks that all change entries are non-empty strings.
func validateChangeEntries(c *Changes, versionIndex int) error {
	for _, cat := range c.byCategory() {
		for i, entry := range cat.entries {
			if strings.TrimSpace(entry) == "" {
				return &ValidationError{
					Field:   fmt.Sprintf("versions[%d].changes.%s[%d]", versionIndex, cat.name, i),
					Message: "change entry cannot be empty",
				}
			}
		}
	}

	return nil
}

// NormalizeVersion normalizes a version string by removing the "v" prefix
// and lowercasing. This allows accepting "v0.6.0", "0.6.0", and
// "Unreleased" interchangeably on input.
func NormalizeVersion(version string) string {
	return semver.Normalize(strings.ToLower(version))
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
