package changelog

// Changelog represents the root structure of a changelog, whether loaded
// from a CHANGELOG.yaml source file or parsed from CHANGELOG.md.
// It contains the project identifier, the repository URL used to build
// comparison links, and an ordered list of versions with the newest
// versions appearing first.
type Changelog struct {
	Project  string    `yaml:"project"`
	Repo     string    `yaml:"repo,omitempty"`
	Versions []Version `yaml:"versions"`
}

// Version represents a single version entry in the changelog.
// The Version field should be a bare semantic version (e.g., "0.1.1") or
// the special identifier "unreleased". The CLI normalizes "v" prefixes on
// input. The Date field is required for released versions (format:
// YYYY-MM-DD) but should be empty for unreleased. Yanked marks versions
// pulled after release, rendered with the Keep a Changelog [YANKED] tag.
type Version struct {
	Version string  `yaml:"version"`
	Date    string  `yaml:"date,omitempty"`
	Yanked  bool    `yaml:"yanked,omitempty"`
	Changes Changes `yaml:"changes"`
}

// Changes groups change entries by Keep a Changelog category.
// All fields are optional; empty categories are omitted when rendering.
// The first six categories follow the Keep a Changelog specification
// (https://keepachangelog.com/en/1.1.0/). Other is an extension category
// for entries that fit none of the standard six; it renders last.
type Changes struct {
	Added      []string `yaml:"added,omitempty"`
	Changed    []string `yaml:"changed,omitempty"`
	Deprecated []string `yaml:"deprecated,omitempty"`
	Removed    []string `yaml:"removed,omitempty"`
	Fixed      []string `yaml:"fixed,omitempty"`
	Security   []string `yaml:"security,omitempty"`
	Other      []string `yaml:"other,omitempty"`
}

// Entry represents a flattened view of a single changelog entry.
// This is used for querying and displaying individual entries, where the
// version and category context is needed alongside the text. PR and
// PRURL are populated when the entry text carries a pull-request
// reference marker such as "([#798](https://.../pull/798))".
type Entry struct {
	Text     string `yaml:"text"`
	Category string `yaml:"category"`
	Version  string `yaml:"version"`
	PR       int    `yaml:"pr,omitempty"`
	PRURL    string `yaml:"pr_url,omitempty"`
}

// IsEmpty returns true if the Changes struct has no entries in any category.
func (c Changes) IsEmpty() bool {
	return c.Count() == 0
}

// Count returns the total number of entries across all categories.
func (c Changes) Count() int {
	count := 0
	for _, cat := range c.byCategory() {
		count += len(cat.entries)
	}
	return count
}

// Category returns the entries for a category name, or nil for an
// unknown category.
func (c Changes) Category(name string) []string {
	for _, cat := range c.byCategory() {
		if cat.name == name {
			return cat.entries
		}
	}
	return nil
}

// categoryEntries pairs a category name with its entries, preserving
// the standard rendering order.
type categoryEntries struct {
	name    string
	entries []string
}

func (c Changes) byCategory() []categoryEntries {
	return []categoryEntries{
		{"added", c.Added},
		{"changed", c.Changed},
		{"deprecated", c.Deprecated},
		{"removed", c.Removed},
		{"fixed", c.Fixed},
		{"security", c.Security},
		{"other", c.Other},
	}
}

// IsUnreleased returns true if this version represents unreleased changes.
func (v Version) IsUnreleased() bool {
	return v.Version == "unreleased"
}

// Entries returns a flattened list of all entries in this version.
// Each entry includes the text, category, version identifier, and any
// pull-request reference parsed from the entry text.
func (v Version) Entries() []Entry {
	entries := make([]Entry, 0, v.Changes.Count())

	for _, cat := range v.Changes.byCategory() {
		for _, text := range cat.entries {
			entry := Entry{Text: text, Category: cat.name, Version: v.Version}
			if refs := FindPRRefs(text); len(refs) > 0 {
				entry.PR = refs[0].Number
				entry.PRURL = refs[0].URL
			}
			entries = append(entries, entry)
		}
	}

	return entries
}

// ValidCategories returns the list of valid changelog categories in
// their standard rendering order. The Keep a Changelog six come first,
// then the Other extension category.
func ValidCategories() []string {
	return []string{"added", "changed", "deprecated", "removed", "fixed", "security", "other"}
}

// IsValidCategory reports whether name is a recognized category.
func IsValidCategory(name string) bool {
	for _, cat := range ValidCategories() {
		if cat == name {
			return true
		}
	}
	return false
}
