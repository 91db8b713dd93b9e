// Package changelog implements the Keep a Changelog document model for
// chlog.
//
// This package implements:
//   - changelog.yaml parsing and validation (the YAML source of truth)
//   - CHANGELOG.md parsing with line-accurate positions for linting
//   - Markdown generation following the Keep a Changelog format
//   - Version and entry querying for CLI display
//   - Unreleased-section mutation (add entries, release promotion)
//   - Pull-request reference extraction from entry text
//   - Embedded self-changelog support via go:embed
//
// Two representations exist side by side. The Changelog struct is the
// semantic model used for rendering, querying, and mutation; it is
// always valid. MarkdownDoc is a tolerant positional parse of a
// CHANGELOG.md used by the linter, which must be able to describe
// malformed documents rather than reject them.
package changelog
