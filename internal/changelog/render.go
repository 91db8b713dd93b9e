package changelog

import (
	"fmt"
	"io"
	"strings"
)

// RenderMarkdown generates a Keep a Changelog formatted markdown document
// from the given Changelog struct. The output follows the Keep a Changelog
// specification (https://keepachangelog.com/en/1.1.0/).
//
// The function is idempotent - given the same input, it produces identical
// output. Footer comparison links are emitted only when the changelog
// carries a repository URL.
func RenderMarkdown(c *Changelog, w io.Writer) error {
	if err := renderHeader(c, w); err != nil {
		return fmt.Errorf("rendering header: %w", err)
	}

	for i, v := range c.Versions {
		if err := renderVersion(&v, w, i == 0); err != nil {
			return fmt.Errorf("rendering version %s: %w", v.Version, err)
		}
	}

	if err := renderFooterLinks(c, w); err != nil {
		return fmt.Errorf("rendering footer links: %w", err)
	}

	return nil
}

// RenderMarkdownString is a convenience function that renders to a string.
func RenderMarkdownString(c *Changelog) (string, error) {
	var b strings.Builder
	if err := RenderMarkdown(c, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderVersionMarkdown writes a single version's changes as markdown.
// The output carries no version heading, suitable for GitHub release
// notes bodies.
func RenderVersionMarkdown(v *Version, w io.Writer) error {
	first := true
	for _, cat := range v.Changes.byCategory() {
		if len(cat.entries) == 0 {
			continue
		}

		if !first {
			fmt.Fprintln(w)
		}
		first = false

		fmt.Fprintf(w, "### %s\n", capitalizeFirst(cat.name))
		for _, entry := range cat.entries {
			fmt.Fprintf(w, "- %s\n", entry)
		}
	}
	return nil
}

// RenderVersionMarkdownString renders one version's changes to a string.
func RenderVersionMarkdownString(v *Version) string {
	var b strings.Builder
	_ = RenderVersionMarkdown(v, &b)
	return b.String()
}

// renderHeader writes the standard Keep a Changelog header.
func renderHeader(c *Changelog, w io.Writer) error {
	header := `# Changelog

All notable changes to ` + c.Project + ` will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

`
	_, err := w.Write([]byte(header))
	return err
}

// renderVersion writes a single version section with all its changes.
func renderVersion(v *Version, w io.Writer, isFirst bool) error {
	if !isFirst {
		if _, err := w.Write([]byte("\n")); err != nil {
			return err
		}
	}
	if _, err := w.Write([]byte(formatVersionHeader(v) + "\n")); err != nil {
		return err
	}

	for _, cat := range v.Changes.byCategory() {
		if len(cat.entries) == 0 {
			continue
		}
		if err := renderCategory(capitalizeFirst(cat.name), cat.entries, w); err != nil {
			return err
		}
	}
	return nil
}

// formatVersionHeader formats the version header line.
func formatVersionHeader(v *Version) string {
	if v.IsUnreleased() {
		return "## [Unreleased]"
	}
	header := fmt.Sprintf("## [%s] - %s", v.Version, v.Date)
	if v.Yanked {
		header += " [YANKED]"
	}
	return header
}

// renderCategory writes a single category section with its entries.
func renderCategory(name string, entries []string, w io.Writer) error {
	if _, err := w.Write([]byte("\n### " + name + "\n")); err != nil {
		return err
	}

	for _, entry := range entries {
		if _, err := w.Write([]byte("- " + entry + "\n")); err != nil {
			return err
		}
	}

	return nil
}

// renderFooterLinks writes the version comparison links at the end of the file.
func renderFooterLinks(c *Changelog, w io.Writer) error {
	if len(c.Versions) == 0 || c.Repo == "" {
		return nil
	}

	if _, err := w.Write([]byte("\n")); err != nil {
		return err
	}

	for i, v := range c.Versions {
		link := formatVersionLink(v, c.Versions, i, c.Repo)
		if link != "" {
			if _, err := w.Write([]byte(link + "\n")); err != nil {
				return err
			}
		}
	}
	return nil
}

// formatVersionLink creates a single version comparison link.
// The newest released version compares against the one below it; the
// oldest links to its release tag; Unreleased compares against the
// newest release up to HEAD.
func formatVersionLink(v Version, versions []Version, index int, repoURL string) string {
	if v.IsUnreleased() {
		if index+1 < len(versions) {
			prevVersion := versions[index+1].Version
			return fmt.Sprintf("[Unreleased]: %s/compare/v%s...HEAD", repoURL, prevVersion)
		}
		return ""
	}

	if index+1 < len(versions) {
		prevVersion := versions[index+1].Version
		return fmt.Sprintf("[%s]: %s/compare/v%s...v%s", v.Version, repoURL, prevVersion, v.Version)
	}
	return fmt.Sprintf("[%s]: %s/releases/tag/v%s", v.Version, repoURL, v.Version)
}
