package changelog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// MarkdownDoc is the tolerant, position-aware parse of a CHANGELOG.md.
// It preserves raw heading text, line numbers, and structural oddities
// so the linter can report precisely. Use ToChangelog to convert a
// well-formed document into the Changelog model.
type MarkdownDoc struct {
	Title     string
	TitleLine int
	Prologue  []string
	Versions  []MarkdownVersion
	LinkDefs  []LinkDef
}

// MarkdownVersion is one "## ..." section of the document.
type MarkdownVersion struct {
	Raw       string // full heading text after "## "
	Name      string // version identifier, e.g. "0.1.1" or "Unreleased"
	Date      string // raw date text, empty if absent
	Yanked    bool
	Bracketed bool // heading used "[name]" link-reference form
	Line      int
	Sections  []MarkdownSection
}

// MarkdownSection is a "### Category" block within a version. Entries
// that appear before any category heading are collected in a section
// with an empty Name so the linter can flag them.
type MarkdownSection struct {
	Name    string // raw category text after "### "
	Line    int
	Entries []MarkdownEntry
}

// MarkdownEntry is a single bullet entry. Continuation lines are folded
// into Text with single spaces.
type MarkdownEntry struct {
	Text string
	Line int
}

// LinkDef is a footer link-reference definition, e.g.
// "[0.1.1]: https://github.com/org/repo/compare/v0.0.1...v0.1.1".
type LinkDef struct {
	Label string
	URL   string
	Line  int
}

var (
	versionHeadingPattern = regexp.MustCompile(`^##\s+(.+?)\s*$`)
	sectionHeadingPattern = regexp.MustCompile(`^###\s+(.+?)\s*$`)
	linkDefPattern        = regexp.MustCompile(`^\[([^\]]+)\]:\s*(\S+)\s*$`)
	bulletPattern         = regexp.MustCompile(`^[-*]\s+(.*)$`)

	// headingParts splits "[0.1.1] - 2024-02-01 [YANKED]" style headings.
	bracketedNamePattern = regexp.MustCompile(`^\[([^\]]+)\]`)
)

// ParseMarkdownFile parses a CHANGELOG.md from disk.
func ParseMarkdownFile(path string) (*MarkdownDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening changelog file: %w", err)
	}
	defer f.Close()

	return ParseMarkdown(f)
}

// ParseMarkdown parses Keep a Changelog markdown into a MarkdownDoc.
// The parse is tolerant: malformed headings, unknown categories, and
// entries outside categories are preserved for the linter instead of
// failing. Only I/O errors are returned.
func ParseMarkdown(r io.Reader) (*MarkdownDoc, error) {
	doc := &MarkdownDoc{}

	var (
		curVersion *MarkdownVersion
		curSection *MarkdownSection
		curEntry   *MarkdownEntry
		inFence    bool
	)

	flushEntry := func() {
		if curEntry != nil && curSection != nil {
			curSection.Entries = append(curSection.Entries, *curEntry)
		}
		curEntry = nil
	}
	flushSection := func() {
		flushEntry()
		if curSection != nil && curVersion != nil {
			curVersion.Sections = append(curVersion.Sections, *curSection)
		}
		curSection = nil
	}
	flushVersion := func() {
		flushSection()
		if curVersion != nil {
			doc.Versions = append(doc.Versions, *curVersion)
		}
		curVersion = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		switch {
		case strings.HasPrefix(line, "## "):
			flushVersion()
			v := parseVersionHeading(line, lineNo)
			curVersion = &v

		case strings.HasPrefix(line, "### "):
			flushSection()
			m := sectionHeadingPattern.FindStringSubmatch(line)
			if curVersion != nil && m != nil {
				curSection = &MarkdownSection{Name: m[1], Line: lineNo}
			}

		case strings.HasPrefix(line, "# "):
			if doc.Title == "" {
				doc.Title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
				doc.TitleLine = lineNo
			}

		case linkDefPattern.MatchString(line):
			m := linkDefPattern.FindStringSubmatch(line)
			doc.LinkDefs = append(doc.LinkDefs, LinkDef{Label: m[1], URL: m[2], Line: lineNo})

		case bulletPattern.MatchString(strings.TrimSpace(line)) && curVersion != nil:
			flushEntry()
			if curSection == nil {
				// Entry before any category heading; keep it in an
				// unnamed section for the linter.
				curSection = &MarkdownSection{Line: lineNo}
			}
			m := bulletPattern.FindStringSubmatch(strings.TrimSpace(line))
			curEntry = &MarkdownEntry{Text: m[1], Line: lineNo}

		case isContinuation(line) && curEntry != nil:
			curEntry.Text += " " + strings.TrimSpace(line)

		default:
			flushEntry()
			if curVersion == nil && strings.TrimSpace(line) != "" {
				doc.Prologue = append(doc.Prologue, line)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}

	flushVersion()
	return doc, nil
}

// isContinuation reports whether a line continues the previous bullet:
// indented, non-empty, and not itself a bullet.
func isContinuation(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	if !strings.HasPrefix(line, "  ") && !strings.HasPrefix(line, "\t") {
		return false
	}
	return !bulletPattern.MatchString(strings.TrimSpace(line))
}

// parseVersionHeading splits a "## ..." heading into its parts.
// Recognized forms:
//
//	## [Unreleased]
//	## [0.1.1] - 2024-02-01
//	## [0.1.1] - 2024-02-01 [YANKED]
//	## 0.1.1 - 2024-02-01     (unbracketed, flagged by the linter)
func parseVersionHeading(line string, lineNo int) MarkdownVersion {
	m := versionHeadingPattern.FindStringSubmatch(line)
	if m == nil {
		return MarkdownVersion{Line: lineNo}
	}
	raw := m[1]
	v := MarkdownVersion{Raw: raw, Line: lineNo}

	rest := raw
	if strings.HasSuffix(rest, "[YANKED]") {
		v.Yanked = true
		rest = strings.TrimSpace(strings.TrimSuffix(rest, "[YANKED]"))
	}

	if m := bracketedNamePattern.FindStringSubmatch(rest); m != nil {
		v.Bracketed = true
		v.Name = m[1]
		rest = strings.TrimSpace(rest[len(m[0]):])
	} else if idx := strings.Index(rest, " "); idx >= 0 {
		v.Name = rest[:idx]
		rest = strings.TrimSpace(rest[idx:])
	} else {
		v.Name = rest
		rest = ""
	}

	rest = strings.TrimSpace(strings.TrimPrefix(rest, "-"))
	if rest != "" {
		v.Date = strings.Fields(rest)[0]
	}

	return v
}

// IsUnreleased reports whether the heading names the unreleased section.
func (v *MarkdownVersion) IsUnreleased() bool {
	return strings.EqualFold(v.Name, "unreleased")
}

// LinkDef returns the footer link definition matching the version's
// label, or nil if none exists.
func (d *MarkdownDoc) LinkDef(label string) *LinkDef {
	for i := range d.LinkDefs {
		if strings.EqualFold(d.LinkDefs[i].Label, label) {
			return &d.LinkDefs[i]
		}
	}
	return nil
}

// ToChangelog converts a parsed document into the Changelog model.
// Unlike ParseMarkdown this is strict: unknown categories, missing
// version names, and entries outside categories are errors. The project
// name falls back to the document title when empty, and the repository
// URL is derived from footer compare links when present.
func (d *MarkdownDoc) ToChangelog(project string) (*Changelog, error) {
	if project == "" {
		project = d.Title
	}

	c := &Changelog{
		Project: project,
		Repo:    d.RepoURL(),
	}

	for _, mv := range d.Versions {
		v := Version{
			Version: NormalizeVersion(mv.Name),
			Date:    mv.Date,
			Yanked:  mv.Yanked,
		}
		if mv.IsUnreleased() {
			v.Version = "unreleased"
		}

		for _, sec := range mv.Sections {
			if sec.Name == "" {
				return nil, fmt.Errorf("line %d: entry outside a category section", sec.Line)
			}
			category := strings.ToLower(sec.Name)
			if !IsValidCategory(category) {
				return nil, fmt.Errorf("line %d: unknown category %q", sec.Line, sec.Name)
			}
			for _, e := range sec.Entries {
				v.Changes.append(category, e.Text)
			}
		}

		c.Versions = append(c.Versions, v)
	}

	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// RepoURL derives the repository URL from the footer link definitions.
// Compare links ("https://host/org/repo/compare/...") and release-tag
// links ("https://host/org/repo/releases/tag/...") both carry the repo
// URL as their prefix. Returns empty when no link definition matches.
func (d *MarkdownDoc) RepoURL() string {
	for _, def := range d.LinkDefs {
		if repo := repoFromLinkURL(def.URL); repo != "" {
			return repo
		}
	}
	return ""
}

func repoFromLinkURL(url string) string {
	for _, marker := range []string{"/compare/", "/releases/tag/", "/-/compare/"} {
		if idx := strings.Index(url, marker); idx > 0 {
			return url[:idx]
		}
	}
	return ""
}
