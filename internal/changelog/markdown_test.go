package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = `# Changelog

All notable changes to demo will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

## [Unreleased]

### Added
- New draft command

## [0.2.0] - 2025-06-01

### Added
- Watch mode ([#12](https://github.com/org/demo/pull/12))
- Long entry that continues
  onto a second line

### Fixed
- Handle empty categories

## [0.1.0] - 2025-05-10 [YANKED]

### Added
- Initial release

[Unreleased]: https://github.com/org/demo/compare/v0.2.0...HEAD
[0.2.0]: https://github.com/org/demo/compare/v0.1.0...v0.2.0
[0.1.0]: https://github.com/org/demo/releases/tag/v0.1.0
`

func TestParseMarkdown(t *testing.T) {
	doc, err := ParseMarkdown(strings.NewReader(sampleMarkdown))
	require.NoError(t, err)

	assert.Equal(t, "Changelog", doc.Title)
	assert.Equal(t, 1, doc.TitleLine)

	require.Len(t, doc.Versions, 3)

	unreleased := doc.Versions[0]
	assert.Equal(t, "Unreleased", unreleased.Name)
	assert.True(t, unreleased.IsUnreleased())
	assert.True(t, unreleased.Bracketed)
	assert.Equal(t, 8, unreleased.Line)

	v2 := doc.Versions[1]
	assert.Equal(t, "0.2.0", v2.Name)
	assert.Equal(t, "2025-06-01", v2.Date)
	assert.False(t, v2.Yanked)
	require.Len(t, v2.Sections, 2)
	assert.Equal(t, "Added", v2.Sections[0].Name)
	require.Len(t, v2.Sections[0].Entries, 2)
	assert.Equal(t, "Long entry that continues onto a second line", v2.Sections[0].Entries[1].Text)

	v1 := doc.Versions[2]
	assert.True(t, v1.Yanked)
	assert.Equal(t, "2025-05-10", v1.Date)

	require.Len(t, doc.LinkDefs, 3)
	assert.Equal(t, "Unreleased", doc.LinkDefs[0].Label)
	assert.Equal(t, "https://github.com/org/demo/compare/v0.2.0...HEAD", doc.LinkDefs[0].URL)
}

func TestParseMarkdown_Tolerant(t *testing.T) {
	tests := map[string]struct {
		input string
		check func(t *testing.T, doc *MarkdownDoc)
	}{
		"unbracketed heading": {
			input: "# Changelog\n\n## 0.1.0 - 2025-01-15\n\n### Added\n- Entry\n",
			check: func(t *testing.T, doc *MarkdownDoc) {
				require.Len(t, doc.Versions, 1)
				assert.Equal(t, "0.1.0", doc.Versions[0].Name)
				assert.False(t, doc.Versions[0].Bracketed)
				assert.Equal(t, "2025-01-15", doc.Versions[0].Date)
			},
		},
		"entry before any category": {
			input: "# Changelog\n\n## [0.1.0] - 2025-01-15\n\n- Orphan entry\n",
			check: func(t *testing.T, doc *MarkdownDoc) {
				require.Len(t, doc.Versions, 1)
				require.Len(t, doc.Versions[0].Sections, 1)
				assert.Equal(t, "", doc.Versions[0].Sections[0].Name)
				require.Len(t, doc.Versions[0].Sections[0].Entries, 1)
				assert.Equal(t, "Orphan entry", doc.Versions[0].Sections[0].Entries[0].Text)
			},
		},
		"unknown category preserved": {
			input: "# Changelog\n\n## [0.1.0] - 2025-01-15\n\n### Improved\n- Entry\n",
			check: func(t *testing.T, doc *MarkdownDoc) {
				require.Len(t, doc.Versions[0].Sections, 1)
				assert.Equal(t, "Improved", doc.Versions[0].Sections[0].Name)
			},
		},
		"code fences skipped": {
			input: "# Changelog\n\n## [0.1.0] - 2025-01-15\n\n### Added\n- Entry\n\n```\n## not a version\n### not a section\n```\n",
			check: func(t *testing.T, doc *MarkdownDoc) {
				require.Len(t, doc.Versions, 1)
				require.Len(t, doc.Versions[0].Sections, 1)
			},
		},
		"asterisk bullets": {
			input: "# Changelog\n\n## [0.1.0] - 2025-01-15\n\n### Added\n* Entry one\n* Entry two\n",
			check: func(t *testing.T, doc *MarkdownDoc) {
				require.Len(t, doc.Versions[0].Sections[0].Entries, 2)
			},
		},
		"prologue collected": {
			input: "# Changelog\n\nSome intro text.\n\n## [0.1.0] - 2025-01-15\n\n### Added\n- Entry\n",
			check: func(t *testing.T, doc *MarkdownDoc) {
				assert.Contains(t, doc.Prologue, "Some intro text.")
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			doc, err := ParseMarkdown(strings.NewReader(tt.input))
			require.NoError(t, err)
			tt.check(t, doc)
		})
	}
}

func TestMarkdownDoc_LinkDef(t *testing.T) {
	doc, err := ParseMarkdown(strings.NewReader(sampleMarkdown))
	require.NoError(t, err)

	def := doc.LinkDef("unreleased")
	require.NotNil(t, def)
	assert.Equal(t, "Unreleased", def.Label)

	assert.Nil(t, doc.LinkDef("9.9.9"))
}

func TestMarkdownDoc_RepoURL(t *testing.T) {
	tests := map[string]struct {
		defs []LinkDef
		want string
	}{
		"compare link": {
			defs: []LinkDef{{Label: "0.2.0", URL: "https://github.com/org/demo/compare/v0.1.0...v0.2.0"}},
			want: "https://github.com/org/demo",
		},
		"release tag link": {
			defs: []LinkDef{{Label: "0.1.0", URL: "https://github.com/org/demo/releases/tag/v0.1.0"}},
			want: "https://github.com/org/demo",
		},
		"gitlab compare link": {
			defs: []LinkDef{{Label: "0.1.0", URL: "https://gitlab.com/org/demo/-/compare/v0.0.1...v0.1.0"}},
			want: "https://gitlab.com/org/demo",
		},
		"no matching links": {
			defs: []LinkDef{{Label: "docs", URL: "https://example.com/docs"}},
			want: "",
		},
		"empty": {
			want: "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			doc := &MarkdownDoc{LinkDefs: tt.defs}
			assert.Equal(t, tt.want, doc.RepoURL())
		})
	}
}

func TestToChangelog(t *testing.T) {
	doc, err := ParseMarkdown(strings.NewReader(sampleMarkdown))
	require.NoError(t, err)

	c, err := doc.ToChangelog("demo")
	require.NoError(t, err)

	assert.Equal(t, "demo", c.Project)
	assert.Equal(t, "https://github.com/org/demo", c.Repo)
	require.Len(t, c.Versions, 3)
	assert.Equal(t, "unreleased", c.Versions[0].Version)
	assert.Equal(t, "0.2.0", c.Versions[1].Version)
	assert.True(t, c.Versions[2].Yanked)
	assert.Equal(t, []string{"Initial release"}, c.Versions[2].Changes.Added)
}

func TestToChangelog_ProjectFallsBackToTitle(t *testing.T) {
	doc, err := ParseMarkdown(strings.NewReader(sampleMarkdown))
	require.NoError(t, err)

	c, err := doc.ToChangelog("")
	require.NoError(t, err)
	assert.Equal(t, "Changelog", c.Project)
}

func TestToChangelog_Strict(t *testing.T) {
	tests := map[string]struct {
		input       string
		errContains string
	}{
		"unknown category": {
			input:       "# Changelog\n\n## [0.1.0] - 2025-01-15\n\n### Improved\n- Entry\n",
			errContains: `unknown category "Improved"`,
		},
		"entry outside category": {
			input:       "# Changelog\n\n## [0.1.0] - 2025-01-15\n\n- Orphan\n",
			errContains: "entry outside a category section",
		},
		"invalid version heading": {
			input:       "# Changelog\n\n## [not-semver] - 2025-01-15\n\n### Added\n- Entry\n",
			errContains: "invalid semver format",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			doc, err := ParseMarkdown(strings.NewReader(tt.input))
			require.NoError(t, err)

			_, err = doc.ToChangelog("demo")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	doc, err := ParseMarkdown(strings.NewReader(sampleMarkdown))
	require.NoError(t, err)
	c, err := doc.ToChangelog("demo")
	require.NoError(t, err)

	rendered, err := RenderMarkdownString(c)
	require.NoError(t, err)

	doc2, err := ParseMarkdown(strings.NewReader(rendered))
	require.NoError(t, err)
	c2, err := doc2.ToChangelog("demo")
	require.NoError(t, err)

	assert.Equal(t, c.Versions, c2.Versions)

	rendered2, err := RenderMarkdownString(c2)
	require.NoError(t, err)
	assert.Equal(t, rendered, rendered2)
}
