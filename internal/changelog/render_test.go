package changelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	c := &Changelog{
		Project: "demo",
		Repo:    "https://github.com/org/demo",
		Versions: []Version{
			{Version: "unreleased", Changes: Changes{
				Added: []string{"Pending feature"},
			}},
			{Version: "0.2.0", Date: "2025-06-01", Changes: Changes{
				Added: []string{"Watch mode"},
				Fixed: []string{"Crash on empty file"},
			}},
			{Version: "0.1.0", Date: "2025-05-10", Yanked: true, Changes: Changes{
				Added: []string{"Initial release"},
			}},
		},
	}

	got, err := RenderMarkdownString(c)
	require.NoError(t, err)

	want := `# Changelog

All notable changes to demo will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

## [Unreleased]

### Added
- Pending feature

## [0.2.0] - 2025-06-01

### Added
- Watch mode

### Fixed
- Crash on empty file

## [0.1.0] - 2025-05-10 [YANKED]

### Added
- Initial release

[Unreleased]: https://github.com/org/demo/compare/v0.2.0...HEAD
[0.2.0]: https://github.com/org/demo/compare/v0.1.0...v0.2.0
[0.1.0]: https://github.com/org/demo/releases/tag/v0.1.0
`
	assert.Equal(t, want, got)
}

func TestRenderMarkdown_NoRepoOmitsLinks(t *testing.T) {
	c := &Changelog{
		Project: "demo",
		Versions: []Version{
			{Version: "0.1.0", Date: "2025-05-10", Changes: Changes{Added: []string{"Initial"}}},
		},
	}

	got, err := RenderMarkdownString(c)
	require.NoError(t, err)
	assert.NotContains(t, got, "]: https://")
}

func TestRenderMarkdown_Idempotent(t *testing.T) {
	c := &Changelog{
		Project: "demo",
		Repo:    "https://github.com/org/demo",
		Versions: []Version{
			{Version: "0.1.0", Date: "2025-05-10", Changes: Changes{
				Added:   []string{"One"},
				Removed: []string{"Two"},
			}},
		},
	}

	first, err := RenderMarkdownString(c)
	require.NoError(t, err)
	second, err := RenderMarkdownString(c)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderMarkdown_CategoryOrder(t *testing.T) {
	c := &Changelog{
		Project: "demo",
		Versions: []Version{
			{Version: "0.1.0", Date: "2025-05-10", Changes: Changes{
				Other:      []string{"O"},
				Security:   []string{"S"},
				Fixed:      []string{"F"},
				Removed:    []string{"R"},
				Deprecated: []string{"D"},
				Changed:    []string{"C"},
				Added:      []string{"A"},
			}},
		},
	}

	got, err := RenderMarkdownString(c)
	require.NoError(t, err)

	order := []string{"### Added", "### Changed", "### Deprecated", "### Removed", "### Fixed", "### Security", "### Other"}
	last := -1
	for _, heading := range order {
		idx := strings.Index(got, heading)
		require.Greater(t, idx, last, "expected %s after previous heading", heading)
		last = idx
	}
}

func TestRenderVersionMarkdown(t *testing.T) {
	v := &Version{
		Version: "0.2.0",
		Date:    "2025-06-01",
		Changes: Changes{
			Added: []string{"Watch mode"},
			Fixed: []string{"Crash on empty file"},
		},
	}

	got := RenderVersionMarkdownString(v)

	want := `### Added
- Watch mode

### Fixed
- Crash on empty file
`
	assert.Equal(t, want, got)
	assert.NotContains(t, got, "## [0.2.0]")
}

func TestRenderVersionMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "", RenderVersionMarkdownString(&Version{Version: "unreleased"}))
}
