package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/chlog/internal/changelog"
	"github.com/ariel-frischer/chlog/internal/config"
)

// sampleChangelog is a structurally clean Keep a Changelog document used
// by the command behavior tests.
const sampleChangelog = `# Changelog

## [Unreleased]

### Added
- Pending feature

## [0.2.0] - 2025-06-01

### Added
- Watch mode ([#12](https://github.com/org/demo/pull/12))

### Fixed
- Crash on empty file

## [0.1.0] - 2025-05-10

### Added
- Initial release

[Unreleased]: https://github.com/org/demo/compare/v0.2.0...HEAD
[0.2.0]: https://github.com/org/demo/compare/v0.1.0...v0.2.0
[0.1.0]: https://github.com/org/demo/releases/tag/v0.1.0
`

// isolateWorkspace moves the test into an empty temp directory with a
// clean HOME so no real user or project configuration leaks in.
func isolateWorkspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("GITHUB_TOKEN", "")

	resetCommandFlags(t)
	return dir
}

// resetCommandFlags restores all command flag globals to their defaults
// when the test finishes.
func resetCommandFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		configFlag, fileFlag = "", ""
		debugFlag, plainFlag = false, false
		lintStrictFlag, lintTagsFlag, lintListRules = false, false, false
		lintFormatFlag = "text"
		addPRFlag = 0
		releaseBumpFlag, releaseDateFlag = "", ""
		showLastFlag, showListFlag = 5, false
		renderOutputFlag = ""
		initSourceFlag, initForceFlag = false, false
		selfChangelogLast, selfChangelogRemote = 5, false
	})
}

// captureOutput redirects a command's output streams into a buffer.
func captureOutput(t *testing.T, cmd *cobra.Command) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
	})
	return buf
}

func writeChangelogFile(t *testing.T, content string) string {
	t.Helper()
	path := "CHANGELOG.md"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestChangelogPath(t *testing.T) {
	isolateWorkspace(t)

	cfg := &config.Configuration{Changelog: "CHANGELOG.md"}
	assert.Equal(t, "CHANGELOG.md", changelogPath(cfg))

	fileFlag = "docs/CHANGES.md"
	assert.Equal(t, "docs/CHANGES.md", changelogPath(cfg))
}

func TestResolveRepoURL(t *testing.T) {
	isolateWorkspace(t)

	tests := map[string]struct {
		cfg      *config.Configuration
		log      *changelog.Changelog
		doc      string
		expected string
		wantErr  bool
	}{
		"config override wins": {
			cfg:      &config.Configuration{Repo: "https://github.com/org/cfg"},
			log:      &changelog.Changelog{Repo: "https://github.com/org/model"},
			expected: "https://github.com/org/cfg",
		},
		"model repo next": {
			cfg:      &config.Configuration{},
			log:      &changelog.Changelog{Repo: "https://github.com/org/model"},
			expected: "https://github.com/org/model",
		},
		"link definitions next": {
			cfg:      &config.Configuration{},
			doc:      sampleChangelog,
			expected: "https://github.com/org/demo",
		},
		"nothing known is an error": {
			cfg:     &config.Configuration{},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var doc *changelog.MarkdownDoc
			if tc.doc != "" {
				doc = parseMarkdownString(t, tc.doc)
			}

			url, err := resolveRepoURL(tc.cfg, tc.log, doc)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, url)
		})
	}
}

func parseMarkdownString(t *testing.T, markdown string) *changelog.MarkdownDoc {
	t.Helper()
	doc, err := changelog.ParseMarkdown(bytes.NewReader([]byte(markdown)))
	require.NoError(t, err)
	return doc
}

func TestLoadModel_MarkdownOnly(t *testing.T) {
	isolateWorkspace(t)
	writeChangelogFile(t, sampleChangelog)

	cfg := &config.Configuration{Changelog: "CHANGELOG.md"}
	log, origin, err := loadModel(cfg)
	require.NoError(t, err)

	assert.Equal(t, "CHANGELOG.md", origin)
	assert.Equal(t, "https://github.com/org/demo", log.Repo)
	assert.Len(t, log.Versions, 3)
}

func TestLoadModel_MissingChangelog(t *testing.T) {
	isolateWorkspace(t)

	cfg := &config.Configuration{Changelog: "CHANGELOG.md"}
	_, _, err := loadModel(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CHANGELOG.md")
}

func TestSaveModel_RewritesMarkdown(t *testing.T) {
	isolateWorkspace(t)
	writeChangelogFile(t, sampleChangelog)

	cfg := &config.Configuration{Changelog: "CHANGELOG.md"}
	log, _, err := loadModel(cfg)
	require.NoError(t, err)

	require.NoError(t, log.AddEntry("fixed", "Something small"))
	require.NoError(t, saveModel(cfg, log))

	content, err := os.ReadFile("CHANGELOG.md")
	require.NoError(t, err)
	assert.Contains(t, string(content), "- Something small")
}

func TestCapitalizedCategory(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Fixed", capitalizedCategory("fixed"))
	assert.Equal(t, "Security", capitalizedCategory("security"))
	assert.Equal(t, "", capitalizedCategory(""))
}

func TestProjectName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-project")
	require.NoError(t, os.MkdirAll(dir, 0755))
	t.Chdir(dir)

	assert.Equal(t, "my-project", projectName())
}
