package changelog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromReader_ValidYAML(t *testing.T) {
	yaml := `
project: chlog
repo: https://github.com/ariel-frischer/chlog
versions:
  - version: unreleased
    changes:
      added:
        - "New draft command"
  - version: 0.2.0
    date: 2025-06-01
    changes:
      added:
        - "Watch mode ([#12](https://github.com/ariel-frischer/chlog/pull/12))"
      fixed:
        - "Handle empty categories"
  - version: 0.1.0
    date: 2025-05-10
    changes:
      added:
        - "Initial release"
`

	c, err := LoadFromReader(strings.NewReader(yaml))
	require.NoError(t, err)

	assert.Equal(t, "chlog", c.Project)
	assert.Equal(t, "https://github.com/ariel-frischer/chlog", c.Repo)
	require.Len(t, c.Versions, 3)
	assert.True(t, c.Versions[0].IsUnreleased())
	assert.Equal(t, "0.2.0", c.Versions[1].Version)
	assert.Equal(t, "2025-06-01", c.Versions[1].Date)
	assert.Equal(t, []string{"Handle empty categories"}, c.Versions[1].Changes.Fixed)
}

func TestLoadFromReader_InvalidYAML(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("project: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing changelog YAML")
}

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		changelog   Changelog
		errContains string
	}{
		"valid minimal": {
			changelog: Changelog{
				Project: "demo",
				Versions: []Version{
					{Version: "0.1.0", Date: "2025-01-15", Changes: Changes{Added: []string{"First"}}},
				},
			},
		},
		"empty unreleased section is valid": {
			changelog: Changelog{
				Project: "demo",
				Versions: []Version{
					{Version: "unreleased"},
					{Version: "0.1.0", Date: "2025-01-15", Changes: Changes{Added: []string{"First"}}},
				},
			},
		},
		"missing project": {
			changelog: Changelog{
				Versions: []Version{
					{Version: "0.1.0", Date: "2025-01-15", Changes: Changes{Added: []string{"First"}}},
				},
			},
			errContains: "project: required field is empty",
		},
		"missing version identifier": {
			changelog: Changelog{
				Project: "demo",
				Versions: []Version{
					{Date: "2025-01-15", Changes: Changes{Added: []string{"First"}}},
				},
			},
			errContains: "versions[0].version: required field is empty",
		},
		"invalid semver": {
			changelog: Changelog{
				Project: "demo",
				Versions: []Version{
					{Version: "1.0", Date: "2025-01-15", Changes: Changes{Added: []string{"First"}}},
				},
			},
			errContains: "invalid semver format",
		},
		"released version without date": {
			changelog: Changelog{
				Project: "demo",
				Versions: []Version{
					{Version: "0.1.0", Changes: Changes{Added: []string{"First"}}},
				},
			},
			errContains: "date is required for released versions",
		},
		"invalid date format": {
			changelog: Changelog{
				Project: "demo",
				Versions: []Version{
					{Version: "0.1.0", Date: "15/01/2025", Changes: Changes{Added: []string{"First"}}},
				},
			},
			errContains: "invalid date format",
		},
		"impossible calendar date": {
			changelog: Changelog{
				Project: "demo",
				Versions: []Version{
					{Version: "0.1.0", Date: "2025-02-30", Changes: Changes{Added: []string{"First"}}},
				},
			},
			errContains: "invalid calendar date",
		},
		"released version with no changes": {
			changelog: Changelog{
				Project: "demo",
				Versions: []Version{
					{Version: "0.1.0", Date: "2025-01-15"},
				},
			},
			errContains: "at least one change entry is required",
		},
		"blank change entry": {
			changelog: Changelog{
				Project: "demo",
				Versions: []Version{
					{Version: "0.1.0", Date: "2025-01-15", Changes: Changes{Fixed: []string{"  "}}},
				},
			},
			errContains: "change entry cannot be empty",
		},
		"duplicate versions after normalization": {
			changelog: Changelog{
				Project: "demo",
				Versions: []Version{
					{Version: "0.2.0", Date: "2025-02-01", Changes: Changes{Added: []string{"A"}}},
					{Version: "v0.2.0", Date: "2025-01-15", Changes: Changes{Added: []string{"B"}}},
				},
			},
			errContains: "duplicate version",
		},
		"unreleased not first": {
			changelog: Changelog{
				Project: "demo",
				Versions: []Version{
					{Version: "0.1.0", Date: "2025-01-15", Changes: Changes{Added: []string{"First"}}},
					{Version: "unreleased", Changes: Changes{Added: []string{"Next"}}},
				},
			},
			errContains: "'unreleased' must be the first version",
		},
		"dates out of order": {
			changelog: Changelog{
				Project: "demo",
				Versions: []Version{
					{Version: "0.2.0", Date: "2025-01-01", Changes: Changes{Added: []string{"New"}}},
					{Version: "0.1.0", Date: "2025-06-01", Changes: Changes{Added: []string{"Old"}}},
				},
			},
			errContains: "expected non-increasing dates",
		},
		"equal adjacent dates are valid": {
			changelog: Changelog{
				Project: "demo",
				Versions: []Version{
					{Version: "0.2.0", Date: "2025-01-15", Changes: Changes{Added: []string{"New"}}},
					{Version: "0.1.0", Date: "2025-01-15", Changes: Changes{Added: []string{"Old"}}},
				},
			},
		},
		"versions out of order": {
			changelog: Changelog{
				Project: "demo",
				Versions: []Version{
					{Version: "0.1.0", Date: "2025-01-15", Changes: Changes{Added: []string{"Old"}}},
					{Version: "0.2.0", Date: "2025-02-01", Changes: Changes{Added: []string{"New"}}},
				},
			},
			errContains: "expected newest-first order",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := Validate(&tt.changelog)

			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				assert.True(t, IsValidationError(err))
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	original := &Changelog{
		Project: "demo",
		Repo:    "https://github.com/org/demo",
		Versions: []Version{
			{Version: "unreleased", Changes: Changes{Added: []string{"Pending"}}},
			{Version: "1.0.0", Date: "2025-03-01", Yanked: true, Changes: Changes{
				Fixed:    []string{"Bug"},
				Security: []string{"CVE fix"},
			}},
		},
	}

	path := filepath.Join(t.TempDir(), "changelog.yaml")
	require.NoError(t, Save(path, original))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestSave_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changelog.yaml")
	err := Save(path, &Changelog{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening changelog file")
}

func TestNormalizeVersion(t *testing.T) {
	assert.Equal(t, "0.6.0", NormalizeVersion("v0.6.0"))
	assert.Equal(t, "0.6.0", NormalizeVersion("0.6.0"))
	assert.Equal(t, "unreleased", NormalizeVersion("Unreleased"))
}
