package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/ariel-frischer/chlog/internal/errors"
)

func TestLintCmdFlags(t *testing.T) {
	tests := map[string]struct {
		flagName string
		defValue string
		flagType string
	}{
		"strict flag":     {flagName: "strict", defValue: "false", flagType: "bool"},
		"tags flag":       {flagName: "tags", defValue: "false", flagType: "bool"},
		"format flag":     {flagName: "format", defValue: "text", flagType: "string"},
		"list-rules flag": {flagName: "list-rules", defValue: "false", flagType: "bool"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f := lintCmd.Flags().Lookup(tc.flagName)
			require.NotNil(t, f, "flag %q should exist", tc.flagName)
			assert.Equal(t, tc.defValue, f.DefValue)
			assert.Equal(t, tc.flagType, f.Value.Type())
		})
	}
}

func TestLintCmdArgs(t *testing.T) {
	tests := map[string]struct {
		args    []string
		wantErr bool
	}{
		"no args":       {args: []string{}},
		"explicit path": {args: []string{"CHANGELOG.md"}},
		"too many args": {args: []string{"a.md", "b.md"}, wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			err := lintCmd.Args(lintCmd, tc.args)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRunLint_CleanFile(t *testing.T) {
	isolateWorkspace(t)
	path := writeChangelogFile(t, sampleChangelog)
	buf := captureOutput(t, lintCmd)
	plainFlag = true

	err := runLint(lintCmd, []string{path})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no issues found")
}

func TestRunLint_FindingsFailWithExitCode(t *testing.T) {
	isolateWorkspace(t)
	path := writeChangelogFile(t, "# Changelog\n\n## 0.1 - bad-date\n\n### Improved\n- Entry\n")
	buf := captureOutput(t, lintCmd)
	plainFlag = true

	err := runLint(lintCmd, []string{path})
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))
	assert.Contains(t, buf.String(), "semver-heading")
}

func TestRunLint_JSONFormat(t *testing.T) {
	isolateWorkspace(t)
	path := writeChangelogFile(t, sampleChangelog)
	buf := captureOutput(t, lintCmd)
	lintFormatFlag = "json"

	err := runLint(lintCmd, []string{path})
	require.NoError(t, err)

	var report struct {
		Path     string `json:"path"`
		Errors   int    `json:"errors"`
		Warnings int    `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, path, report.Path)
	assert.Equal(t, 0, report.Errors)
	assert.Equal(t, 0, report.Warnings)
}

func TestRunLint_InvalidFormat(t *testing.T) {
	isolateWorkspace(t)
	lintFormatFlag = "xml"

	err := runLint(lintCmd, nil)
	require.Error(t, err)

	cliErr := cerrors.AsCLIError(err)
	require.NotNil(t, cliErr)
	assert.Equal(t, cerrors.Argument, cliErr.Category)
}

func TestRunLint_ListRules(t *testing.T) {
	isolateWorkspace(t)
	buf := captureOutput(t, lintCmd)
	lintListRules = true

	err := runLint(lintCmd, nil)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "semver-heading")
	assert.Contains(t, out, "pr-reference")
	assert.Contains(t, out, "compare-link")
}

func TestRunLint_MissingFile(t *testing.T) {
	isolateWorkspace(t)

	err := runLint(lintCmd, nil)
	require.Error(t, err)

	cliErr := cerrors.AsCLIError(err)
	require.NotNil(t, cliErr)
	assert.Contains(t, cliErr.Message, "CHANGELOG.md")
}
