package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/chlog/internal/changelog"
)

func TestDraftCmdFlags(t *testing.T) {
	tests := map[string]struct {
		flagName string
		defValue string
	}{
		"apply flag":   {flagName: "apply", defValue: "false"},
		"commits flag": {flagName: "commits", defValue: "false"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f := draftCmd.Flags().Lookup(tc.flagName)
			require.NotNil(t, f)
			assert.Equal(t, tc.defValue, f.DefValue)
			assert.Equal(t, "bool", f.Value.Type())
		})
	}
}

func TestFilterKnownEntries(t *testing.T) {
	doc, err := changelog.ParseMarkdown(strings.NewReader(sampleChangelog))
	require.NoError(t, err)
	log, err := doc.ToChangelog("demo")
	require.NoError(t, err)

	suggestions := []string{
		"Watch mode ([#12](https://github.com/org/demo/pull/12))",
		"Brand new thing ([#77](https://github.com/org/demo/pull/77))",
		"Crash on empty file",
		"Unseen plain suggestion",
	}

	fresh := filterKnownEntries(log, suggestions)
	assert.Equal(t, []string{
		"Brand new thing ([#77](https://github.com/org/demo/pull/77))",
		"Unseen plain suggestion",
	}, fresh)
}

func TestLastReleaseTime(t *testing.T) {
	doc, err := changelog.ParseMarkdown(strings.NewReader(sampleChangelog))
	require.NoError(t, err)
	log, err := doc.ToChangelog("demo")
	require.NoError(t, err)

	since := lastReleaseTime(log)
	expected, err := time.Parse("2006-01-02", "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, expected, since)
}

func TestLastReleaseTime_NoReleases(t *testing.T) {
	log := &changelog.Changelog{
		Project: "demo",
		Versions: []changelog.Version{
			{Version: "unreleased", Changes: changelog.Changes{}},
		},
	}

	since := lastReleaseTime(log)
	assert.True(t, since.Before(time.Now()))
	assert.True(t, since.After(time.Now().AddDate(-2, 0, 0)))
}
