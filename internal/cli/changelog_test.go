package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/chlog/internal/changelog"
)

func TestSelfChangelogCmdFlags(t *testing.T) {
	tests := map[string]struct {
		flagName string
		defValue string
		flagType string
	}{
		"last flag":   {flagName: "last", defValue: "5", flagType: "int"},
		"remote flag": {flagName: "remote", defValue: "false", flagType: "bool"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f := selfChangelogCmd.Flags().Lookup(tc.flagName)
			require.NotNil(t, f)
			assert.Equal(t, tc.defValue, f.DefValue)
			assert.Equal(t, tc.flagType, f.Value.Type())
		})
	}
}

func TestRunSelfChangelog_Embedded(t *testing.T) {
	resetCommandFlags(t)
	buf := captureOutput(t, selfChangelogCmd)
	plainFlag = true

	err := runSelfChangelog(selfChangelogCmd, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, buf.String())
}

func TestRunSelfChangelog_RemoteTimeoutFallsBack(t *testing.T) {
	isolateWorkspace(t)

	stall := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-stall
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(stall) })

	orig := changelog.RemoteChangelogURL
	changelog.RemoteChangelogURL = srv.URL
	t.Cleanup(func() { changelog.RemoteChangelogURL = orig })

	require.NoError(t, os.MkdirAll(".chlog", 0755))
	require.NoError(t, os.WriteFile(".chlog/config.yml", []byte(
		"changelog: CHANGELOG.md\nremote_timeout: 100ms\n"), 0644))

	buf := captureOutput(t, selfChangelogCmd)
	selfChangelogCmd.SetContext(context.Background())
	plainFlag = true
	selfChangelogRemote = true

	// A stalled server must not hang the command past the configured
	// timeout; the embedded copy is shown instead.
	start := time.Now()
	err := runSelfChangelog(selfChangelogCmd, nil)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Contains(t, buf.String(), "Remote fetch failed; showing embedded changelog.")
}

func TestRunSelfChangelog_SpecificVersion(t *testing.T) {
	resetCommandFlags(t)
	buf := captureOutput(t, selfChangelogCmd)
	plainFlag = true

	err := runSelfChangelog(selfChangelogCmd, []string{"0.1.0"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "v0.1.0")
}
