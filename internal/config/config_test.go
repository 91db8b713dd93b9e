package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/chlog/internal/lint"
)

// isolateConfig points user and project config lookups at temp
// directories so tests never touch real configuration.
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("GITHUB_TOKEN", "")
}

func writeProjectYAML(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(".chlog", 0755))
	require.NoError(t, os.WriteFile(ProjectConfigPath(), []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfig(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "CHANGELOG.md", cfg.Changelog)
	assert.Equal(t, "", cfg.Source)
	assert.Equal(t, "", cfg.Repo)
	assert.False(t, cfg.Strict)
	assert.Equal(t, 5*time.Second, cfg.RemoteTimeoutDuration())
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceDuration())
}

func TestLoad_ProjectConfig(t *testing.T) {
	isolateConfig(t)
	writeProjectYAML(t, `
changelog: docs/CHANGES.md
source: .chlog/changelog.yaml
strict: true
remote_timeout: 10s
lint:
  severity:
    title: "off"
    compare-link: error
watch:
  debounce: 500ms
`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "docs/CHANGES.md", cfg.Changelog)
	assert.Equal(t, ".chlog/changelog.yaml", cfg.Source)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 10*time.Second, cfg.RemoteTimeoutDuration())
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceDuration())

	assert.Equal(t, map[string]lint.Severity{"compare-link": lint.Error}, cfg.SeverityOverrides())
	assert.Equal(t, map[string]bool{"title": true}, cfg.DisabledRules())
}

func TestLoad_UserConfigOverriddenByProject(t *testing.T) {
	isolateConfig(t)

	userDir, err := UserConfigDir()
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(userDir, 0755))
	userPath, err := UserConfigPath()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(userPath, []byte("changelog: user.md\nstrict: true\n"), 0644))

	writeProjectYAML(t, "changelog: project.md\n")

	cfg, err := Load("")
	require.NoError(t, err)

	// Project wins on the contested key, user survives on the rest.
	assert.Equal(t, "project.md", cfg.Changelog)
	assert.True(t, cfg.Strict)
}

func TestLoad_EnvOverridesEverything(t *testing.T) {
	isolateConfig(t)
	writeProjectYAML(t, "changelog: project.md\nstrict: false\n")

	t.Setenv("CHLOG_CHANGELOG", "env.md")
	t.Setenv("CHLOG_STRICT", "true")
	t.Setenv("CHLOG_GITHUB_TOKEN", "env-token")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env.md", cfg.Changelog)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "env-token", cfg.GitHub.Token)
}

func TestLoad_GitHubTokenFallback(t *testing.T) {
	isolateConfig(t)
	t.Setenv("GITHUB_TOKEN", "ambient-token")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ambient-token", cfg.GitHub.Token)
}

func TestLoad_CustomProjectPath(t *testing.T) {
	isolateConfig(t)

	custom := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(custom, []byte("changelog: custom.md\n"), 0644))

	cfg, err := Load(custom)
	require.NoError(t, err)
	assert.Equal(t, "custom.md", cfg.Changelog)
}

func TestLoad_LegacyJSONWithWarning(t *testing.T) {
	isolateConfig(t)
	require.NoError(t, os.MkdirAll(".chlog", 0755))
	require.NoError(t, os.WriteFile(LegacyProjectConfigPath(), []byte(`{"changelog": "legacy.md"}`), 0644))

	var warnings bytes.Buffer
	cfg, err := LoadWithOptions(LoadOptions{WarningWriter: &warnings})
	require.NoError(t, err)

	assert.Equal(t, "legacy.md", cfg.Changelog)
	assert.Contains(t, warnings.String(), "deprecated JSON config")
	assert.Contains(t, warnings.String(), "chlog config migrate --project")
}

func TestLoad_YAMLShadowsLegacyJSON(t *testing.T) {
	isolateConfig(t)
	writeProjectYAML(t, "changelog: new.md\n")
	require.NoError(t, os.WriteFile(LegacyProjectConfigPath(), []byte(`{"changelog": "legacy.md"}`), 0644))

	var warnings bytes.Buffer
	cfg, err := LoadWithOptions(LoadOptions{WarningWriter: &warnings})
	require.NoError(t, err)

	assert.Equal(t, "new.md", cfg.Changelog)
	assert.Contains(t, warnings.String(), "ignored")
}

func TestLoad_SkipWarnings(t *testing.T) {
	isolateConfig(t)
	require.NoError(t, os.MkdirAll(".chlog", 0755))
	require.NoError(t, os.WriteFile(LegacyProjectConfigPath(), []byte(`{"changelog": "legacy.md"}`), 0644))

	var warnings bytes.Buffer
	_, err := LoadWithOptions(LoadOptions{WarningWriter: &warnings, SkipWarnings: true})
	require.NoError(t, err)
	assert.Empty(t, warnings.String())
}

func TestLoad_InvalidSeverity(t *testing.T) {
	isolateConfig(t)
	writeProjectYAML(t, "lint:\n  severity:\n    title: loud\n")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid severity "loud"`)
}

func TestLoad_InvalidYAMLSyntax(t *testing.T) {
	isolateConfig(t)
	writeProjectYAML(t, "changelog: [unclosed\n")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validating YAML syntax")
}

func TestLoad_InvalidDuration(t *testing.T) {
	isolateConfig(t)
	writeProjectYAML(t, "remote_timeout: soonish\n")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid duration "soonish"`)
}

func TestDurationFallbacks(t *testing.T) {
	cfg := &Configuration{RemoteTimeout: "-1s", Watch: WatchConfig{Debounce: "10ms"}}

	// Non-positive timeout and sub-floor debounce fall back to defaults.
	assert.Equal(t, 5*time.Second, cfg.RemoteTimeoutDuration())
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceDuration())
}

func TestEnvTransform(t *testing.T) {
	tests := map[string]struct {
		env  string
		want string
	}{
		"flat key":      {env: "CHLOG_CHANGELOG", want: "changelog"},
		"strict":        {env: "CHLOG_STRICT", want: "strict"},
		"github nested": {env: "CHLOG_GITHUB_TOKEN", want: "github.token"},
		"watch nested":  {env: "CHLOG_WATCH_DEBOUNCE", want: "watch.debounce"},
		"lint nested":   {env: "CHLOG_LINT_SEVERITY", want: "lint.severity"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, envTransform(tt.env))
		})
	}
}

func TestSeverityOverrides_Empty(t *testing.T) {
	cfg := &Configuration{}
	assert.Nil(t, cfg.SeverityOverrides())
	assert.Empty(t, cfg.DisabledRules())
}
