package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSetProjectValue(t *testing.T) {
	t.Run("creates config with validated value", func(t *testing.T) {
		t.Chdir(t.TempDir())

		path, err := SetProjectValue("strict", "true")
		require.NoError(t, err)
		assert.Equal(t, ProjectConfigPath(), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var doc map[string]interface{}
		require.NoError(t, yaml.Unmarshal(data, &doc))
		assert.Equal(t, true, doc["strict"])
	})

	t.Run("nested key and existing values preserved", func(t *testing.T) {
		t.Chdir(t.TempDir())
		require.NoError(t, os.MkdirAll(".chlog", 0755))
		require.NoError(t, os.WriteFile(ProjectConfigPath(),
			[]byte("changelog: HISTORY.md\n"), 0644))

		_, err := SetProjectValue("github.token", "ghp_abc")
		require.NoError(t, err)

		var doc map[string]interface{}
		data, err := os.ReadFile(ProjectConfigPath())
		require.NoError(t, err)
		require.NoError(t, yaml.Unmarshal(data, &doc))

		assert.Equal(t, "HISTORY.md", doc["changelog"])
		github, ok := doc["github"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "ghp_abc", github["token"])
	})

	t.Run("duration is normalized", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := SetProjectValue("remote_timeout", "1500ms")
		require.NoError(t, err)

		data, err := os.ReadFile(ProjectConfigPath())
		require.NoError(t, err)
		assert.Contains(t, string(data), "remote_timeout: 1.5s")
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := SetProjectValue("no_such_key", "x")
		require.Error(t, err)
		assert.ErrorAs(t, err, &ErrUnknownKey{})

		_, statErr := os.Stat(ProjectConfigPath())
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("invalid value is rejected", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := SetProjectValue("strict", "maybe")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid boolean")
	})

	t.Run("severity override accepts enum values only", func(t *testing.T) {
		t.Chdir(t.TempDir())

		_, err := SetProjectValue("lint.severity.semver-heading", "warning")
		require.NoError(t, err)

		_, err = SetProjectValue("lint.severity.semver-heading", "loud")
		require.Error(t, err)
	})
}
