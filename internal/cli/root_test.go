package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/ariel-frischer/chlog/internal/errors"
)

// findCommand locates a registered subcommand by its Use string.
func findCommand(t *testing.T, parent *cobra.Command, use string) *cobra.Command {
	t.Helper()
	for _, cmd := range parent.Commands() {
		if cmd.Use == use {
			return cmd
		}
	}
	return nil
}

func TestGroupConstants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "changelog", GroupChangelog)
	assert.Equal(t, "authoring", GroupAuthoring)
	assert.Equal(t, "remote", GroupRemote)
	assert.Equal(t, "configuration", GroupConfiguration)
	assert.Equal(t, "internal", GroupInternal)
}

func TestCommandRegistration(t *testing.T) {
	tests := map[string]struct {
		use   string
		group string
	}{
		"lint":      {use: "lint [path]", group: GroupChangelog},
		"check":     {use: "check", group: GroupChangelog},
		"sync":      {use: "sync", group: GroupChangelog},
		"render":    {use: "render", group: GroupChangelog},
		"show":      {use: "show [version]", group: GroupChangelog},
		"extract":   {use: "extract <version>", group: GroupChangelog},
		"watch":     {use: "watch", group: GroupChangelog},
		"add":       {use: "add <category> <text>", group: GroupAuthoring},
		"release":   {use: "release [version]", group: GroupAuthoring},
		"draft":     {use: "draft", group: GroupRemote},
		"verify":    {use: "verify", group: GroupRemote},
		"init":      {use: "init", group: GroupConfiguration},
		"config":    {use: "config", group: GroupConfiguration},
		"changelog": {use: "changelog [version]", group: GroupInternal},
		"version":   {use: "version", group: GroupInternal},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cmd := findCommand(t, rootCmd, tc.use)
			require.NotNil(t, cmd, "command %q should be registered", tc.use)
			assert.Equal(t, tc.group, cmd.GroupID)
		})
	}
}

func TestRootCmdMetadata(t *testing.T) {
	assert.Equal(t, "chlog", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
}

func TestRootCmdPersistentFlags(t *testing.T) {
	tests := map[string]struct {
		flagName string
		defValue string
		flagType string
	}{
		"config flag": {flagName: "config", defValue: "", flagType: "string"},
		"file flag":   {flagName: "file", defValue: "", flagType: "string"},
		"debug flag":  {flagName: "debug", defValue: "false", flagType: "bool"},
		"plain flag":  {flagName: "plain", defValue: "false", flagType: "bool"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f := rootCmd.PersistentFlags().Lookup(tc.flagName)
			require.NotNil(t, f, "persistent flag %q should exist", tc.flagName)
			assert.Equal(t, tc.defValue, f.DefValue)
			assert.Equal(t, tc.flagType, f.Value.Type())
		})
	}
}

func TestCategoryExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		category cerrors.ErrorCategory
		expected int
	}{
		"argument errors":      {category: cerrors.Argument, expected: ExitInvalidArguments},
		"configuration errors": {category: cerrors.Configuration, expected: ExitMissingDependencies},
		"prerequisite errors":  {category: cerrors.Prerequisite, expected: ExitMissingDependencies},
		"runtime errors":       {category: cerrors.Runtime, expected: ExitValidationFailed},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, categoryExitCode(tc.category))
		})
	}
}
