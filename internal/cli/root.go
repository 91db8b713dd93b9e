// Package cli implements the chlog command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cerrors "github.com/ariel-frischer/chlog/internal/errors"
)

// Command group IDs for organizing help output
const (
	GroupChangelog     = "changelog"
	GroupAuthoring     = "authoring"
	GroupRemote        = "remote"
	GroupConfiguration = "configuration"
	GroupInternal      = "internal"
)

var (
	// Persistent flags shared across commands
	configFlag string
	fileFlag   string
	debugFlag  bool
	plainFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "chlog",
	Short: "Keep a Changelog toolkit: lint, render, and maintain changelogs",
	Long: `chlog maintains changelogs in the Keep a Changelog format.

It lints CHANGELOG.md files for structural problems (semantic version
headings, release dates, category order, PR link integrity, comparison
links), keeps a YAML source of record in sync with the rendered
markdown, promotes unreleased changes into releases, and cross-checks
entries against git tags and merged pull requests.`,
	Example: `  # Lint the changelog in the current directory
  chlog lint

  # Add an entry to the Unreleased section
  chlog add fixed "Handle empty tag lists in sync"

  # Promote unreleased changes to a release
  chlog release 1.4.0

  # Show the last 5 documented changes in the terminal
  chlog show`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupAuthoring, Title: "Authoring Commands:"},
		&cobra.Group{ID: GroupRemote, Title: "Remote Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
		&cobra.Group{ID: GroupInternal, Title: "Internal Commands:"},
	)

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (default: .chlog/config.yml)")
	rootCmd.PersistentFlags().StringVar(&fileFlag, "file", "", "Path to the changelog file (default: from config)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVar(&plainFlag, "plain", false, "Plain text output (no colors/icons)")
}

// Execute runs the root command, prints any error, and returns it.
// Exit code mapping happens in main via ExitCode.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	if cliErr := cerrors.AsCLIError(err); cliErr != nil {
		cerrors.PrintError(cliErr)
		return NewExitError(categoryExitCode(cliErr.Category))
	}

	if _, ok := err.(*ExitError); !ok {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// categoryExitCode maps structured error categories to the exit code contract.
func categoryExitCode(category cerrors.ErrorCategory) int {
	switch category {
	case cerrors.Argument:
		return ExitInvalidArguments
	case cerrors.Configuration, cerrors.Prerequisite:
		return ExitMissingDependencies
	default:
		return ExitValidationFailed
	}
}
