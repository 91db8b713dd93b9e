package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cerrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/git"
	"github.com/ariel-frischer/chlog/internal/lint"
)

var (
	lintStrictFlag bool
	lintTagsFlag   bool
	lintFormatFlag string
	lintListRules  bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [path]",
	Short: "Lint a changelog for structural problems",
	Long: `Lint a changelog against the Keep a Changelog conventions.

Checks that every version heading carries a valid semantic version,
that release dates are present and well formed, that versions appear
newest first, that change categories are known and canonically ordered,
and that every entry referencing a pull request has a well-formed link
whose number matches its URL. Link-reference definitions and comparison
links are cross-checked against adjacent versions.

Errors exit with code 1; warnings are informational unless --strict
promotes them.

Examples:
  chlog lint                      # Lint the configured changelog
  chlog lint docs/CHANGES.md      # Lint a specific file
  chlog lint --strict             # Treat warnings as errors
  chlog lint --tags               # Cross-check versions against git tags
  chlog lint --format json        # Machine-readable output for CI`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLint(cmd, args)
	},
}

func init() {
	lintCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintStrictFlag, "strict", false, "Treat warnings as errors")
	lintCmd.Flags().BoolVar(&lintTagsFlag, "tags", false, "Cross-check documented versions against git tags")
	lintCmd.Flags().StringVar(&lintFormatFlag, "format", "text", "Output format: text or json")
	lintCmd.Flags().BoolVar(&lintListRules, "list-rules", false, "List available lint rules and exit")
}

func runLint(cmd *cobra.Command, args []string) error {
	if lintListRules {
		for _, rule := range lint.DefaultRules() {
			fmt.Fprintln(cmd.OutOrStdout(), rule.Name())
		}
		return nil
	}

	if lintFormatFlag != "text" && lintFormatFlag != "json" {
		return cerrors.NewArgumentError(
			fmt.Sprintf("invalid format: %s", lintFormatFlag),
			"Valid formats: text, json")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := changelogPath(cfg)
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err != nil {
		return cerrors.ChangelogNotFound(path)
	}

	opts := lint.Options{
		Strict:            lintStrictFlag || cfg.Strict,
		SeverityOverrides: cfg.SeverityOverrides(),
		Disabled:          cfg.DisabledRules(),
	}

	if lintTagsFlag {
		tags, err := lintTagNames()
		if err != nil {
			return err
		}
		opts.Tags = tags
	}

	result, err := lint.LintFile(path, opts)
	if err != nil {
		return fmt.Errorf("linting %s: %w", path, err)
	}

	if lintFormatFlag == "json" {
		if err := lint.WriteJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		if err := lint.WriteReport(cmd.OutOrStdout(), result, plainFlag); err != nil {
			return err
		}
	}

	if result.Failed(opts.Strict) {
		return NewExitError(ExitValidationFailed)
	}
	return nil
}

// lintTagNames collects semver tag names from the surrounding repository.
func lintTagNames() ([]string, error) {
	if !git.IsRepository(".") {
		return nil, cerrors.GitNotRepository()
	}

	tags, err := git.SemverTags(".")
	if err != nil {
		return nil, fmt.Errorf("reading git tags: %w", err)
	}

	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names, nil
}
