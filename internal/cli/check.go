package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
	cerrors "github.com/ariel-frischer/chlog/internal/errors"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the markdown changelog matches its YAML source",
	Long: `Verify that the markdown changelog is in sync with the YAML source.

This command compares the current markdown file with what would be
generated from the YAML source of record. Returns exit code 0 if in
sync, or exit code 1 with a useful message if out of sync.

Requires a 'source' path in configuration.

Example:
  chlog check`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd)
	},
}

func init() {
	checkCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Source == "" {
		return cerrors.NewConfigError(
			"no YAML source configured",
			"Set 'source' in .chlog/config.yml, e.g. source: .chlog/changelog.yaml",
			"Or scaffold one with: chlog init --source")
	}

	log, err := changelog.Load(cfg.Source)
	if err != nil {
		return fmt.Errorf("loading changelog YAML: %w", err)
	}
	applyRepoOverride(log, cfg)

	expected, err := changelog.RenderMarkdownString(log)
	if err != nil {
		return fmt.Errorf("rendering expected markdown: %w", err)
	}

	mdPath := changelogPath(cfg)
	actual, err := os.ReadFile(mdPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cerrors.ChangelogNotFound(mdPath)
		}
		return fmt.Errorf("reading %s: %w", mdPath, err)
	}

	if !bytes.Equal([]byte(expected), actual) {
		fmt.Fprintf(cmd.OutOrStdout(), "✗ %s is out of sync with %s\n", mdPath, cfg.Source)
		fmt.Fprintf(cmd.OutOrStdout(), "\nTo fix, run:\n  chlog sync\n")
		return NewExitError(ExitValidationFailed)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is in sync with %s\n", mdPath, cfg.Source)
	return nil
}
