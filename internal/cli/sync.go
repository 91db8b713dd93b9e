package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
	cerrors "github.com/ariel-frischer/chlog/internal/errors"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Regenerate the markdown changelog from its YAML source",
	Long: `Regenerate the markdown changelog from the YAML source of record.

The generated file is idempotent - running sync multiple times produces
identical output as long as the source YAML hasn't changed. Versions
render newest first with their category sections in canonical order,
and comparison links are emitted for every documented version.

Requires a 'source' path in configuration.

Example:
  chlog sync`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd)
	},
}

func init() {
	syncCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command) error {
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
	if _, err := os.Stat(cfg.Source); err != nil {
		return cerrors.SourceNotFound(cfg.Source)
	}

	log, err := changelog.Load(cfg.Source)
	if err != nil {
		return fmt.Errorf("loading changelog YAML: %w", err)
	}
	applyRepoOverride(log, cfg)

	content, err := changelog.RenderMarkdownString(log)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	mdPath := changelogPath(cfg)
	if err := os.WriteFile(mdPath, []byte(content), 0644); err != nil {
		return cerrors.FileNotWritable(mdPath)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Synced %s → %s\n", cfg.Source, mdPath)
	return nil
}
