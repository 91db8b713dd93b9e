package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
)

var (
	selfChangelogLast   int
	selfChangelogRemote bool
)

var selfChangelogCmd = &cobra.Command{
	Use:   "changelog [version]",
	Short: "View chlog's own changelog",
	Long: `View chlog's own changelog entries.

By default, shows the 5 most recent entries from the changelog embedded
at build time. Use a version argument to see all entries for a specific
version, or --remote to fetch the latest published changelog (falling
back to the embedded copy when the fetch fails).

Examples:
  chlog changelog              # Show 5 most recent entries
  chlog changelog v0.2.0       # Show all entries for version 0.2.0
  chlog changelog unreleased   # Show unreleased changes
  chlog changelog --last 10    # Show 10 most recent entries
  chlog changelog --remote     # Fetch the latest published changelog`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSelfChangelog(cmd, args)
	},
}

func init() {
	selfChangelogCmd.GroupID = GroupInternal
	rootCmd.AddCommand(selfChangelogCmd)

	selfChangelogCmd.Flags().IntVar(&selfChangelogLast, "last", 5, "Number of entries to show")
	selfChangelogCmd.Flags().BoolVar(&selfChangelogRemote, "remote", false, "Fetch the latest published changelog")
}

func runSelfChangelog(cmd *cobra.Command, args []string) error {
	var log *changelog.Changelog
	var err error

	if selfChangelogRemote {
		cfg, cfgErr := loadConfig()
		if cfgErr != nil {
			return cfgErr
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RemoteTimeoutDuration())
		defer cancel()

		var fromRemote bool
		log, fromRemote, err = changelog.FetchRemoteWithFallback(ctx)
		if err != nil {
			return fmt.Errorf("loading changelog: %w", err)
		}
		if !fromRemote {
			fmt.Fprintln(cmd.ErrOrStderr(), "Remote fetch failed; showing embedded changelog.")
		}
	} else {
		log, err = changelog.LoadEmbedded()
		if err != nil {
			return fmt.Errorf("loading embedded changelog: %w", err)
		}
	}

	opts := changelog.FormatOptions{Plain: plainFlag}

	if len(args) == 1 {
		return showVersion(log, args[0], cmd, opts)
	}
	return showLastEntries(log, selfChangelogLast, cmd, opts)
}
