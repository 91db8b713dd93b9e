package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
)

var (
	showLastFlag int
	showListFlag bool
)

var showCmd = &cobra.Command{
	Use:   "show [version]",
	Short: "Show changelog entries in the terminal",
	Long: `Show changelog entries with colored, width-aware formatting.

By default, shows the 5 most recent entries. Use a version argument to
see all entries for a specific version, or use --last to control entry
count.

Examples:
  chlog show                 # Show 5 most recent entries
  chlog show v1.4.0          # Show all entries for version 1.4.0
  chlog show 1.4.0           # Same (v prefix optional)
  chlog show unreleased      # Show unreleased changes
  chlog show --last 10       # Show 10 most recent entries
  chlog show --list          # List documented versions
  chlog show --plain         # Plain output (no colors/icons)`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd, args)
	},
}

func init() {
	showCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().IntVar(&showLastFlag, "last", 5, "Number of entries to show")
	showCmd.Flags().BoolVar(&showListFlag, "list", false, "List documented versions and exit")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, _, err := loadModel(cfg)
	if err != nil {
		return err
	}

	if showListFlag {
		for _, ver := range log.ListVersions() {
			fmt.Fprintln(cmd.OutOrStdout(), ver)
		}
		return nil
	}

	opts := changelog.FormatOptions{Plain: plainFlag}

	if len(args) == 1 {
		return showVersion(log, args[0], cmd, opts)
	}
	return showLastEntries(log, showLastFlag, cmd, opts)
}

func showVersion(log *changelog.Changelog, version string, cmd *cobra.Command, opts changelog.FormatOptions) error {
	v, err := log.GetVersion(version)
	if err != nil {
		var notFound *changelog.VersionNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Version %q not found.\n\n", version)
			fmt.Fprintf(cmd.ErrOrStderr(), "Available versions:\n")
			for _, ver := range log.ListVersions() {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", ver)
			}
			return NewExitError(ExitInvalidArguments)
		}
		return fmt.Errorf("getting version: %w", err)
	}

	return changelog.FormatVersion(v, cmd.OutOrStdout(), opts)
}

func showLastEntries(log *changelog.Changelog, n int, cmd *cobra.Command, opts changelog.FormatOptions) error {
	entries := log.GetLastN(n)
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No changelog entries found.")
		return nil
	}

	if err := changelog.FormatTerminal(entries, cmd.OutOrStdout(), opts); err != nil {
		return fmt.Errorf("formatting entries: %w", err)
	}

	total := log.GetEntryCount()
	if total > len(entries) {
		fmt.Fprintf(cmd.OutOrStdout(), "\n(%d of %d entries shown. Use --last %d to see all)\n",
			len(entries), total, total)
	}

	return nil
}
