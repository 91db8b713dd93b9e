package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
	cerrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/semver"
)

var (
	releaseBumpFlag string
	releaseDateFlag string
)

var releaseCmd = &cobra.Command{
	Use:   "release [version]",
	Short: "Promote the Unreleased section to a new release",
	Long: `Promote the Unreleased section to a new versioned release.

The new version must be a valid semantic version strictly greater than
the latest documented release. Instead of an explicit version, --bump
derives the next version from the latest release.

The release date defaults to today (UTC) and can be overridden with
--date YYYY-MM-DD.

Examples:
  chlog release 1.4.0               # Release as 1.4.0, dated today
  chlog release v2.0.0-rc.1         # Prerelease versions are allowed
  chlog release --bump minor        # 1.4.0 -> 1.5.0
  chlog release 1.4.1 --date 2026-08-30`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRelease(cmd, args)
	},
}

func init() {
	releaseCmd.GroupID = GroupAuthoring
	rootCmd.AddCommand(releaseCmd)

	releaseCmd.Flags().StringVar(&releaseBumpFlag, "bump", "", "Derive the version: major, minor, or patch")
	releaseCmd.Flags().StringVar(&releaseDateFlag, "date", "", "Release date (YYYY-MM-DD, default: today)")
}

func runRelease(cmd *cobra.Command, args []string) error {
	if len(args) == 1 && releaseBumpFlag != "" {
		return cerrors.InvalidFlagCombination("version argument and --bump",
			"Provide either an explicit version or --bump, not both")
	}
	if len(args) == 0 && releaseBumpFlag == "" {
		return cerrors.NewArgumentErrorWithUsage(
			"a version or --bump is required",
			"chlog release <version> | chlog release --bump major|minor|patch")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, _, err := loadModel(cfg)
	if err != nil {
		return err
	}

	unreleased := log.GetUnreleased()
	if unreleased == nil || unreleased.Changes.IsEmpty() {
		return cerrors.NothingToRelease()
	}

	version := ""
	if len(args) == 1 {
		version = args[0]
		if !semver.IsValid(version) {
			return cerrors.InvalidVersion(version)
		}
	} else {
		part, err := semver.ParsePart(releaseBumpFlag)
		if err != nil {
			return cerrors.NewArgumentError(
				fmt.Sprintf("invalid bump part: %s", releaseBumpFlag),
				"Valid parts: major, minor, patch")
		}
		version, err = log.NextVersion(part)
		if err != nil {
			return fmt.Errorf("deriving next version: %w", err)
		}
	}

	released, err := log.Release(version, releaseDateFlag)
	if err != nil {
		return fmt.Errorf("promoting unreleased changes: %w", err)
	}

	if err := saveModel(cfg, log); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Released %s (%s) with %d change(s)\n",
		released.Version, released.Date, released.Changes.Count())
	opts := changelog.FormatOptions{Plain: plainFlag}
	for _, entry := range released.Entries() {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", changelog.FormatEntrySummary(entry, opts))
	}
	return nil
}
