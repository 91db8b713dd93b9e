package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
	cerrors "github.com/ariel-frischer/chlog/internal/errors"
)

var addPRFlag int

var addCmd = &cobra.Command{
	Use:   "add <category> <text>",
	Short: "Add an entry to the Unreleased section",
	Long: `Add an entry to the Unreleased section of the changelog.

The category must be one of the Keep a Changelog change types: added,
changed, deprecated, removed, fixed, security, or other. A missing
Unreleased section is created at the top of the changelog.

With --pr, the entry gets a markdown pull request link derived from the
repository URL.

Examples:
  chlog add added "New verify command for PR link checking"
  chlog add fixed "Handle empty tag lists in sync" --pr 142`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd, args[0], args[1])
	},
}

func init() {
	addCmd.GroupID = GroupAuthoring
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().IntVar(&addPRFlag, "pr", 0, "Pull request number to link from the entry")
}

func runAdd(cmd *cobra.Command, category, text string) error {
	category = strings.ToLower(strings.TrimSpace(category))
	if !changelog.IsValidCategory(category) {
		return cerrors.InvalidCategory(category)
	}
	if strings.TrimSpace(text) == "" {
		return cerrors.MissingEntryText()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, origin, err := loadModel(cfg)
	if err != nil {
		return err
	}

	if addPRFlag > 0 {
		repoURL, err := resolveRepoURL(cfg, log, nil)
		if err != nil {
			return err
		}
		text = fmt.Sprintf("%s ([#%d](%s/pull/%d))",
			strings.TrimRight(text, " "), addPRFlag, strings.TrimRight(repoURL, "/"), addPRFlag)
	}

	if err := log.AddEntry(category, text); err != nil {
		return fmt.Errorf("adding entry: %w", err)
	}

	if err := saveModel(cfg, log); err != nil {
		return err
	}

	debugf("entry added to %s", origin)
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added under Unreleased/%s: %s\n", capitalizedCategory(category), text)
	return nil
}

func capitalizedCategory(category string) string {
	if category == "" {
		return category
	}
	return strings.ToUpper(category[:1]) + category[1:]
}
