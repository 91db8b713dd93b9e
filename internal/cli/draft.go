package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
	"github.com/ariel-frischer/chlog/internal/config"
	"github.com/ariel-frischer/chlog/internal/forge"
	"github.com/ariel-frischer/chlog/internal/git"
)

var (
	draftApplyFlag   bool
	draftCommitsFlag bool
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Suggest unreleased entries from merged PRs or commits",
	Long: `Suggest changelog entries for work merged since the last release.

By default, pull requests merged since the latest documented release
date are fetched from the repository's forge and turned into entry
suggestions with PR links. With --commits, suggestions come from local
git commit subjects since the latest semver tag instead (no network).

Suggestions are printed for review; --apply appends them to the
Unreleased section under the "other" category.

Examples:
  chlog draft              # Suggest from merged PRs
  chlog draft --commits    # Suggest from git commits since the last tag
  chlog draft --apply      # Append suggestions to Unreleased`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDraft(cmd)
	},
}

func init() {
	draftCmd.GroupID = GroupRemote
	rootCmd.AddCommand(draftCmd)

	draftCmd.Flags().BoolVar(&draftApplyFlag, "apply", false, "Append suggestions to the Unreleased section")
	draftCmd.Flags().BoolVar(&draftCommitsFlag, "commits", false, "Suggest from git commits instead of merged PRs")
}

func runDraft(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, _, err := loadModel(cfg)
	if err != nil {
		return err
	}

	var suggestions []string
	if draftCommitsFlag {
		suggestions, err = draftFromCommits()
	} else {
		suggestions, err = draftFromPRs(cmd, cfg, log)
	}
	if err != nil {
		return err
	}

	suggestions = filterKnownEntries(log, suggestions)
	if len(suggestions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing new to suggest.")
		return nil
	}

	for _, s := range suggestions {
		fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", s)
	}

	if !draftApplyFlag {
		fmt.Fprintf(cmd.OutOrStdout(), "\nRun 'chlog draft --apply' to append these to Unreleased.\n")
		return nil
	}

	for _, s := range suggestions {
		if err := log.AddEntry("other", s); err != nil {
			return fmt.Errorf("adding suggestion: %w", err)
		}
	}
	if err := saveModel(cfg, log); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Added %d entr(ies) to Unreleased\n", len(suggestions))
	return nil
}

func draftFromPRs(cmd *cobra.Command, cfg *config.Configuration, log *changelog.Changelog) ([]string, error) {
	repoURL, err := resolveRepoURL(cfg, log, nil)
	if err != nil {
		return nil, err
	}
	owner, repo, err := forge.ParseRepoURL(repoURL)
	if err != nil {
		return nil, fmt.Errorf("parsing repository URL: %w", err)
	}

	since := lastReleaseTime(log)
	client := forge.NewClient(cmd.Context(), cfg.GitHub.Token)

	spin := startSpinner(fmt.Sprintf(" Fetching PRs merged in %s/%s since %s...",
		owner, repo, since.Format("2006-01-02")))
	prs, err := client.MergedPRsSince(cmd.Context(), owner, repo, since)
	stopSpinner(spin)
	if err != nil {
		return nil, fmt.Errorf("fetching merged PRs: %w", err)
	}

	suggestions := make([]string, 0, len(prs))
	for _, pr := range prs {
		suggestions = append(suggestions,
			fmt.Sprintf("%s ([#%d](%s))", pr.Title, pr.Number, pr.URL))
	}
	return suggestions, nil
}

func draftFromCommits() ([]string, error) {
	tagName := ""
	if tag, err := git.LatestTag("."); err == nil && tag != nil {
		tagName = tag.Name
	}

	commits, err := git.CommitsSince(".", tagName)
	if err != nil {
		return nil, fmt.Errorf("reading commits: %w", err)
	}

	suggestions := make([]string, 0, len(commits))
	for _, c := range commits {
		subject := strings.TrimSpace(c.Subject)
		if subject == "" || strings.HasPrefix(subject, "Merge ") {
			continue
		}
		suggestions = append(suggestions, subject)
	}
	return suggestions, nil
}

// lastReleaseTime returns the date of the latest documented release, or
// the zero-adjacent epoch fallback when nothing is released yet.
func lastReleaseTime(log *changelog.Changelog) time.Time {
	latest := log.GetLatestRelease()
	if latest == nil {
		return time.Now().AddDate(-1, 0, 0)
	}
	t, err := time.Parse("2006-01-02", latest.Date)
	if err != nil {
		return time.Now().AddDate(-1, 0, 0)
	}
	return t
}

// filterKnownEntries drops suggestions whose PR number or text is
// already documented.
func filterKnownEntries(log *changelog.Changelog, suggestions []string) []string {
	knownPRs := make(map[int]bool)
	for _, ref := range log.PRReferences() {
		knownPRs[ref.Number] = true
	}
	knownText := make(map[string]bool)
	for _, entry := range log.AllEntries() {
		knownText[strings.TrimSpace(entry.Text)] = true
	}

	var fresh []string
	for _, s := range suggestions {
		refs := changelog.FindPRRefs(s)
		known := knownText[strings.TrimSpace(s)]
		for _, ref := range refs {
			if knownPRs[ref.Number] {
				known = true
			}
		}
		if !known {
			fresh = append(fresh, s)
		}
	}
	return fresh
}
