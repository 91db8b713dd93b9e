package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cerrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/forge"
	"github.com/ariel-frischer/chlog/internal/terminal"
)

var verifyTimeoutFlag time.Duration

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify changelog PR references against the repository",
	Long: `Verify that every pull request referenced by the changelog exists.

Each referenced PR number is checked against the repository's forge.
PRs that do not exist are errors; PRs that exist but were never merged
are warnings. Checks run concurrently with request rate limiting.

Authentication uses github.token from configuration or the GITHUB_TOKEN
environment variable. Unauthenticated requests work for public
repositories but have a much lower rate limit.

Examples:
  chlog verify
  chlog verify --timeout 60s`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerify(cmd)
	},
}

func init() {
	verifyCmd.GroupID = GroupRemote
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().DurationVar(&verifyTimeoutFlag, "timeout", 2*time.Minute, "Overall timeout for PR checks")
}

func runVerify(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, _, err := loadModel(cfg)
	if err != nil {
		return err
	}

	refs := log.PRReferences()
	if len(refs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No PR references found in the changelog.")
		return nil
	}

	repoURL, err := resolveRepoURL(cfg, log, nil)
	if err != nil {
		return err
	}
	owner, repo, err := forge.ParseRepoURL(repoURL)
	if err != nil {
		return fmt.Errorf("parsing repository URL: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), verifyTimeoutFlag)
	defer cancel()

	client := forge.NewClient(ctx, cfg.GitHub.Token)

	spin := startSpinner(fmt.Sprintf(" Checking %d pull request(s) in %s/%s...", len(refs), owner, repo))
	results, err := client.VerifyPRs(ctx, log, owner, repo)
	stopSpinner(spin)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			timeoutErr := cerrors.TimeoutError(verifyTimeoutFlag.String(), "PR verification")
			cerrors.PrintError(timeoutErr)
			return NewExitError(ExitTimeout)
		}
		return err
	}

	return reportVerifyResults(cmd, results)
}

func reportVerifyResults(cmd *cobra.Command, results []forge.VerifyResult) error {
	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	missing, unmerged, failed := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case forge.StatusOK:
			fmt.Fprintf(out, "%s #%d %s\n", green("✓"), r.Number, r.Title)
		case forge.StatusUnmerged:
			unmerged++
			fmt.Fprintf(out, "%s #%d exists but was never merged: %s\n", yellow("!"), r.Number, r.Title)
		case forge.StatusMissing:
			missing++
			fmt.Fprintf(out, "%s #%d does not exist\n", red("✗"), r.Number)
		case forge.StatusFailed:
			failed++
			fmt.Fprintf(out, "%s #%d check failed: %v\n", red("✗"), r.Number, r.Err)
		}
	}

	fmt.Fprintf(out, "\n%d checked, %d missing, %d unmerged, %d failed\n",
		len(results), missing, unmerged, failed)

	if missing > 0 || failed > 0 {
		return NewExitError(ExitValidationFailed)
	}
	return nil
}

// startSpinner starts a terminal spinner when stdout is a TTY and plain
// mode is off. Returns nil otherwise.
func startSpinner(message string) *spinner.Spinner {
	caps := terminal.DetectCapabilities()
	if plainFlag || !caps.IsTTY {
		return nil
	}
	symbols := terminal.SelectSymbols(caps)
	spin := spinner.New(spinner.CharSets[symbols.SpinnerSet], 100*time.Millisecond)
	spin.Suffix = message
	spin.Start()
	return spin
}

func stopSpinner(spin *spinner.Spinner) {
	if spin != nil {
		spin.Stop()
	}
}
