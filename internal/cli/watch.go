package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	cerrors "github.com/ariel-frischer/chlog/internal/errors"
	"github.com/ariel-frischer/chlog/internal/lint"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Relint the changelog whenever it changes",
	Long: `Watch the changelog file and relint it on every change.

Uses filesystem notifications with a short debounce so editors that
write in multiple steps trigger a single lint pass. The parent
directory is watched, which survives editors that replace the file
rather than writing in place.

Stop with Ctrl-C.

Example:
  chlog watch`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd)
	},
}

func init() {
	watchCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := changelogPath(cfg)
	if _, err := os.Stat(path); err != nil {
		return cerrors.ChangelogNotFound(path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directory so rename-then-create saves are seen.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	opts := lint.Options{
		Strict:            cfg.Strict,
		SeverityOverrides: cfg.SeverityOverrides(),
		Disabled:          cfg.DisabledRules(),
	}

	lintOnce(cmd, path, opts)
	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s (Ctrl-C to stop)\n", path)

	return watchLoop(cmd.Context(), cmd, watcher, path, cfg.DebounceDuration(), opts)
}

func watchLoop(ctx context.Context, cmd *cobra.Command, watcher *fsnotify.Watcher, path string, debounce time.Duration, opts lint.Options) error {
	target, err := filepath.Abs(path)
	if err != nil {
		target = path
	}

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Debounce: editors write in several steps.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			if _, err := os.Stat(path); err != nil {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n--- %s ---\n", time.Now().Format("15:04:05"))
			lintOnce(cmd, path, opts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			debugf("watch error: %v", err)
		}
	}
}

func lintOnce(cmd *cobra.Command, path string, opts lint.Options) {
	result, err := lint.LintFile(path, opts)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	if err := lint.WriteReport(cmd.OutOrStdout(), result, plainFlag); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
}
