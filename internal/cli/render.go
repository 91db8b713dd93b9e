package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
	cerrors "github.com/ariel-frischer/chlog/internal/errors"
)

var renderOutputFlag string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the changelog model as Keep a Changelog markdown",
	Long: `Render the changelog model as Keep a Changelog markdown.

Reads the YAML source when configured, or reparses the markdown file,
and writes a normalized rendering: newest version first, canonical
category order, comparison links in the footer. Useful for normalizing
a hand-edited changelog or inspecting what sync would write.

Examples:
  chlog render                      # Write to stdout
  chlog render --output CHANGES.md  # Write to a file`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(cmd)
	},
}

func init() {
	renderCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutputFlag, "output", "o", "", "Output file path (default: stdout)")
}

func runRender(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, origin, err := loadModel(cfg)
	if err != nil {
		return err
	}
	debugf("rendering model loaded from %s", origin)

	content, err := changelog.RenderMarkdownString(log)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	if renderOutputFlag == "" {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}

	if err := os.WriteFile(renderOutputFlag, []byte(content), 0644); err != nil {
		return cerrors.FileNotWritable(renderOutputFlag)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", renderOutputFlag)
	return nil
}
