package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/changelog"
	"github.com/ariel-frischer/chlog/internal/config"
	cerrors "github.com/ariel-frischer/chlog/internal/errors"
)

var (
	initSourceFlag bool
	initForceFlag  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a changelog and configuration",
	Long: `Scaffold a starter changelog and project configuration.

Creates CHANGELOG.md with an empty Unreleased section and writes a
commented .chlog/config.yml. With --source, a YAML source of record is
created at .chlog/changelog.yaml and configured as authoritative.

Existing files are left alone unless --force is given.

Examples:
  chlog init            # CHANGELOG.md + .chlog/config.yml
  chlog init --source   # Also create a YAML source of record
  chlog init --force    # Overwrite existing files`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd)
	},
}

func init() {
	initCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initSourceFlag, "source", false, "Create a YAML source of record")
	initCmd.Flags().BoolVar(&initForceFlag, "force", false, "Overwrite existing files")
}

func runInit(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	log := starterChangelog()

	mdPath := "CHANGELOG.md"
	if fileFlag != "" {
		mdPath = fileFlag
	}
	if err := writeIfAbsent(mdPath, func() (string, error) {
		return changelog.RenderMarkdownString(log)
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ %s\n", mdPath)

	if initSourceFlag {
		sourcePath := ".chlog/changelog.yaml"
		if err := os.MkdirAll(config.ProjectConfigDir(), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", config.ProjectConfigDir(), err)
		}
		if _, err := os.Stat(sourcePath); err == nil && !initForceFlag {
			fmt.Fprintf(out, "  %s already exists (skipped)\n", sourcePath)
		} else {
			if err := changelog.Save(sourcePath, log); err != nil {
				return fmt.Errorf("writing %s: %w", sourcePath, err)
			}
			fmt.Fprintf(out, "✓ %s\n", sourcePath)
		}
	}

	configPath, err := config.WriteProjectConfig(initForceFlag)
	if err != nil {
		fmt.Fprintf(out, "  %s\n", err)
	} else {
		fmt.Fprintf(out, "✓ %s\n", configPath)
	}

	if initSourceFlag {
		fmt.Fprintf(out, "\nSet 'source: .chlog/changelog.yaml' in %s to make the YAML authoritative.\n", config.ProjectConfigPath())
	}
	return nil
}

// starterChangelog builds an empty changelog with an Unreleased section.
func starterChangelog() *changelog.Changelog {
	return &changelog.Changelog{
		Project: projectName(),
		Versions: []changelog.Version{
			{Version: "unreleased", Changes: changelog.Changes{}},
		},
	}
}

// writeIfAbsent writes generated content to path, respecting --force.
func writeIfAbsent(path string, generate func() (string, error)) error {
	if _, err := os.Stat(path); err == nil && !initForceFlag {
		return cerrors.NewPrerequisiteError(
			fmt.Sprintf("%s already exists", path),
			"Use --force to overwrite",
		)
	}

	content, err := generate()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return cerrors.FileNotWritable(path)
	}
	return nil
}
