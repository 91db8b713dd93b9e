package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chlog/internal/config"
	cerrors "github.com/ariel-frischer/chlog/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage chlog configuration",
	Long: `Manage chlog configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (CHLOG_*)
  2. Project config (.chlog/config.yml)
  3. User config (~/.config/chlog/config.yml)
  4. Built-in defaults`,
	Example: `  # List all known configuration keys
  chlog config keys

  # Set a key in the project config
  chlog config set strict true

  # Write a commented default project config
  chlog config init

  # Migrate legacy JSON configs to YAML
  chlog config migrate`,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List known configuration keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := make([]string, 0, len(config.KnownKeys))
		for key := range config.KnownKeys {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			schema := config.KnownKeys[key]
			fmt.Fprintf(cmd.OutOrStdout(), "%-18s %-9s %s (default: %v)\n",
				key, schema.Type, schema.Description, schema.Default)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-18s %-9s %s\n",
			"lint.severity.*", "enum", "Per-rule severity override: error | warning | off")
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key in the project config",
	Long: `Set a configuration key in the project config (.chlog/config.yml).

The value is validated against the key's schema before writing. Run
'chlog config keys' to see the known keys and their types.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.SetProjectValue(args[0], args[1])
		if err != nil {
			var unknown config.ErrUnknownKey
			if errors.As(err, &unknown) {
				return cerrors.NewArgumentError(err.Error(),
					"Run 'chlog config keys' to list known keys")
			}
			return cerrors.NewArgumentError(
				fmt.Sprintf("invalid value for %s: %v", args[0], err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s in %s\n", args[0], path)
		return nil
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default project config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.WriteProjectConfig(configInitForce)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
		return nil
	},
}

var (
	configMigrateUser    bool
	configMigrateProject bool
	configMigrateDryRun  bool
)

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate legacy JSON configs to YAML",
	Long: `Migrate legacy JSON configuration files to the YAML format.

Without flags, both user and project configs are migrated when their
legacy JSON files exist. The JSON originals are kept as .bak files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigMigrate(cmd)
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configMigrateCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")
	configMigrateCmd.Flags().BoolVar(&configMigrateUser, "user", false, "Migrate the user-level config only")
	configMigrateCmd.Flags().BoolVar(&configMigrateProject, "project", false, "Migrate the project-level config only")
	configMigrateCmd.Flags().BoolVar(&configMigrateDryRun, "dry-run", false, "Report planned actions without writing")
}

func runConfigMigrate(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	both := !configMigrateUser && !configMigrateProject

	if configMigrateUser || both {
		result, err := config.MigrateUserConfig(configMigrateDryRun)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result.Message)
		if result.Success && !result.DryRun {
			if err := config.RemoveLegacyConfig(result.SourcePath, configMigrateDryRun); err != nil {
				return err
			}
		}
	}

	if configMigrateProject || both {
		result, err := config.MigrateProjectConfig(configMigrateDryRun)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, result.Message)
		if result.Success && !result.DryRun {
			if err := config.RemoveLegacyConfig(result.SourcePath, configMigrateDryRun); err != nil {
				return err
			}
		}
	}

	return nil
}
