package cli

import (
	"fmt"
	"os"

	"wingman/internal/config"
	"wingman/internal/ui"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
	Long: `Wingman reads its settings from a TOML file. Missing keys fall back
to built-in defaults.

Examples:
  wingman config path          # Print the config file location
  wingman config show          # Print the effective settings
  wingman config init          # Write a config file with the defaults`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), configFile())
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if structured() {
			return ui.Encode(cmd.OutOrStdout(), format, cfg)
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file populated with the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile()
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		defaults := config.Default()
		var err error
		if cfgFile != "" {
			err = defaults.SaveTo(path)
		} else {
			err = defaults.Save()
		}
		if err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		ui.SuccessMsg("Wrote %s", path)
		return nil
	},
}

// configFile is the --config path when given, otherwise the default location.
func configFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.ConfigPath()
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
