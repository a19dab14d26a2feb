package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/avirajkale50/cloud-guardian/internal/config"
	"github.com/avirajkale50/cloud-guardian/internal/errors"
)

var configInitForce bool

// configCmd groups configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cloudguard configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Create a config file with defaults at the standard location
(~/.config/cloudguard/config.yaml).

Examples:
  cloudguard config init
  cloudguard config init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitCommand(configInitForce)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCommand()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}

func configInitCommand(force bool) error {
	path := configFlag
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"Cannot determine the config location",
			"Pass an explicit path with --config")
	}

	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config already exists at %s", path),
			"Re-run with --force to overwrite it")
	}

	if err := config.Write(config.DefaultConfig(), path); err != nil {
		return err
	}

	notifier().Success(fmt.Sprintf("Wrote %s", path))
	return nil
}

func configShowCommand() error {
	// cfg already reflects file, environment, and flag overrides.
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "Failed to render config")
	}
	fmt.Print(string(out))
	return nil
}
