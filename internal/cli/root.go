// Package cli wires the cloudguard command tree. Each command file owns its
// cobra command and the function implementing it; shared runtime state
// (config, API client, session) is initialized once in the persistent
// pre-run hook.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avirajkale50/cloud-guardian/internal/api"
	"github.com/avirajkale50/cloud-guardian/internal/config"
	"github.com/avirajkale50/cloud-guardian/internal/session"
	"github.com/avirajkale50/cloud-guardian/internal/ui"
)

// Global flags
var (
	configFlag  string
	serverFlag  string
	noColorFlag bool
	verboseFlag bool
)

// Runtime state shared by all commands, built in initRuntime.
var (
	cfg      *config.Config
	tokens   session.Store
	client   *api.Client
	sessions *session.Manager
)

// rootCmd is the base command for cloudguard.
var rootCmd = &cobra.Command{
	Use:   "cloudguard",
	Short: "Client for the autoscaler service",
	Long: `cloudguard is a terminal client for the autoscaler service.

It manages your account session, registers and monitors compute instances,
inspects metrics and scaling decisions, and runs a live dashboard that keeps
a locally cached view of server state in sync.

Examples:
  cloudguard login
  cloudguard instance list
  cloudguard dashboard`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initRuntime()
	},
}

// Execute runs the root command and exits non-zero on error. Errors carry
// their own formatting, including suggestions.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default ~/.config/cloudguard/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

// initRuntime loads configuration and builds the shared API client and
// session manager. Runs before every command.
func initRuntime() error {
	if verboseFlag {
		os.Setenv("CLOUDGUARD_DEBUG", "1")
	}

	loaded, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	cfg = loaded

	if serverFlag != "" {
		cfg.ServerURL = serverFlag
	}

	colorMode := cfg.Output.Color
	if noColorFlag {
		colorMode = "never"
	}
	ui.ConfigureColor(colorMode)

	tokens = session.NewFileStore("")
	client = api.NewClient(cfg.ServerURL, tokens, api.WithTimeout(cfg.Timeout))
	sessions = session.NewManager(client, tokens)
	return nil
}

// notifier returns the console notifier mutations report through.
func notifier() *ui.ConsoleNotifier {
	return ui.NewConsoleNotifier(os.Stdout)
}
