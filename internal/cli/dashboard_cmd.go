package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/avirajkale50/cloud-guardian/internal/cache"
	"github.com/avirajkale50/cloud-guardian/internal/dashboard"
	"github.com/avirajkale50/cloud-guardian/internal/errors"
)

// dashboardCmd starts the live TUI dashboard.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Open the live dashboard",
	Long: `Open the interactive dashboard.

Instances, metrics, and scaling decisions refresh on their own poll
intervals; mutations made from the dashboard refresh the affected panes
immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand()
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func dashboardCommand() error {
	user, err := requireUser(context.Background())
	if err != nil {
		return err
	}

	store := cache.NewStore()
	resources := cache.NewResources(store, client, cfg.Poll)
	model := dashboard.NewModel(resources, client, user, cfg.PageSize)

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return errors.Wrap(err, "Dashboard terminated unexpectedly")
	}

	// Stop any poll goroutines the final model still holds.
	if m, ok := final.(dashboard.Model); ok {
		m.Close()
	}
	return nil
}
