package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/avirajkale50/cloud-guardian/internal/session"
	"github.com/avirajkale50/cloud-guardian/internal/ui"
)

var statusJSON bool

// StatusOutput is the JSON shape of the status command.
type StatusOutput struct {
	Server    string `json:"server"`
	Reachable bool   `json:"reachable"`
	Version   string `json:"version,omitempty"`
	Latency   string `json:"latency,omitempty"`
	Error     string `json:"error,omitempty"`
	Session   string `json:"session"`
	Email     string `json:"email,omitempty"`
}

// statusCmd reports server reachability and session state.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server and session status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusCommand()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output in JSON format")
}

func statusCommand() error {
	ctx := context.Background()
	out := StatusOutput{Server: cfg.ServerURL}

	start := time.Now()
	health, err := client.Health(ctx)
	if err != nil {
		out.Error = err.Error()
	} else {
		out.Reachable = true
		out.Version = health.Version
		out.Latency = time.Since(start).Round(time.Millisecond).String()
	}

	// Session state is derived locally first; the identity check only runs
	// when a credential is stored.
	if err := sessions.Restore(ctx); err != nil {
		return err
	}
	out.Session = sessions.State().String()
	if user := sessions.Current(); user != nil {
		out.Email = user.Email
	}

	if statusJSON {
		return printJSON(out)
	}

	if out.Reachable {
		fmt.Printf("%s server %s reachable (%s, version %s)\n", ui.SymbolSuccess, out.Server, out.Latency, out.Version)
	} else {
		fmt.Printf("%s server %s unreachable\n  %s\n", ui.SymbolFail, out.Server, out.Error)
	}

	if out.Session == session.StateAuthenticated.String() {
		fmt.Printf("%s signed in as %s\n", ui.SymbolSuccess, out.Email)
	} else {
		fmt.Printf("%s not signed in\n", ui.SymbolPending)
	}
	return nil
}
