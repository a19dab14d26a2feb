package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/avirajkale50/cloud-guardian/internal/api"
)

var (
	simCPUFlag      float64
	simMemoryFlag   float64
	simNetInFlag    float64
	simNetOutFlag   float64
	simDurationFlag int
	simIntervalFlag int
)

// simulateCmd injects metric samples into an instance.
var simulateCmd = &cobra.Command{
	Use:   "simulate <instance-id>",
	Short: "Inject simulated metric samples",
	Long: `Inject metric samples for an instance without real load.

With no value flags the server generates a single random sample. Utilization
flags pin specific channels. Passing both --duration and --interval
generates a backdated batch covering the window.

Examples:
  cloudguard simulate i-web-1
  cloudguard simulate i-web-1 --cpu 95
  cloudguard simulate i-web-1 --duration 10 --interval 30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return simulateCommand(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().Float64Var(&simCPUFlag, "cpu", 0, "CPU utilization percent (0-100)")
	simulateCmd.Flags().Float64Var(&simMemoryFlag, "memory", 0, "memory usage percent (0-100)")
	simulateCmd.Flags().Float64Var(&simNetInFlag, "net-in", 0, "network in rate in bytes/s")
	simulateCmd.Flags().Float64Var(&simNetOutFlag, "net-out", 0, "network out rate in bytes/s")
	simulateCmd.Flags().IntVar(&simDurationFlag, "duration", 0, "batch duration in minutes (1-60, requires --interval)")
	simulateCmd.Flags().IntVar(&simIntervalFlag, "interval", 0, "batch sample interval in seconds (10-300, requires --duration)")
}

func simulateCommand(cmd *cobra.Command, instanceID string) error {
	ctx := context.Background()
	if _, err := requireUser(ctx); err != nil {
		return err
	}

	// Only flags the user actually set become part of the request; the
	// server randomizes the rest.
	req := api.SimulateRequest{InstanceID: instanceID}
	if cmd.Flags().Changed("cpu") {
		req.CPUUtilization = &simCPUFlag
	}
	if cmd.Flags().Changed("memory") {
		req.MemoryUsage = &simMemoryFlag
	}
	if cmd.Flags().Changed("net-in") {
		req.NetworkIn = &simNetInFlag
	}
	if cmd.Flags().Changed("net-out") {
		req.NetworkOut = &simNetOutFlag
	}
	if cmd.Flags().Changed("duration") {
		req.DurationMinutes = &simDurationFlag
	}
	if cmd.Flags().Changed("interval") {
		req.IntervalSeconds = &simIntervalFlag
	}

	_, err := newCoordinator().Simulate(ctx, req)
	return err
}
