package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/avirajkale50/cloud-guardian/internal/api"
	"github.com/avirajkale50/cloud-guardian/internal/cache"
	"github.com/avirajkale50/cloud-guardian/internal/errors"
	"github.com/avirajkale50/cloud-guardian/internal/ui"
)

var (
	instanceListJSON bool
	addIDFlag        string
	addTypeFlag      string
	addRegionFlag    string
	addMockFlag      bool
	rmForceFlag      bool
)

// instanceCmd groups instance management subcommands.
var instanceCmd = &cobra.Command{
	Use:     "instance",
	Aliases: []string{"instances", "inst"},
	Short:   "Manage registered instances",
}

var instanceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered instances",
	RunE: func(cmd *cobra.Command, args []string) error {
		return instanceListCommand()
	},
}

var instanceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new instance",
	Long: `Register a compute instance with the autoscaler.

Mock instances are placed in the mock region regardless of the region you
pick; they exist to exercise the scaling engine without real infrastructure.

Examples:
  cloudguard instance add --id i-web-1 --type t2.micro --region us-east-1
  cloudguard instance add --id i-test-1 --type t2.micro --mock`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return instanceAddCommand(addIDFlag, addTypeFlag, addRegionFlag, addMockFlag)
	},
}

var instanceRmCmd = &cobra.Command{
	Use:   "rm <instance-id>",
	Short: "Delete an instance",
	Long: `Delete an instance and all of its metrics and decision history.

Monitoring must be stopped first. The client refuses early when it can see
the instance is monitoring; --force skips that check and lets the server
decide.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return instanceRmCommand(args[0], rmForceFlag)
	},
}

var instanceMonitorCmd = &cobra.Command{
	Use:   "monitor <start|stop> <instance-id>",
	Short: "Start or stop monitoring an instance",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return instanceMonitorCommand(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(instanceCmd)
	instanceCmd.AddCommand(instanceListCmd)
	instanceCmd.AddCommand(instanceAddCmd)
	instanceCmd.AddCommand(instanceRmCmd)
	instanceCmd.AddCommand(instanceMonitorCmd)

	instanceListCmd.Flags().BoolVar(&instanceListJSON, "json", false, "output in JSON format")
	instanceAddCmd.Flags().StringVar(&addIDFlag, "id", "", "instance identifier")
	instanceAddCmd.Flags().StringVar(&addTypeFlag, "type", "", "instance type (e.g. t2.micro)")
	instanceAddCmd.Flags().StringVar(&addRegionFlag, "region", "", "region (e.g. us-east-1)")
	instanceAddCmd.Flags().BoolVar(&addMockFlag, "mock", false, "register a mock instance")
	instanceRmCmd.Flags().BoolVar(&rmForceFlag, "force", false, "skip the local monitoring check")
}

// newCoordinator builds a one-shot mutation coordinator reporting to the
// console. The store is a throwaway: the process exits after one mutation,
// so its invalidations have nothing to refresh. A shared store only exists
// inside the dashboard.
func newCoordinator() *cache.Coordinator {
	return cache.NewCoordinator(client, cache.NewStore(), notifier())
}

func instanceListCommand() error {
	ctx := context.Background()
	if _, err := requireUser(ctx); err != nil {
		return err
	}

	instances, err := client.ListInstances(ctx)
	if err != nil {
		return err
	}

	if instanceListJSON {
		return printJSON(instances)
	}

	if len(instances) == 0 {
		fmt.Println("No instances registered. Add one with 'cloudguard instance add'.")
		return nil
	}

	columns := []ui.TableColumn{
		{Title: "INSTANCE", Width: 20},
		{Title: "TYPE", Width: 12},
		{Title: "REGION", Width: 12},
		{Title: "MONITORING", Width: 12},
		{Title: "SCALE", Width: 7},
	}
	rows := make([]table.Row, 0, len(instances))
	for _, inst := range instances {
		monitoring := ui.SymbolPending + " off"
		if inst.IsMonitoring {
			monitoring = ui.SymbolActive + " on"
		}
		label := inst.InstanceID
		if inst.IsMock {
			label += " (mock)"
		}
		rows = append(rows, table.Row{
			label,
			inst.InstanceType,
			inst.Region,
			monitoring,
			fmt.Sprintf("%d", inst.CurrentScaleLevel),
		})
	}

	fmt.Println(ui.RenderTable(columns, rows))
	return nil
}

func instanceAddCommand(id, instanceType, region string, mock bool) error {
	ctx := context.Background()
	if _, err := requireUser(ctx); err != nil {
		return err
	}

	if id == "" {
		var err error
		id, instanceType, region, mock, err = promptInstance(instanceType, region, mock)
		if err != nil {
			return err
		}
	}
	if mock && region == "" {
		region = api.MockRegion
	}

	_, err := newCoordinator().RegisterInstance(ctx, api.RegisterInstanceRequest{
		InstanceID:   id,
		InstanceType: instanceType,
		Region:       region,
		IsMock:       mock,
	})
	return err
}

func instanceRmCommand(instanceID string, force bool) error {
	ctx := context.Background()
	if _, err := requireUser(ctx); err != nil {
		return err
	}

	// Cheap pre-check against current server state. The server remains
	// authoritative; --force sends regardless.
	if !force {
		instances, err := client.ListInstances(ctx)
		if err == nil {
			for _, inst := range instances {
				if inst.InstanceID == instanceID && inst.IsMonitoring {
					return errors.New(errors.ErrInput,
						fmt.Sprintf("%s is being monitored", instanceID),
						"Stop monitoring first with 'cloudguard instance monitor stop', or pass --force")
				}
			}
		}
	}

	return newCoordinator().DeleteInstance(ctx, instanceID)
}

func instanceMonitorCommand(action, instanceID string) error {
	ctx := context.Background()
	if _, err := requireUser(ctx); err != nil {
		return err
	}

	coord := newCoordinator()
	switch action {
	case "start":
		return coord.StartMonitoring(ctx, instanceID)
	case "stop":
		return coord.StopMonitoring(ctx, instanceID)
	default:
		return fmt.Errorf("unknown action %q, expected start or stop", action)
	}
}

// Choices offered by the interactive registration form.
var (
	instanceTypes = []string{
		"t2.micro", "t2.small", "t2.medium", "t2.large",
		"t3.micro", "t3.small", "t3.medium", "t3.large",
		"m5.large", "m5.xlarge", "c5.large", "c5.xlarge",
	}

	regionOptions = []huh.Option[string]{
		huh.NewOption("US East (N. Virginia)", "us-east-1"),
		huh.NewOption("US East (Ohio)", "us-east-2"),
		huh.NewOption("US West (N. California)", "us-west-1"),
		huh.NewOption("US West (Oregon)", "us-west-2"),
		huh.NewOption("EU (Ireland)", "eu-west-1"),
		huh.NewOption("EU (Frankfurt)", "eu-central-1"),
		huh.NewOption("Asia Pacific (Singapore)", "ap-southeast-1"),
		huh.NewOption("Asia Pacific (Tokyo)", "ap-northeast-1"),
		huh.NewOption("Mock (no real hardware)", api.MockRegion),
	}
)

// promptInstance collects registration fields interactively.
func promptInstance(instanceType, region string, mock bool) (string, string, string, bool, error) {
	var id string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Instance ID").
				Placeholder("i-web-1").
				Value(&id).
				Validate(requireValue("instance ID")),
			huh.NewSelect[string]().
				Title("Instance type").
				Options(huh.NewOptions(instanceTypes...)...).
				Value(&instanceType),
			huh.NewSelect[string]().
				Title("Region").
				Options(regionOptions...).
				Value(&region),
			huh.NewConfirm().
				Title("Mock instance?").
				Description("Mock instances live in the mock region and need no real hardware").
				Value(&mock),
		),
	)
	if err := form.Run(); err != nil {
		return "", "", "", false, err
	}
	return id, instanceType, region, mock, nil
}

func requireValue(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
