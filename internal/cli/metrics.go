package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"

	"github.com/avirajkale50/cloud-guardian/internal/api"
	"github.com/avirajkale50/cloud-guardian/internal/ui"
)

var (
	metricsPageFlag       int
	metricsPageSizeFlag   int
	metricsJSONFlag       bool
	decisionsPageFlag     int
	decisionsPageSizeFlag int
	decisionsJSONFlag     bool
)

// metricsCmd shows one page of an instance's metric samples.
var metricsCmd = &cobra.Command{
	Use:   "metrics <instance-id>",
	Short: "Show metric samples for an instance",
	Long: `Show one page of recorded metric samples for an instance, newest first.

Examples:
  cloudguard metrics i-web-1
  cloudguard metrics i-web-1 --page 3 --page-size 50`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return metricsCommand(args[0], metricsPageFlag, metricsPageSizeFlag, metricsJSONFlag)
	},
}

// decisionsCmd shows one page of an instance's scaling decisions.
var decisionsCmd = &cobra.Command{
	Use:   "decisions <instance-id>",
	Short: "Show scaling decisions for an instance",
	Long: `Show one page of the scaling engine's decision history for an instance.

Examples:
  cloudguard decisions i-web-1
  cloudguard decisions i-web-1 --page 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decisionsCommand(args[0], decisionsPageFlag, decisionsPageSizeFlag, decisionsJSONFlag)
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(decisionsCmd)

	metricsCmd.Flags().IntVar(&metricsPageFlag, "page", 1, "page number")
	metricsCmd.Flags().IntVar(&metricsPageSizeFlag, "page-size", 0, "rows per page (default from config)")
	metricsCmd.Flags().BoolVar(&metricsJSONFlag, "json", false, "output in JSON format")
	decisionsCmd.Flags().IntVar(&decisionsPageFlag, "page", 1, "page number")
	decisionsCmd.Flags().IntVar(&decisionsPageSizeFlag, "page-size", 0, "rows per page (default from config)")
	decisionsCmd.Flags().BoolVar(&decisionsJSONFlag, "json", false, "output in JSON format")
}

func metricsCommand(instanceID string, page, pageSize int, asJSON bool) error {
	ctx := context.Background()
	if _, err := requireUser(ctx); err != nil {
		return err
	}

	page, pageSize = normalizePaging(page, pageSize)
	result, err := client.Metrics(ctx, instanceID, page, pageSize)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(result)
	}

	if len(result.Metrics) == 0 {
		fmt.Printf("No metrics recorded for %s.\n", instanceID)
		return nil
	}

	columns := []ui.TableColumn{
		{Title: "TIMESTAMP", Width: 20},
		{Title: "CPU%", Width: 7},
		{Title: "MEM%", Width: 7},
		{Title: "NET IN", Width: 9},
		{Title: "NET OUT", Width: 9},
		{Title: "FLAG", Width: 14},
	}
	rows := make([]table.Row, 0, len(result.Metrics))
	for _, sample := range result.Metrics {
		flag := ""
		if sample.IsOutlier {
			flag = ui.SymbolOutlier + " " + sample.OutlierType
		}
		rows = append(rows, table.Row{
			sample.Timestamp,
			formatNullable(sample.CPUUtilization),
			formatNullable(sample.MemoryUsage),
			formatNullable(sample.NetworkIn),
			formatNullable(sample.NetworkOut),
			flag,
		})
	}

	fmt.Println(ui.RenderTable(columns, rows))
	printPageFooter(result.Pagination)
	return nil
}

func decisionsCommand(instanceID string, page, pageSize int, asJSON bool) error {
	ctx := context.Background()
	if _, err := requireUser(ctx); err != nil {
		return err
	}

	page, pageSize = normalizePaging(page, pageSize)
	result, err := client.Decisions(ctx, instanceID, page, pageSize)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(result)
	}

	if len(result.Decisions) == 0 {
		fmt.Printf("No scaling decisions recorded for %s.\n", instanceID)
		return nil
	}

	columns := []ui.TableColumn{
		{Title: "TIMESTAMP", Width: 20},
		{Title: "DECISION", Width: 13},
		{Title: "CPU%", Width: 7},
		{Title: "MEM%", Width: 7},
		{Title: "REASON", Width: 40},
	}
	rows := make([]table.Row, 0, len(result.Decisions))
	for _, d := range result.Decisions {
		rows = append(rows, table.Row{
			d.Timestamp,
			decisionLabel(d.Decision),
			formatNullable(d.CPUUtilization),
			formatNullable(d.MemoryUsage),
			d.Reason,
		})
	}

	fmt.Println(ui.RenderTable(columns, rows))
	printPageFooter(result.Pagination)
	return nil
}

// normalizePaging clamps the page to 1 and applies the configured page size
// when no flag was given.
func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = cfg.PageSize
	}
	return page, pageSize
}

func printPageFooter(p api.Page) {
	total := p.TotalPages
	if total < 1 {
		total = 1
	}
	fmt.Printf("page %d/%d, %d total\n", p.Page, total, p.TotalCount)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatNullable(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func decisionLabel(decision string) string {
	switch decision {
	case api.DecisionScaleUp:
		return ui.SymbolScaleUp + " scale up"
	case api.DecisionScaleDown:
		return ui.SymbolScaleDn + " scale down"
	default:
		return ui.SymbolNoAction + " no action"
	}
}
