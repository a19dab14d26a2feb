package dashboard

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/avirajkale50/cloud-guardian/internal/api"
	"github.com/avirajkale50/cloud-guardian/internal/ui"
)

// Utilization thresholds for metric severity coloring
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ui.ColorPrimary).
			Bold(true).
			Padding(0, 1)

	HeaderMetaStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Padding(0, 1)

	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorMuted).
			Padding(0, 1)

	PaneActiveStyle = PaneStyle.
			BorderForeground(ui.ColorInfo)

	PaneTitleStyle = lipgloss.NewStyle().
			Foreground(ui.ColorInfo).
			Bold(true)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ui.ColorPrimary).
				Background(ui.ColorMuted)

	MonitoringStyle = lipgloss.NewStyle().
			Foreground(ui.ColorSuccess)

	IdleStyle = lipgloss.NewStyle().
			Foreground(ui.ColorMuted)

	NoticeSuccessStyle = lipgloss.NewStyle().
				Foreground(ui.ColorSuccess)

	NoticeErrorStyle = lipgloss.NewStyle().
				Foreground(ui.ColorError)

	ErrorBadgeStyle = lipgloss.NewStyle().
			Foreground(ui.ColorError).
			Bold(true)

	OutlierStyle = lipgloss.NewStyle().
			Foreground(ui.ColorWarning)
)

// utilizationStyle colors a percentage by severity.
func utilizationStyle(pct float64) lipgloss.Style {
	switch {
	case pct >= CriticalThreshold:
		return lipgloss.NewStyle().Foreground(ui.ColorError)
	case pct >= WarningThreshold:
		return lipgloss.NewStyle().Foreground(ui.ColorWarning)
	default:
		return lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	}
}

// decisionStyle colors a scaling decision.
func decisionStyle(decision string) lipgloss.Style {
	switch decision {
	case api.DecisionScaleUp:
		return lipgloss.NewStyle().Foreground(ui.ColorError)
	case api.DecisionScaleDown:
		return lipgloss.NewStyle().Foreground(ui.ColorInfo)
	default:
		return lipgloss.NewStyle().Foreground(ui.ColorMuted)
	}
}
