package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/avirajkale50/cloud-guardian/internal/api"
	"github.com/avirajkale50/cloud-guardian/internal/ui"
)

// Default pane widths when the terminal has not reported a size yet.
const (
	defaultWidth    = 100
	minListWidth    = 28
	timestampLayout = "15:04:05"
)

// render assembles the full dashboard frame.
func (m Model) render() string {
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	listWidth := m.listWidth()
	detailWidth := m.detailWidth(listWidth)

	left := m.renderInstancePane(listWidth)
	right := m.renderDetailPane(detailWidth)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(m.renderNotice())
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) listWidth() int {
	w := m.width
	if w == 0 {
		w = defaultWidth
	}
	lw := w / 3
	if lw < minListWidth {
		lw = minListWidth
	}
	return lw
}

func (m Model) detailWidth(listWidth int) int {
	w := m.width
	if w == 0 {
		w = defaultWidth
	}
	// Borders and padding around both panes
	dw := w - listWidth - 6
	if dw < 30 {
		dw = 30
	}
	return dw
}

// renderHeader shows the signed-in user and fleet summary.
func (m Model) renderHeader() string {
	title := HeaderStyle.Render("cloudguard")

	monitoring := 0
	for _, inst := range m.instances {
		if inst.IsMonitoring {
			monitoring++
		}
	}

	meta := fmt.Sprintf("%d instances, %d monitoring", len(m.instances), monitoring)
	if m.user != nil {
		meta = m.user.Email + "  |  " + meta
	}
	if m.instancesErr != nil {
		meta += "  " + ErrorBadgeStyle.Render(ui.SymbolFail+" refresh failed")
	}

	return title + HeaderMetaStyle.Render(meta)
}

// renderInstancePane renders the selectable instance list.
func (m Model) renderInstancePane(width int) string {
	var b strings.Builder
	b.WriteString(PaneTitleStyle.Render("Instances"))
	b.WriteString("\n\n")

	if len(m.instances) == 0 {
		b.WriteString(IdleStyle.Render("No instances registered"))
	}

	for i, inst := range m.instances {
		line := m.renderInstanceRow(inst, width-4)
		if i == m.selected {
			line = SelectedRowStyle.Render(line)
		}
		b.WriteString(line)
		if i < len(m.instances)-1 {
			b.WriteString("\n")
		}
	}

	return PaneActiveStyle.Width(width).Render(b.String())
}

func (m Model) renderInstanceRow(inst api.Instance, width int) string {
	var marker string
	if inst.IsMonitoring {
		marker = MonitoringStyle.Render(ui.SymbolActive)
	} else {
		marker = IdleStyle.Render(ui.SymbolPending)
	}

	label := inst.InstanceID
	if inst.IsMock {
		label += " (mock)"
	}
	detail := IdleStyle.Render(fmt.Sprintf("  %s/%s", inst.InstanceType, inst.Region))

	row := marker + " " + label + detail
	return truncate(row, width)
}

// renderDetailPane renders the active tab for the selected instance.
func (m Model) renderDetailPane(width int) string {
	var b strings.Builder
	b.WriteString(m.renderTabBar())
	b.WriteString("\n\n")

	if m.SelectedInstance() == nil {
		b.WriteString(IdleStyle.Render("Select an instance to inspect"))
		return PaneStyle.Width(width).Render(b.String())
	}

	switch m.activeTab {
	case TabMetrics:
		b.WriteString(m.renderMetrics(width))
	case TabDecisions:
		b.WriteString(m.renderDecisions(width))
	}

	return PaneStyle.Width(width).Render(b.String())
}

func (m Model) renderTabBar() string {
	tabs := []Tab{TabMetrics, TabDecisions}
	var parts []string
	for _, t := range tabs {
		label := t.String()
		if t == m.activeTab {
			parts = append(parts, PaneTitleStyle.Render(label))
		} else {
			parts = append(parts, IdleStyle.Render(label))
		}
	}
	return strings.Join(parts, IdleStyle.Render(" | "))
}

func (m Model) renderMetrics(width int) string {
	var b strings.Builder

	if m.metricsErr != nil {
		b.WriteString(ErrorBadgeStyle.Render(ui.SymbolFail + " " + m.metricsErr.Error()))
		b.WriteString("\n")
	}
	if m.metricsPage == nil {
		b.WriteString(IdleStyle.Render("Loading metrics..."))
		return b.String()
	}
	if len(m.metricsPage.Metrics) == 0 {
		b.WriteString(IdleStyle.Render("No metrics recorded"))
		b.WriteString("\n")
		b.WriteString(m.renderPageLine(m.metricsPage.Pagination))
		return b.String()
	}

	header := fmt.Sprintf("%-10s %8s %8s %9s %9s  %s", "TIME", "CPU%", "MEM%", "NET IN", "NET OUT", "FLAG")
	b.WriteString(HeaderMetaStyle.Render(truncate(header, width-4)))
	b.WriteString("\n")

	for _, sample := range m.metricsPage.Metrics {
		row := fmt.Sprintf("%-10s %s %s %s %s  %s",
			formatTimestamp(sample.Timestamp),
			formatUtilization(sample.CPUUtilization),
			formatUtilization(sample.MemoryUsage),
			formatRate(sample.NetworkIn),
			formatRate(sample.NetworkOut),
			outlierFlag(sample),
		)
		b.WriteString(truncate(row, width-4))
		b.WriteString("\n")
	}

	b.WriteString(m.renderPageLine(m.metricsPage.Pagination))
	return b.String()
}

func (m Model) renderDecisions(width int) string {
	var b strings.Builder

	if m.decisionsErr != nil {
		b.WriteString(ErrorBadgeStyle.Render(ui.SymbolFail + " " + m.decisionsErr.Error()))
		b.WriteString("\n")
	}
	if m.decisionsPage == nil {
		b.WriteString(IdleStyle.Render("Loading decisions..."))
		return b.String()
	}
	if len(m.decisionsPage.Decisions) == 0 {
		b.WriteString(IdleStyle.Render("No scaling decisions yet"))
		b.WriteString("\n")
		b.WriteString(m.renderPageLine(m.decisionsPage.Pagination))
		return b.String()
	}

	for _, d := range m.decisionsPage.Decisions {
		symbol := decisionSymbol(d.Decision)
		row := fmt.Sprintf("%-10s %s %-11s %s",
			formatTimestamp(d.Timestamp),
			decisionStyle(d.Decision).Render(symbol),
			d.Decision,
			IdleStyle.Render(d.Reason),
		)
		b.WriteString(truncate(row, width-4))
		b.WriteString("\n")
	}

	b.WriteString(m.renderPageLine(m.decisionsPage.Pagination))
	return b.String()
}

func (m Model) renderPageLine(page api.Page) string {
	total := page.TotalPages
	if total < 1 {
		total = 1
	}
	line := fmt.Sprintf("page %d/%d (%d total)", page.Page, total, page.TotalCount)
	return HeaderMetaStyle.Render(line)
}

func (m Model) renderNotice() string {
	if m.noticeErr {
		return NoticeErrorStyle.Render(" " + ui.SymbolFail + " " + m.notice)
	}
	return NoticeSuccessStyle.Render(" " + ui.SymbolSuccess + " " + m.notice)
}

// renderFooter renders the keyboard hint line.
func (m Model) renderFooter() string {
	hints := []string{
		"j/k select",
		"tab " + m.activeTab.Next().String(),
		"[/] page",
		"m monitor",
		"s simulate",
		"d delete",
		"r refresh",
		"? help",
		"q quit",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

// renderHelp renders the full-screen key reference.
func (m Model) renderHelp() string {
	rows := [][2]string{
		{"j / k, arrows", "select instance"},
		{"home / end", "jump to first / last instance"},
		{"tab", "switch between metrics and decisions"},
		{"[ / ]", "previous / next page"},
		{"m", "start or stop monitoring the selection"},
		{"s", "inject a simulated metric sample"},
		{"d", "delete the selection (stop monitoring first)"},
		{"r", "refresh all panes now"},
		{"?", "toggle this help"},
		{"esc", "close help"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(PaneTitleStyle.Render("Keyboard reference"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %-16s %s\n", HeaderMetaStyle.Render(row[0]), row[1]))
	}
	return PaneStyle.Render(b.String())
}

// formatTimestamp shortens an RFC 3339 server timestamp to wall time.
func formatTimestamp(ts string) string {
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Local().Format(timestampLayout)
	}
	if len(ts) > 10 {
		return ts[:10]
	}
	return ts
}

// formatUtilization renders a nullable percentage, colored by severity.
// Padding happens before styling so escape sequences do not skew columns.
func formatUtilization(v *float64) string {
	if v == nil {
		return fmt.Sprintf("%8s", "-")
	}
	return utilizationStyle(*v).Render(fmt.Sprintf("%8.1f", *v))
}

func formatRate(v *float64) string {
	if v == nil {
		return fmt.Sprintf("%9s", "-")
	}
	return fmt.Sprintf("%9.1f", *v)
}

func outlierFlag(sample api.Metric) string {
	if !sample.IsOutlier {
		return ""
	}
	return OutlierStyle.Render(ui.SymbolOutlier + " " + sample.OutlierType)
}

func decisionSymbol(decision string) string {
	switch decision {
	case api.DecisionScaleUp:
		return ui.SymbolScaleUp
	case api.DecisionScaleDown:
		return ui.SymbolScaleDn
	default:
		return ui.SymbolNoAction
	}
}

// truncate cuts a rendered line to fit a pane width. Styled lines may carry
// escape sequences, so only unstyled overflow is trimmed exactly.
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width])
}
