// Package dashboard is the interactive terminal view over the cached
// autoscaler state. It owns no data: everything it renders arrives through
// cache subscriptions, and every change it makes goes through the mutation
// coordinator, whose invalidations flow back in as ordinary updates.
package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avirajkale50/cloud-guardian/internal/api"
	"github.com/avirajkale50/cloud-guardian/internal/cache"
)

// Tab identifies the detail pane for the selected instance.
type Tab int

const (
	TabMetrics Tab = iota
	TabDecisions
)

// String returns a human-readable label for the tab.
func (t Tab) String() string {
	switch t {
	case TabMetrics:
		return "metrics"
	case TabDecisions:
		return "decisions"
	default:
		return "metrics"
	}
}

// Next cycles to the other tab.
func (t Tab) Next() Tab {
	return Tab((int(t) + 1) % 2)
}

// subKind identifies which subscription a bridged update belongs to.
type subKind int

const (
	subInstances subKind = iota
	subMetrics
	subDecisions
)

// How long a mutation outcome stays on the status line.
const noticeDuration = 4 * time.Second

// Per-mutation deadline; mutations run off the UI loop.
const mutationTimeout = 15 * time.Second

// cacheMsg carries one subscription update into the Bubble Tea loop. seq
// ties the message to the subscription it came from, so updates from a
// canceled subscription are discarded instead of overwriting newer state.
type cacheMsg struct {
	kind subKind
	seq  int
	upd  cache.Update
	ok   bool
}

// noticeMsg carries a mutation outcome from the coordinator's notifier.
type noticeMsg struct {
	text  string
	isErr bool
}

// noticeExpiredMsg clears the status line after the display period.
type noticeExpiredMsg struct {
	seq int
}

// notifier bridges coordinator notifications into the message loop.
type notifier struct {
	ch chan noticeMsg
}

func (n *notifier) Success(message string) { n.ch <- noticeMsg{text: message} }
func (n *notifier) Error(message string)   { n.ch <- noticeMsg{text: message, isErr: true} }

// Model is the Bubble Tea model for the autoscaler dashboard.
type Model struct {
	resources *cache.Resources
	coord     *cache.Coordinator
	notices   *notifier
	user      *api.User

	instances    []api.Instance
	instancesErr error
	selected     int
	selectedID   string

	activeTab      Tab
	metricsPager   *cache.Pager
	decisionsPager *cache.Pager
	metricsPage    *api.MetricPage
	metricsErr     error
	decisionsPage  *api.DecisionPage
	decisionsErr   error

	instancesCh     <-chan cache.Update
	instancesCancel func()
	instancesSeq    int
	metricsCh       <-chan cache.Update
	metricsCancel   func()
	metricsSeq      int
	decisionsCh     <-chan cache.Update
	decisionsCancel func()
	decisionsSeq    int

	notice    string
	noticeErr bool
	noticeSeq int

	width    int
	height   int
	showHelp bool
	quitting bool
}

// NewModel creates a dashboard for an authenticated user. svc performs the
// mutations; reads go through the resource cache.
func NewModel(resources *cache.Resources, svc cache.Mutator, user *api.User, pageSize int) Model {
	n := &notifier{ch: make(chan noticeMsg, 8)}
	m := Model{
		resources:      resources,
		coord:          cache.NewCoordinator(svc, resources.Store(), n),
		notices:        n,
		user:           user,
		selected:       -1,
		metricsPager:   cache.NewPager("metrics", pageSize),
		decisionsPager: cache.NewPager("decisions", pageSize),
	}

	// The instance subscription binds here, not in Init: Init runs on a
	// copy, and the channel and cancel handle must live on the model that
	// Update sees.
	m.instancesSeq = 1
	m.instancesCh, m.instancesCancel = resources.SubscribeInstances()
	return m
}

// Init starts pumping the instance subscription and notifications.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitCacheCmd(subInstances, m.instancesSeq, m.instancesCh),
		m.waitNoticeCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case cacheMsg:
		cmd := m.handleCacheMsg(msg)
		return m, cmd

	case noticeMsg:
		return m, tea.Batch(m.waitNoticeCmd(), m.setNotice(msg.text, msg.isErr))

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
			m.noticeErr = false
		}
	}

	return m, nil
}

// setNotice puts a message on the status line and schedules its expiry.
func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.notice = text
	m.noticeErr = isErr
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.render()
}

// Close cancels all active subscriptions. Called after the program exits.
func (m *Model) Close() {
	if m.instancesCancel != nil {
		m.instancesCancel()
		m.instancesCancel = nil
	}
	m.cancelDetail()
}

// SelectedInstance returns the instance under the cursor, or nil.
func (m Model) SelectedInstance() *api.Instance {
	if m.selected < 0 || m.selected >= len(m.instances) {
		return nil
	}
	return &m.instances[m.selected]
}

// handleCacheMsg applies one subscription update and re-arms the wait on
// that channel. Updates from superseded subscriptions are dropped.
func (m *Model) handleCacheMsg(msg cacheMsg) tea.Cmd {
	switch msg.kind {
	case subInstances:
		if msg.seq != m.instancesSeq {
			return nil
		}
		if !msg.ok {
			return nil
		}
		cmd := m.applyInstances(msg.upd)
		return tea.Batch(m.waitCacheCmd(subInstances, msg.seq, m.instancesCh), cmd)

	case subMetrics:
		if msg.seq != m.metricsSeq {
			return nil
		}
		if !msg.ok {
			return nil
		}
		m.metricsErr = msg.upd.Err
		if page, ok := msg.upd.Data.(*api.MetricPage); ok && page != nil {
			m.metricsPage = page
		}
		return m.waitCacheCmd(subMetrics, msg.seq, m.metricsCh)

	case subDecisions:
		if msg.seq != m.decisionsSeq {
			return nil
		}
		if !msg.ok {
			return nil
		}
		m.decisionsErr = msg.upd.Err
		if page, ok := msg.upd.Data.(*api.DecisionPage); ok && page != nil {
			m.decisionsPage = page
		}
		return m.waitCacheCmd(subDecisions, msg.seq, m.decisionsCh)
	}
	return nil
}

// applyInstances replaces the instance list and keeps the cursor on the
// same instance when it survives the refresh. When it does not, the detail
// subscriptions move with the cursor.
func (m *Model) applyInstances(upd cache.Update) tea.Cmd {
	m.instancesErr = upd.Err
	list, ok := upd.Data.([]api.Instance)
	if !ok {
		return nil
	}
	m.instances = list

	if len(m.instances) == 0 {
		m.selected = -1
		m.selectedID = ""
		return m.resubscribeDetail()
	}

	// Follow the previously selected instance if it is still present.
	if m.selectedID != "" {
		for i := range m.instances {
			if m.instances[i].InstanceID == m.selectedID {
				m.selected = i
				return nil
			}
		}
	}

	// Selection gone or first load: clamp and rebind.
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected >= len(m.instances) {
		m.selected = len(m.instances) - 1
	}
	return m.resubscribeDetail()
}

// resubscribeDetail rebinds the metrics and decisions subscriptions to the
// instance under the cursor. Switching instances resets both pagers to
// page 1 through the pager's filter rule.
func (m *Model) resubscribeDetail() tea.Cmd {
	m.cancelDetail()

	sel := m.SelectedInstance()
	if sel == nil {
		m.selectedID = ""
		m.metricsPager.SetFilter("")
		m.decisionsPager.SetFilter("")
		m.metricsPage = nil
		m.metricsErr = nil
		m.decisionsPage = nil
		m.decisionsErr = nil
		return nil
	}

	if sel.InstanceID != m.selectedID {
		m.selectedID = sel.InstanceID
		m.metricsPager.SetFilter(sel.InstanceID)
		m.decisionsPager.SetFilter(sel.InstanceID)
		m.metricsPage = nil
		m.metricsErr = nil
		m.decisionsPage = nil
		m.decisionsErr = nil
	}

	return tea.Batch(m.resubscribeMetrics(), m.resubscribeDecisions())
}

func (m *Model) resubscribeMetrics() tea.Cmd {
	if m.metricsCancel != nil {
		m.metricsCancel()
		m.metricsCancel = nil
	}
	if m.selectedID == "" {
		return nil
	}
	m.metricsSeq++
	ch, cancel := m.resources.SubscribeMetrics(m.selectedID, m.metricsPager.Page(), m.metricsPager.PageSize())
	m.metricsCh = ch
	m.metricsCancel = cancel
	return m.waitCacheCmd(subMetrics, m.metricsSeq, ch)
}

func (m *Model) resubscribeDecisions() tea.Cmd {
	if m.decisionsCancel != nil {
		m.decisionsCancel()
		m.decisionsCancel = nil
	}
	if m.selectedID == "" {
		return nil
	}
	m.decisionsSeq++
	ch, cancel := m.resources.SubscribeDecisions(m.selectedID, m.decisionsPager.Page(), m.decisionsPager.PageSize())
	m.decisionsCh = ch
	m.decisionsCancel = cancel
	return m.waitCacheCmd(subDecisions, m.decisionsSeq, ch)
}

func (m *Model) cancelDetail() {
	if m.metricsCancel != nil {
		m.metricsCancel()
		m.metricsCancel = nil
	}
	if m.decisionsCancel != nil {
		m.decisionsCancel()
		m.decisionsCancel = nil
	}
}

// waitCacheCmd blocks on one subscription channel and delivers the next
// update as a message.
func (m Model) waitCacheCmd(kind subKind, seq int, ch <-chan cache.Update) tea.Cmd {
	return func() tea.Msg {
		upd, ok := <-ch
		return cacheMsg{kind: kind, seq: seq, upd: upd, ok: ok}
	}
}

// waitNoticeCmd blocks on the notifier channel.
func (m Model) waitNoticeCmd() tea.Cmd {
	return func() tea.Msg {
		return <-m.notices.ch
	}
}

// refetchCmd forces an immediate refresh of every visible subscription.
func (m *Model) refetchCmd() tea.Cmd {
	store := m.resources.Store()
	store.Refetch(cache.KeyInstances)
	if m.selectedID != "" {
		store.Refetch(m.metricsPager.Key())
		store.Refetch(m.decisionsPager.Key())
	}
	return nil
}

// toggleMonitorCmd starts or stops monitoring for the selection. Outcomes
// arrive through the notifier; data changes arrive through invalidation.
func (m *Model) toggleMonitorCmd() tea.Cmd {
	sel := m.SelectedInstance()
	if sel == nil {
		return nil
	}
	id := sel.InstanceID
	monitoring := sel.IsMonitoring
	coord := m.coord
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		if monitoring {
			_ = coord.StopMonitoring(ctx, id)
		} else {
			_ = coord.StartMonitoring(ctx, id)
		}
		return nil
	}
}

// simulateCmd injects a single random metric sample for the selection.
func (m *Model) simulateCmd() tea.Cmd {
	sel := m.SelectedInstance()
	if sel == nil {
		return nil
	}
	id := sel.InstanceID
	coord := m.coord
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		_, _ = coord.Simulate(ctx, api.SimulateRequest{InstanceID: id})
		return nil
	}
}

// deleteCmd removes the selection. The monitoring guard lives in the key
// handler, which owns the status-line message.
func (m *Model) deleteCmd() tea.Cmd {
	sel := m.SelectedInstance()
	if sel == nil {
		return nil
	}
	id := sel.InstanceID
	coord := m.coord
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		_ = coord.DeleteInstance(ctx, id)
		return nil
	}
}

// pageNextCmd advances the active tab's pager when the server reported a
// next page, then rebinds that subscription at the new position.
func (m *Model) pageNextCmd() tea.Cmd {
	switch m.activeTab {
	case TabMetrics:
		if m.metricsPage == nil || !m.metricsPager.Next(m.metricsPage.Pagination) {
			return nil
		}
		return m.resubscribeMetrics()
	case TabDecisions:
		if m.decisionsPage == nil || !m.decisionsPager.Next(m.decisionsPage.Pagination) {
			return nil
		}
		return m.resubscribeDecisions()
	}
	return nil
}

// pagePrevCmd moves the active tab's pager back one page; a no-op at page 1.
func (m *Model) pagePrevCmd() tea.Cmd {
	switch m.activeTab {
	case TabMetrics:
		if !m.metricsPager.Prev() {
			return nil
		}
		return m.resubscribeMetrics()
	case TabDecisions:
		if !m.decisionsPager.Prev() {
			return nil
		}
		return m.resubscribeDecisions()
	}
	return nil
}
