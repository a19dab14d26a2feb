package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avirajkale50/cloud-guardian/internal/api"
	"github.com/avirajkale50/cloud-guardian/internal/cache"
	"github.com/avirajkale50/cloud-guardian/internal/config"
)

// fakeService backs both the resource cache and the mutation coordinator.
type fakeService struct {
	mu        sync.Mutex
	instances []api.Instance
	mutations []string
}

func (f *fakeService) ListInstances(ctx context.Context) ([]api.Instance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.Instance(nil), f.instances...), nil
}

func (f *fakeService) Metrics(ctx context.Context, instanceID string, page, pageSize int) (*api.MetricPage, error) {
	return &api.MetricPage{
		InstanceID: instanceID,
		Pagination: api.Page{Page: page, PageSize: pageSize, TotalPages: 1},
	}, nil
}

func (f *fakeService) Decisions(ctx context.Context, instanceID string, page, pageSize int) (*api.DecisionPage, error) {
	return &api.DecisionPage{
		InstanceID: instanceID,
		Pagination: api.Page{Page: page, PageSize: pageSize, TotalPages: 1},
	}, nil
}

func (f *fakeService) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutations = append(f.mutations, op)
}

func (f *fakeService) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.mutations...)
}

func (f *fakeService) RegisterInstance(ctx context.Context, req api.RegisterInstanceRequest) (*api.RegisterInstanceResponse, error) {
	f.record("register " + req.InstanceID)
	return &api.RegisterInstanceResponse{Instance: api.Instance{InstanceID: req.InstanceID}}, nil
}

func (f *fakeService) StartMonitoring(ctx context.Context, instanceID string) (*api.MessageResponse, error) {
	f.record("start " + instanceID)
	return &api.MessageResponse{}, nil
}

func (f *fakeService) StopMonitoring(ctx context.Context, instanceID string) (*api.MessageResponse, error) {
	f.record("stop " + instanceID)
	return &api.MessageResponse{}, nil
}

func (f *fakeService) DeleteInstance(ctx context.Context, instanceID string) (*api.MessageResponse, error) {
	f.record("delete " + instanceID)
	return &api.MessageResponse{}, nil
}

func (f *fakeService) Simulate(ctx context.Context, req api.SimulateRequest) (*api.SimulateResponse, error) {
	f.record("simulate " + req.InstanceID)
	return &api.SimulateResponse{Message: "ok"}, nil
}

// newTestModel builds a dashboard over a fake service with poll intervals
// long enough that no timer fires during a test.
func newTestModel(t *testing.T, instances []api.Instance) (*Model, *fakeService) {
	t.Helper()
	svc := &fakeService{instances: instances}
	store := cache.NewStore()
	poll := config.PollConfig{Instances: time.Hour, Metrics: time.Hour, Decisions: time.Hour}
	resources := cache.NewResources(store, svc, poll)

	m := NewModel(resources, svc, &api.User{Email: "ops@example.com"}, 20)
	t.Cleanup(m.Close)
	return &m, svc
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func instanceUpdate(instances []api.Instance) cache.Update {
	return cache.Update{Key: cache.KeyInstances, Data: instances}
}

func TestTabCycle(t *testing.T) {
	assert.Equal(t, TabDecisions, TabMetrics.Next())
	assert.Equal(t, TabMetrics, TabDecisions.Next())
	assert.Equal(t, "metrics", TabMetrics.String())
	assert.Equal(t, "decisions", TabDecisions.String())
}

func TestQuitKeySetsQuitting(t *testing.T) {
	m, _ := newTestModel(t, nil)

	handled, cmd := m.HandleKeyMsg(keyMsg("q"))

	assert.True(t, handled)
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, nil)

	handled, _ := m.HandleKeyMsg(keyMsg("?"))
	assert.True(t, handled)
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Keyboard reference")

	m.HandleKeyMsg(keyMsg("esc"))
	assert.False(t, m.showHelp)
}

func TestApplyInstancesSelectsFirstOnInitialLoad(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m.applyInstances(instanceUpdate([]api.Instance{
		{InstanceID: "i-a"},
		{InstanceID: "i-b"},
	}))

	assert.Equal(t, 0, m.selected)
	assert.Equal(t, "i-a", m.selectedID)
	assert.Equal(t, "i-a", m.metricsPager.Filter())
	assert.Equal(t, "i-a", m.decisionsPager.Filter())
}

func TestApplyInstancesFollowsSelection(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.applyInstances(instanceUpdate([]api.Instance{
		{InstanceID: "i-a"},
		{InstanceID: "i-b"},
		{InstanceID: "i-c"},
	}))
	m.moveSelection(1)
	require.Equal(t, "i-b", m.selectedID)

	// i-a disappears; the cursor stays on i-b at its new index.
	m.applyInstances(instanceUpdate([]api.Instance{
		{InstanceID: "i-b"},
		{InstanceID: "i-c"},
	}))

	assert.Equal(t, 0, m.selected)
	assert.Equal(t, "i-b", m.selectedID)
}

func TestApplyInstancesClampsWhenSelectionRemoved(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.applyInstances(instanceUpdate([]api.Instance{
		{InstanceID: "i-a"},
		{InstanceID: "i-b"},
	}))
	m.moveSelection(1)

	m.applyInstances(instanceUpdate([]api.Instance{
		{InstanceID: "i-a"},
	}))

	assert.Equal(t, 0, m.selected)
	assert.Equal(t, "i-a", m.selectedID)
}

func TestSelectionBounds(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.applyInstances(instanceUpdate([]api.Instance{
		{InstanceID: "i-a"},
		{InstanceID: "i-b"},
	}))

	m.HandleKeyMsg(keyMsg("k"))
	assert.Equal(t, 0, m.selected, "k at the top stays put")

	m.HandleKeyMsg(keyMsg("j"))
	assert.Equal(t, 1, m.selected)

	m.HandleKeyMsg(keyMsg("j"))
	assert.Equal(t, 1, m.selected, "j at the bottom stays put")
}

func TestSelectionChangeResetsPagers(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.applyInstances(instanceUpdate([]api.Instance{
		{InstanceID: "i-a"},
		{InstanceID: "i-b"},
	}))

	m.metricsPage = &api.MetricPage{Pagination: api.Page{Page: 1, HasNext: true}}
	cmd := m.pageNextCmd()
	require.NotNil(t, cmd)
	require.Equal(t, 2, m.metricsPager.Page())

	m.moveSelection(1)

	assert.Equal(t, 1, m.metricsPager.Page())
	assert.Equal(t, "i-b", m.metricsPager.Filter())
	assert.Equal(t, 1, m.decisionsPager.Page())
	assert.Nil(t, m.metricsPage, "stale page cleared on instance switch")
}

func TestPageNextRequiresServerNextPage(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.applyInstances(instanceUpdate([]api.Instance{{InstanceID: "i-a"}}))

	m.metricsPage = &api.MetricPage{Pagination: api.Page{Page: 1, HasNext: false}}
	assert.Nil(t, m.pageNextCmd())
	assert.Equal(t, 1, m.metricsPager.Page())

	assert.Nil(t, m.pagePrevCmd(), "prev at page 1 is a no-op")
	assert.Equal(t, 1, m.metricsPager.Page())
}

func TestPagingActsOnActiveTab(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.applyInstances(instanceUpdate([]api.Instance{{InstanceID: "i-a"}}))
	m.HandleKeyMsg(keyMsg("tab"))
	require.Equal(t, TabDecisions, m.activeTab)

	m.decisionsPage = &api.DecisionPage{Pagination: api.Page{Page: 1, HasNext: true}}
	cmd := m.pageNextCmd()

	require.NotNil(t, cmd)
	assert.Equal(t, 2, m.decisionsPager.Page())
	assert.Equal(t, 1, m.metricsPager.Page(), "inactive tab unchanged")
}

func TestStaleSubscriptionUpdateDropped(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.applyInstances(instanceUpdate([]api.Instance{{InstanceID: "i-a"}}))
	staleSeq := m.metricsSeq

	// Rebinding bumps the sequence; the old subscription's update must not
	// land.
	m.resubscribeMetrics()
	cmd := m.handleCacheMsg(cacheMsg{
		kind: subMetrics,
		seq:  staleSeq,
		upd:  cache.Update{Data: &api.MetricPage{InstanceID: "stale"}},
		ok:   true,
	})

	assert.Nil(t, cmd)
	assert.Nil(t, m.metricsPage)
}

func TestMetricsErrorKeepsStaleData(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.applyInstances(instanceUpdate([]api.Instance{{InstanceID: "i-a"}}))

	page := &api.MetricPage{InstanceID: "i-a", Pagination: api.Page{Page: 1}}
	m.handleCacheMsg(cacheMsg{kind: subMetrics, seq: m.metricsSeq, upd: cache.Update{Data: page}, ok: true})
	require.Equal(t, page, m.metricsPage)

	m.handleCacheMsg(cacheMsg{
		kind: subMetrics,
		seq:  m.metricsSeq,
		upd:  cache.Update{Data: page, Err: assert.AnError},
		ok:   true,
	})

	assert.Equal(t, page, m.metricsPage, "stale data stays visible")
	assert.Error(t, m.metricsErr)
}

func TestDeleteGuardedWhileMonitoring(t *testing.T) {
	m, svc := newTestModel(t, nil)
	m.applyInstances(instanceUpdate([]api.Instance{
		{InstanceID: "i-a", IsMonitoring: true},
	}))

	handled, _ := m.HandleKeyMsg(keyMsg("d"))

	assert.True(t, handled)
	assert.Equal(t, "Stop monitoring before deleting", m.notice)
	assert.True(t, m.noticeErr)
	assert.Empty(t, svc.recorded(), "no request leaves the client")
}

func TestDeleteRunsForIdleInstance(t *testing.T) {
	m, svc := newTestModel(t, nil)
	m.applyInstances(instanceUpdate([]api.Instance{
		{InstanceID: "i-a", IsMonitoring: false},
	}))

	_, cmd := m.HandleKeyMsg(keyMsg("d"))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []string{"delete i-a"}, svc.recorded())

	select {
	case notice := <-m.notices.ch:
		assert.Equal(t, "Instance deleted", notice.text)
		assert.False(t, notice.isErr)
	case <-time.After(time.Second):
		t.Fatal("no notification delivered")
	}
}

func TestMonitorToggleFollowsCurrentState(t *testing.T) {
	m, svc := newTestModel(t, nil)
	m.applyInstances(instanceUpdate([]api.Instance{
		{InstanceID: "i-a", IsMonitoring: false},
		{InstanceID: "i-b", IsMonitoring: true},
	}))

	_, cmd := m.HandleKeyMsg(keyMsg("m"))
	require.NotNil(t, cmd)
	cmd()

	m.moveSelection(1)
	_, cmd = m.HandleKeyMsg(keyMsg("m"))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []string{"start i-a", "stop i-b"}, svc.recorded())
}

func TestSimulateTargetsSelection(t *testing.T) {
	m, svc := newTestModel(t, nil)
	m.applyInstances(instanceUpdate([]api.Instance{{InstanceID: "i-a"}}))

	_, cmd := m.HandleKeyMsg(keyMsg("s"))
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, []string{"simulate i-a"}, svc.recorded())
}

func TestNoticeLifecycle(t *testing.T) {
	m, _ := newTestModel(t, nil)

	var model tea.Model = *m
	model, _ = model.(Model).Update(noticeMsg{text: "Monitoring started"})
	got := model.(Model)
	assert.Equal(t, "Monitoring started", got.notice)

	// An expiry for a superseded notice does not clear the newer one.
	model, _ = got.Update(noticeExpiredMsg{seq: got.noticeSeq - 1})
	assert.Equal(t, "Monitoring started", model.(Model).notice)

	model, _ = model.(Model).Update(noticeExpiredMsg{seq: got.noticeSeq})
	assert.Empty(t, model.(Model).notice)
}

func TestViewRendersPanes(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.applyInstances(instanceUpdate([]api.Instance{
		{InstanceID: "i-web-1", InstanceType: "t2.micro", Region: "us-east-1", IsMonitoring: true},
		{InstanceID: "i-mock-1", InstanceType: "t2.micro", Region: api.MockRegion, IsMock: true},
	}))
	m.width = 120
	m.height = 40

	out := m.View()

	assert.Contains(t, out, "cloudguard")
	assert.Contains(t, out, "ops@example.com")
	assert.Contains(t, out, "i-web-1")
	assert.Contains(t, out, "(mock)")
	assert.Contains(t, out, "2 instances, 1 monitoring")
}

func TestViewWithoutInstances(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.applyInstances(instanceUpdate([]api.Instance{}))

	out := m.View()

	assert.Contains(t, out, "No instances registered")
	assert.Contains(t, out, "Select an instance to inspect")
}
