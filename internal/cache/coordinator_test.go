package cache

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/avirajkale50/cloud-guardian/internal/api"
	"github.com/avirajkale50/cloud-guardian/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMutator records calls and returns canned responses or errors.
type fakeMutator struct {
	registerReq  api.RegisterInstanceRequest
	simulateReq  api.SimulateRequest
	simulateResp *api.SimulateResponse
	err          error
	calls        []string
}

func (f *fakeMutator) RegisterInstance(ctx context.Context, req api.RegisterInstanceRequest) (*api.RegisterInstanceResponse, error) {
	f.calls = append(f.calls, "register")
	f.registerReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &api.RegisterInstanceResponse{Message: "ok", Instance: api.Instance{InstanceID: req.InstanceID}}, nil
}

func (f *fakeMutator) StartMonitoring(ctx context.Context, id string) (*api.MessageResponse, error) {
	f.calls = append(f.calls, "start")
	if f.err != nil {
		return nil, f.err
	}
	return &api.MessageResponse{Message: "ok"}, nil
}

func (f *fakeMutator) StopMonitoring(ctx context.Context, id string) (*api.MessageResponse, error) {
	f.calls = append(f.calls, "stop")
	if f.err != nil {
		return nil, f.err
	}
	return &api.MessageResponse{Message: "ok"}, nil
}

func (f *fakeMutator) DeleteInstance(ctx context.Context, id string) (*api.MessageResponse, error) {
	f.calls = append(f.calls, "delete")
	if f.err != nil {
		return nil, f.err
	}
	return &api.MessageResponse{Message: "ok"}, nil
}

func (f *fakeMutator) Simulate(ctx context.Context, req api.SimulateRequest) (*api.SimulateResponse, error) {
	f.calls = append(f.calls, "simulate")
	f.simulateReq = req
	if f.err != nil {
		return nil, f.err
	}
	if f.simulateResp != nil {
		return f.simulateResp, nil
	}
	return &api.SimulateResponse{Message: "created", Metric: &api.Metric{ID: "m1"}}, nil
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *recordingNotifier) Error(msg string)   { n.errors = append(n.errors, msg) }

// primedStore returns a store with fresh entries for the instance list and
// one metrics and decisions page, plus a fetch counter per key.
func primedStore(t *testing.T) (*Store, map[string]*atomic.Int64) {
	t.Helper()
	s := NewStore()
	counters := make(map[string]*atomic.Int64)
	for _, key := range []string{
		KeyInstances,
		MetricsKey("i-1", 1, 20),
		DecisionsKey("i-1", 1, 20),
	} {
		c := &atomic.Int64{}
		counters[key] = c
		_, err := s.Get(context.Background(), key, countingFetcher(c))
		require.NoError(t, err)
	}
	return s, counters
}

// refetches reports whether a Get on the key invokes its fetcher again.
func refetches(t *testing.T, s *Store, key string, c *atomic.Int64) bool {
	t.Helper()
	before := c.Load()
	_, err := s.Get(context.Background(), key, countingFetcher(c))
	require.NoError(t, err)
	return c.Load() > before
}

func TestMutationsInvalidateInstances(t *testing.T) {
	ops := []struct {
		name    string
		run     func(*Coordinator) error
		success string
	}{
		{"register", func(c *Coordinator) error {
			_, err := c.RegisterInstance(context.Background(), api.RegisterInstanceRequest{
				InstanceID: "i-9", InstanceType: "t2.micro", Region: "us-east-1",
			})
			return err
		}, "Instance registered successfully"},
		{"start", func(c *Coordinator) error {
			return c.StartMonitoring(context.Background(), "i-9")
		}, "Monitoring started"},
		{"stop", func(c *Coordinator) error {
			return c.StopMonitoring(context.Background(), "i-9")
		}, "Monitoring stopped"},
		{"delete", func(c *Coordinator) error {
			return c.DeleteInstance(context.Background(), "i-9")
		}, "Instance deleted"},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			store, counters := primedStore(t)
			notify := &recordingNotifier{}
			coord := NewCoordinator(&fakeMutator{}, store, notify)

			require.NoError(t, op.run(coord))

			assert.True(t, refetches(t, store, KeyInstances, counters[KeyInstances]),
				"instances must go stale after %s", op.name)
			assert.False(t, refetches(t, store, MetricsKey("i-1", 1, 20), counters[MetricsKey("i-1", 1, 20)]),
				"metrics must be untouched by %s", op.name)
			assert.Equal(t, []string{op.success}, notify.successes)
		})
	}
}

func TestSimulateInvalidatesMetricsAndDecisions(t *testing.T) {
	store, counters := primedStore(t)
	notify := &recordingNotifier{}
	coord := NewCoordinator(&fakeMutator{}, store, notify)

	_, err := coord.Simulate(context.Background(), api.SimulateRequest{InstanceID: "i-1"})
	require.NoError(t, err)

	assert.True(t, refetches(t, store, MetricsKey("i-1", 1, 20), counters[MetricsKey("i-1", 1, 20)]))
	assert.True(t, refetches(t, store, DecisionsKey("i-1", 1, 20), counters[DecisionsKey("i-1", 1, 20)]))
	assert.False(t, refetches(t, store, KeyInstances, counters[KeyInstances]),
		"simulate must not invalidate the instance list")
	assert.Equal(t, []string{"Metric simulated successfully"}, notify.successes)
}

func TestSimulateBatchMessageReportsCountAndDuration(t *testing.T) {
	store, _ := primedStore(t)
	notify := &recordingNotifier{}
	svc := &fakeMutator{simulateResp: &api.SimulateResponse{
		Message: "batch", MetricsCreated: 10, DurationMinutes: 5, IntervalSeconds: 30,
	}}
	coord := NewCoordinator(svc, store, notify)

	duration, interval := 5, 30
	resp, err := coord.Simulate(context.Background(), api.SimulateRequest{
		InstanceID:      "i-1",
		DurationMinutes: &duration,
		IntervalSeconds: &interval,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.MetricsCreated)

	require.Len(t, notify.successes, 1)
	assert.Contains(t, notify.successes[0], "10")
	assert.Contains(t, notify.successes[0], "5")

	// Both fields made it into the request body.
	require.NotNil(t, svc.simulateReq.DurationMinutes)
	require.NotNil(t, svc.simulateReq.IntervalSeconds)
	assert.Equal(t, 5, *svc.simulateReq.DurationMinutes)
	assert.Equal(t, 30, *svc.simulateReq.IntervalSeconds)
}

func TestFailedMutationInvalidatesNothing(t *testing.T) {
	store, counters := primedStore(t)
	notify := &recordingNotifier{}
	svc := &fakeMutator{err: &api.Error{Status: 409, Message: "Cannot delete a monitoring instance"}}
	coord := NewCoordinator(svc, store, notify)

	err := coord.DeleteInstance(context.Background(), "i-1")
	require.Error(t, err)

	assert.False(t, refetches(t, store, KeyInstances, counters[KeyInstances]),
		"failed delete must leave the instances cache untouched")
	assert.Empty(t, notify.successes)
	require.Len(t, notify.errors, 1)
	assert.Equal(t, "Cannot delete a monitoring instance", notify.errors[0])
}

func TestRegisterInstanceMockForcesRegion(t *testing.T) {
	store, _ := primedStore(t)
	svc := &fakeMutator{}
	coord := NewCoordinator(svc, store, nil)

	_, err := coord.RegisterInstance(context.Background(), api.RegisterInstanceRequest{
		InstanceID:   "i-9",
		InstanceType: "t2.micro",
		Region:       "us-east-1", // stale from a prior selection
		IsMock:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, api.MockRegion, svc.registerReq.Region)
	assert.True(t, svc.registerReq.IsMock)
}

func TestValidationRejectsBeforeNetworkCall(t *testing.T) {
	bad := 150.0
	duration := 5
	tests := []struct {
		name string
		run  func(*Coordinator) error
	}{
		{"empty instance id on register", func(c *Coordinator) error {
			_, err := c.RegisterInstance(context.Background(), api.RegisterInstanceRequest{InstanceType: "t2.micro", Region: "us-east-1"})
			return err
		}},
		{"empty instance type", func(c *Coordinator) error {
			_, err := c.RegisterInstance(context.Background(), api.RegisterInstanceRequest{InstanceID: "i-9", Region: "us-east-1"})
			return err
		}},
		{"empty id on start", func(c *Coordinator) error {
			return c.StartMonitoring(context.Background(), "  ")
		}},
		{"empty id on delete", func(c *Coordinator) error {
			return c.DeleteInstance(context.Background(), "")
		}},
		{"out of range cpu", func(c *Coordinator) error {
			_, err := c.Simulate(context.Background(), api.SimulateRequest{InstanceID: "i-1", CPUUtilization: &bad})
			return err
		}},
		{"duration without interval", func(c *Coordinator) error {
			_, err := c.Simulate(context.Background(), api.SimulateRequest{InstanceID: "i-1", DurationMinutes: &duration})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			svc := &fakeMutator{}
			coord := NewCoordinator(svc, store, nil)

			err := tt.run(coord)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrInput))
			assert.Empty(t, svc.calls, "invalid input must be rejected before the network call")
		})
	}
}

func TestSimulateNetworkRatesAcceptLargeValues(t *testing.T) {
	store, _ := primedStore(t)
	svc := &fakeMutator{}
	coord := NewCoordinator(svc, store, nil)

	// Byte rates, not percentages. These match the defaults the dashboard
	// dialog sends.
	netIn, netOut := 1024000.0, 512000.0
	_, err := coord.Simulate(context.Background(), api.SimulateRequest{
		InstanceID: "i-1", NetworkIn: &netIn, NetworkOut: &netOut,
	})
	require.NoError(t, err)

	require.NotNil(t, svc.simulateReq.NetworkIn)
	assert.Equal(t, 1024000.0, *svc.simulateReq.NetworkIn)

	negative := -1.0
	_, err = coord.Simulate(context.Background(), api.SimulateRequest{
		InstanceID: "i-1", NetworkIn: &negative,
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrInput))
	assert.Contains(t, err.Error(), "non-negative")
}

func TestSimulateRangeValidation(t *testing.T) {
	store := NewStore()
	coord := NewCoordinator(&fakeMutator{}, store, nil)

	tooLong, tooFast := 120, 5
	ok := 30

	_, err := coord.Simulate(context.Background(), api.SimulateRequest{
		InstanceID: "i-1", DurationMinutes: &tooLong, IntervalSeconds: &ok,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 and 60")

	okDur := 5
	_, err = coord.Simulate(context.Background(), api.SimulateRequest{
		InstanceID: "i-1", DurationMinutes: &okDur, IntervalSeconds: &tooFast,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10 and 300")
}
