package cache

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/avirajkale50/cloud-guardian/internal/api"
	"github.com/avirajkale50/cloud-guardian/internal/errors"
	"github.com/avirajkale50/cloud-guardian/internal/logger"
)

// Notifier receives user-facing outcome notifications (the toast analogue).
// Implementations must be non-blocking.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NoopNotifier discards notifications.
type NoopNotifier struct{}

func (NoopNotifier) Success(string) {}
func (NoopNotifier) Error(string)   {}

// Mutator is the slice of the API client the coordinator writes through.
type Mutator interface {
	RegisterInstance(ctx context.Context, req api.RegisterInstanceRequest) (*api.RegisterInstanceResponse, error)
	StartMonitoring(ctx context.Context, instanceID string) (*api.MessageResponse, error)
	StopMonitoring(ctx context.Context, instanceID string) (*api.MessageResponse, error)
	DeleteInstance(ctx context.Context, instanceID string) (*api.MessageResponse, error)
	Simulate(ctx context.Context, req api.SimulateRequest) (*api.SimulateResponse, error)
}

// Coordinator executes state-changing operations and coordinates
// invalidation of the cached views each mutation affects.
//
// Mutations are confirm-then-invalidate: nothing is applied locally before
// the server confirms, so there is never optimistic state to roll back. A
// failed mutation performs no invalidation and surfaces the server's message.
type Coordinator struct {
	svc    Mutator
	store  *Store
	notify Notifier
	log    logger.Logger
}

// NewCoordinator wires a mutation coordinator over the API client and cache.
// A nil notifier discards notifications.
func NewCoordinator(svc Mutator, store *Store, notify Notifier) *Coordinator {
	if notify == nil {
		notify = NoopNotifier{}
	}
	return &Coordinator{
		svc:    svc,
		store:  store,
		notify: notify,
		log:    logger.NewEnvLogger("[mutate]"),
	}
}

// RegisterInstance registers a new instance. A mock instance always carries
// the mock region, regardless of what the caller selected.
func (c *Coordinator) RegisterInstance(ctx context.Context, req api.RegisterInstanceRequest) (*api.Instance, error) {
	if req.IsMock {
		req.Region = api.MockRegion
	}
	if err := validateRegisterInstance(req); err != nil {
		c.notify.Error(err.Message)
		return nil, err
	}

	resp, err := c.svc.RegisterInstance(ctx, req)
	if err != nil {
		return nil, c.fail("Failed to register instance", err)
	}

	c.store.Invalidate(KeyInstances)
	c.notify.Success("Instance registered successfully")
	return &resp.Instance, nil
}

// StartMonitoring enables monitoring for an instance.
func (c *Coordinator) StartMonitoring(ctx context.Context, instanceID string) error {
	if err := requireInstanceID(instanceID); err != nil {
		c.notify.Error(err.Message)
		return err
	}
	if _, err := c.svc.StartMonitoring(ctx, instanceID); err != nil {
		return c.fail("Failed to start monitoring", err)
	}
	c.store.Invalidate(KeyInstances)
	c.notify.Success("Monitoring started")
	return nil
}

// StopMonitoring disables monitoring for an instance.
func (c *Coordinator) StopMonitoring(ctx context.Context, instanceID string) error {
	if err := requireInstanceID(instanceID); err != nil {
		c.notify.Error(err.Message)
		return err
	}
	if _, err := c.svc.StopMonitoring(ctx, instanceID); err != nil {
		return c.fail("Failed to stop monitoring", err)
	}
	c.store.Invalidate(KeyInstances)
	c.notify.Success("Monitoring stopped")
	return nil
}

// DeleteInstance deletes an instance. The server rejects the call for a
// monitoring instance; that late rejection is authoritative and leaves the
// cache untouched.
func (c *Coordinator) DeleteInstance(ctx context.Context, instanceID string) error {
	if err := requireInstanceID(instanceID); err != nil {
		c.notify.Error(err.Message)
		return err
	}
	if _, err := c.svc.DeleteInstance(ctx, instanceID); err != nil {
		return c.fail("Failed to delete instance", err)
	}
	c.store.Invalidate(KeyInstances)
	c.notify.Success("Instance deleted")
	return nil
}

// Simulate injects one simulated sample, or a batch when the request carries
// duration and interval. Every metrics and decisions page goes stale either
// way: a new sample can produce a new decision.
func (c *Coordinator) Simulate(ctx context.Context, req api.SimulateRequest) (*api.SimulateResponse, error) {
	if err := validateSimulate(req); err != nil {
		c.notify.Error(err.Message)
		return nil, err
	}

	resp, err := c.svc.Simulate(ctx, req)
	if err != nil {
		return nil, c.fail("Failed to simulate metrics", err)
	}

	c.store.Invalidate(PatternMetrics)
	c.store.Invalidate(PatternDecisions)

	if resp.MetricsCreated > 0 {
		c.notify.Success(fmt.Sprintf("Created %d metrics over %d minutes", resp.MetricsCreated, resp.DurationMinutes))
	} else {
		c.notify.Success("Metric simulated successfully")
	}
	return resp, nil
}

// fail surfaces a mutation failure without invalidating anything. The
// server's structured message wins when the transport produced one.
func (c *Coordinator) fail(fallback string, err error) error {
	msg := err.Error()
	var apiErr *api.Error
	if stderrors.As(err, &apiErr) {
		msg = apiErr.Message
	}
	if strings.TrimSpace(msg) == "" {
		msg = fallback
	}
	c.log.Debug("mutation failed: %v", err)
	c.notify.Error(msg)
	return err
}

// --- client-side validation: reject statically checkable bad input before
// the network call.

func requireInstanceID(instanceID string) *errors.Error {
	if strings.TrimSpace(instanceID) == "" {
		return errors.New(errors.ErrInput,
			"Instance ID is required", "")
	}
	return nil
}

func validateRegisterInstance(req api.RegisterInstanceRequest) *errors.Error {
	if strings.TrimSpace(req.InstanceID) == "" {
		return errors.New(errors.ErrInput, "Instance ID is required", "")
	}
	if strings.TrimSpace(req.InstanceType) == "" {
		return errors.New(errors.ErrInput, "Instance type is required", "")
	}
	if strings.TrimSpace(req.Region) == "" {
		return errors.New(errors.ErrInput, "Region is required", "")
	}
	return nil
}

func validateSimulate(req api.SimulateRequest) *errors.Error {
	if err := requireInstanceID(req.InstanceID); err != nil {
		return err
	}
	for name, v := range map[string]*float64{
		"CPU utilization": req.CPUUtilization,
		"Memory usage":    req.MemoryUsage,
	} {
		if v != nil && (*v < 0 || *v > 100) {
			return errors.New(errors.ErrInput,
				fmt.Sprintf("%s must be between 0 and 100", name), "")
		}
	}
	// Network channels are byte rates, not percentages; only negatives are
	// invalid.
	for name, v := range map[string]*float64{
		"Network in":  req.NetworkIn,
		"Network out": req.NetworkOut,
	} {
		if v != nil && *v < 0 {
			return errors.New(errors.ErrInput,
				fmt.Sprintf("%s must be non-negative", name), "")
		}
	}
	// Duration and interval travel together; either both or neither.
	if (req.DurationMinutes == nil) != (req.IntervalSeconds == nil) {
		return errors.New(errors.ErrInput,
			"Duration and interval must be provided together",
			"Pass both --duration and --interval for a batch, or neither for a single sample")
	}
	if req.DurationMinutes != nil && (*req.DurationMinutes < 1 || *req.DurationMinutes > 60) {
		return errors.New(errors.ErrInput,
			"Duration must be between 1 and 60 minutes", "")
	}
	if req.IntervalSeconds != nil && (*req.IntervalSeconds < 10 || *req.IntervalSeconds > 300) {
		return errors.New(errors.ErrInput,
			"Interval must be between 10 and 300 seconds", "")
	}
	return nil
}
