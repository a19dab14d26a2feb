package cache

import (
	"context"
	"time"

	"github.com/avirajkale50/cloud-guardian/internal/api"
	"github.com/avirajkale50/cloud-guardian/internal/config"
)

// Service is the slice of the API client the resource accessors read through.
type Service interface {
	ListInstances(ctx context.Context) ([]api.Instance, error)
	Metrics(ctx context.Context, instanceID string, page, pageSize int) (*api.MetricPage, error)
	Decisions(ctx context.Context, instanceID string, page, pageSize int) (*api.DecisionPage, error)
}

// Resources exposes typed, cache-backed accessors for the server's
// resources, each with its declared poll interval.
type Resources struct {
	store *Store
	svc   Service
	poll  config.PollConfig
}

// NewResources wires typed accessors over a cache store and API client.
func NewResources(store *Store, svc Service, poll config.PollConfig) *Resources {
	return &Resources{store: store, svc: svc, poll: poll}
}

// Store returns the underlying cache store.
func (r *Resources) Store() *Store {
	return r.store
}

// Instances returns the cached instance list, fetching when stale.
func (r *Resources) Instances(ctx context.Context) ([]api.Instance, error) {
	data, err := r.store.Get(ctx, KeyInstances, r.instanceFetcher())
	if err != nil {
		return nil, err
	}
	return data.([]api.Instance), nil
}

// Metrics returns one cached page of an instance's metrics.
func (r *Resources) Metrics(ctx context.Context, instanceID string, page, pageSize int) (*api.MetricPage, error) {
	key := MetricsKey(instanceID, page, pageSize)
	data, err := r.store.Get(ctx, key, r.metricsFetcher(instanceID, page, pageSize))
	if err != nil {
		return nil, err
	}
	return data.(*api.MetricPage), nil
}

// Decisions returns one cached page of an instance's decision history.
func (r *Resources) Decisions(ctx context.Context, instanceID string, page, pageSize int) (*api.DecisionPage, error) {
	key := DecisionsKey(instanceID, page, pageSize)
	data, err := r.store.Get(ctx, key, r.decisionsFetcher(instanceID, page, pageSize))
	if err != nil {
		return nil, err
	}
	return data.(*api.DecisionPage), nil
}

// SubscribeInstances polls the instance list at its declared interval.
func (r *Resources) SubscribeInstances() (<-chan Update, func()) {
	return r.store.Subscribe(KeyInstances, r.instanceFetcher(), r.pollInterval(r.poll.Instances, 30*time.Second))
}

// SubscribeMetrics polls one page of an instance's metrics. Callers guard
// the unselected-instance case themselves by simply not subscribing.
func (r *Resources) SubscribeMetrics(instanceID string, page, pageSize int) (<-chan Update, func()) {
	key := MetricsKey(instanceID, page, pageSize)
	return r.store.Subscribe(key, r.metricsFetcher(instanceID, page, pageSize), r.pollInterval(r.poll.Metrics, 30*time.Second))
}

// SubscribeDecisions polls one page of an instance's decisions. Decisions
// poll on the fastest cadence; they are the operator's primary signal.
func (r *Resources) SubscribeDecisions(instanceID string, page, pageSize int) (<-chan Update, func()) {
	key := DecisionsKey(instanceID, page, pageSize)
	return r.store.Subscribe(key, r.decisionsFetcher(instanceID, page, pageSize), r.pollInterval(r.poll.Decisions, 15*time.Second))
}

func (r *Resources) pollInterval(configured, fallback time.Duration) time.Duration {
	if configured > 0 {
		return configured
	}
	return fallback
}

func (r *Resources) instanceFetcher() Fetcher {
	return func(ctx context.Context) (interface{}, error) {
		return r.svc.ListInstances(ctx)
	}
}

func (r *Resources) metricsFetcher(instanceID string, page, pageSize int) Fetcher {
	return func(ctx context.Context) (interface{}, error) {
		return r.svc.Metrics(ctx, instanceID, page, pageSize)
	}
}

func (r *Resources) decisionsFetcher(instanceID string, page, pageSize int) Fetcher {
	return func(ctx context.Context) (interface{}, error) {
		return r.svc.Decisions(ctx, instanceID, page, pageSize)
	}
}
