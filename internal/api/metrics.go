package api

import (
	"context"
	"fmt"
)

// Metrics returns one page of metric samples for an instance, newest first.
func (c *Client) Metrics(ctx context.Context, instanceID string, page, pageSize int) (*MetricPage, error) {
	var out MetricPage
	path := fmt.Sprintf("/metrics/%s?page=%d&page_size=%d", instanceID, page, pageSize)
	if err := c.do(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Decisions returns one page of scaling decision history for an instance.
func (c *Client) Decisions(ctx context.Context, instanceID string, page, pageSize int) (*DecisionPage, error) {
	var out DecisionPage
	path := fmt.Sprintf("/metrics/decisions/%s?page=%d&page_size=%d", instanceID, page, pageSize)
	if err := c.do(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Simulate injects one simulated metric sample, or a batch when the request
// carries duration and interval.
func (c *Client) Simulate(ctx context.Context, req SimulateRequest) (*SimulateResponse, error) {
	var out SimulateResponse
	if err := c.do(ctx, "POST", "/metrics/simulate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
