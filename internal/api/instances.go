package api

import "context"

// ListInstances returns all instances registered by the current user.
func (c *Client) ListInstances(ctx context.Context) ([]Instance, error) {
	var out InstanceListResponse
	if err := c.do(ctx, "GET", "/instances/", nil, &out); err != nil {
		return nil, err
	}
	return out.Instances, nil
}

// RegisterInstance registers a new instance (real or mock).
func (c *Client) RegisterInstance(ctx context.Context, req RegisterInstanceRequest) (*RegisterInstanceResponse, error) {
	var out RegisterInstanceResponse
	if err := c.do(ctx, "POST", "/instances/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartMonitoring enables metric collection and scaling decisions for an instance.
func (c *Client) StartMonitoring(ctx context.Context, instanceID string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, "PATCH", "/instances/"+instanceID+"/monitor/start", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StopMonitoring disables monitoring for an instance.
func (c *Client) StopMonitoring(ctx context.Context, instanceID string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, "PATCH", "/instances/"+instanceID+"/monitor/stop", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteInstance removes an instance. The server rejects the call while the
// instance is monitoring; that rejection is authoritative and surfaces as an
// *Error.
func (c *Client) DeleteInstance(ctx context.Context, instanceID string) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.do(ctx, "DELETE", "/instances/"+instanceID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
