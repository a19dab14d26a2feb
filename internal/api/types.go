package api

// Wire types for the autoscaler service. Field names mirror the server's
// snake_case JSON. Everything here is a projection of server state; the
// client never treats a local copy as a write target.

// User is the session shape returned by the identity endpoint.
type User struct {
	UserID          string `json:"user_id"`
	Email           string `json:"email"`
	CreatedAt       string `json:"created_at"`
	InstanceCount   int    `json:"instance_count"`
	MonitoringCount int    `json:"monitoring_count"`
}

// MockRegion is the sentinel region carried by mock instances.
const MockRegion = "mock"

// Instance is a registered compute instance, real or mock.
type Instance struct {
	ID                string  `json:"id"`
	InstanceID        string  `json:"instance_id"`
	InstanceType      string  `json:"instance_type"`
	Region            string  `json:"region"`
	IsMonitoring      bool    `json:"is_monitoring"`
	IsMock            bool    `json:"is_mock"`
	CPUCapacity       float64 `json:"cpu_capacity"`
	MemoryCapacity    float64 `json:"memory_capacity"`
	NetworkCapacity   float64 `json:"network_capacity"`
	CurrentScaleLevel int     `json:"current_scale_level"`
	CreatedAt         string  `json:"created_at,omitempty"`
}

// Outlier types flagged by the server on metric samples.
const (
	OutlierScaleUp   = "scale_up"
	OutlierScaleDown = "scale_down"
)

// Metric is a single immutable metric sample. Utilization fields are
// pointers because the server reports null for channels that were not
// sampled.
type Metric struct {
	ID             string   `json:"id"`
	InstanceID     string   `json:"instance_id"`
	Timestamp      string   `json:"timestamp"`
	CPUUtilization *float64 `json:"cpu_utilization"`
	MemoryUsage    *float64 `json:"memory_usage"`
	NetworkIn      *float64 `json:"network_in"`
	NetworkOut     *float64 `json:"network_out"`
	IsOutlier      bool     `json:"is_outlier"`
	OutlierType    string   `json:"outlier_type"`
}

// Decisions the scaling engine can reach.
const (
	DecisionScaleUp   = "scale_up"
	DecisionScaleDown = "scale_down"
	DecisionNoAction  = "no_action"
)

// ScalingDecision is one entry in an instance's append-only decision history.
type ScalingDecision struct {
	ID             string   `json:"id"`
	InstanceID     string   `json:"instance_id"`
	Timestamp      string   `json:"timestamp"`
	CPUUtilization *float64 `json:"cpu_utilization"`
	MemoryUsage    *float64 `json:"memory_usage"`
	NetworkIn      *float64 `json:"network_in"`
	NetworkOut     *float64 `json:"network_out"`
	Decision       string   `json:"decision"`
	Reason         string   `json:"reason"`
}

// Page describes one page of a paged collection. Replaced wholesale on
// every fetch, never mutated locally.
type Page struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalCount int  `json:"total_count"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// RegisterUserResponse is returned by POST /auth/register.
type RegisterUserResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// LoginResponse is returned by POST /auth/login. Token is the opaque
// bearer credential; the client stores it without inspecting it.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// InstanceListResponse is returned by GET /instances/.
type InstanceListResponse struct {
	Instances []Instance `json:"instances"`
}

// RegisterInstanceRequest is the body for POST /instances/.
type RegisterInstanceRequest struct {
	InstanceID   string `json:"instance_id"`
	InstanceType string `json:"instance_type"`
	Region       string `json:"region"`
	IsMock       bool   `json:"is_mock,omitempty"`
}

// RegisterInstanceResponse is returned by POST /instances/.
type RegisterInstanceResponse struct {
	Message  string   `json:"message"`
	Instance Instance `json:"instance"`
}

// MessageResponse is the generic acknowledgement shape for monitor
// start/stop and delete.
type MessageResponse struct {
	Message string `json:"message"`
}

// MetricPage is returned by GET /metrics/{id}.
type MetricPage struct {
	InstanceID string   `json:"instance_id"`
	Metrics    []Metric `json:"metrics"`
	Pagination Page     `json:"pagination"`
}

// DecisionPage is returned by GET /metrics/decisions/{id}.
type DecisionPage struct {
	InstanceID string            `json:"instance_id"`
	Decisions  []ScalingDecision `json:"decisions"`
	Pagination Page              `json:"pagination"`
}

// SimulateRequest is the body for POST /metrics/simulate. Omitting
// DurationMinutes and IntervalSeconds injects a single sample; providing
// both generates a batch.
type SimulateRequest struct {
	InstanceID      string   `json:"instance_id"`
	CPUUtilization  *float64 `json:"cpu_utilization,omitempty"`
	MemoryUsage     *float64 `json:"memory_usage,omitempty"`
	NetworkIn       *float64 `json:"network_in,omitempty"`
	NetworkOut      *float64 `json:"network_out,omitempty"`
	DurationMinutes *int     `json:"duration_minutes,omitempty"`
	IntervalSeconds *int     `json:"interval_seconds,omitempty"`
}

// SimulateResponse is returned by POST /metrics/simulate. MetricsCreated
// is only set for batch simulations.
type SimulateResponse struct {
	Metric          *Metric `json:"metric,omitempty"`
	Message         string  `json:"message"`
	MetricsCreated  int     `json:"metrics_created,omitempty"`
	DurationMinutes int     `json:"duration_minutes,omitempty"`
	IntervalSeconds int     `json:"interval_seconds,omitempty"`
}

// HealthResponse is returned by GET / on the service root.
type HealthResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}
