package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of a running service: the HTTP
// server, the event hub, the tool server.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component. It must not block.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Checker adapts a plain availability probe into a health-only Component.
type Checker struct {
	CheckName string
	Probe     func(ctx context.Context) bool
}

func (c *Checker) Name() string                  { return c.CheckName }
func (c *Checker) Start(_ context.Context) error { return nil }
func (c *Checker) Stop(_ context.Context) error  { return nil }

func (c *Checker) Health(ctx context.Context) Health {
	if c.Probe(ctx) {
		return Health{Name: c.CheckName, Status: StatusHealthy}
	}
	return Health{Name: c.CheckName, Status: StatusUnhealthy, Message: "not available"}
}
