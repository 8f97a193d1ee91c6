package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/transcribe-mcp/component"
	"github.com/kbukum/transcribe-mcp/logger"
)

// Component runs a Hub under the component registry.
type Component struct {
	hub *Hub
	wg  sync.WaitGroup
}

var _ component.Component = (*Component)(nil)

// NewComponent creates a component with a fresh Hub.
func NewComponent(log *logger.Logger) *Component {
	return &Component{hub: NewHub(log)}
}

// Hub returns the underlying Hub.
func (c *Component) Hub() *Hub { return c.hub }

func (c *Component) Name() string { return "events" }

// Start launches the hub loop.
func (c *Component) Start(_ context.Context) error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.hub.Run()
	}()
	return nil
}

// Stop stops the hub and waits for its loop to exit.
func (c *Component) Stop(_ context.Context) error {
	c.hub.Stop()
	c.wg.Wait()
	return nil
}

func (c *Component) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d clients connected", c.hub.ClientCount()),
	}
}
