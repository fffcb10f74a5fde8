// Package jobctx holds the job context that steps read after the job
// containers are prepared: the job container's id and network, and one
// entry per service keyed by its network alias.
package jobctx

import (
	"encoding/json"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Well-known keys in the job container context.
const (
	KeyID      = "id"
	KeyNetwork = "network"
)

// Service is the context entry published for one service container.
type Service struct {
	ID      string            `json:"id"`
	Network string            `json:"network"`
	Ports   map[string]string `json:"ports"`
}

// Context is a job context safe for concurrent readers. Individual writes
// are atomic; callers writing several keys get no cross-key atomicity.
type Context struct {
	container cmap.ConcurrentMap[string, string]
	services  cmap.ConcurrentMap[string, Service]
}

// New creates an empty job context.
func New() *Context {
	return &Context{
		container: cmap.New[string](),
		services:  cmap.New[Service](),
	}
}

// SetContainerValue sets one key of the job container context.
func (c *Context) SetContainerValue(key, value string) {
	c.container.Set(key, value)
}

// ContainerValue reads one key of the job container context.
func (c *Context) ContainerValue(key string) (string, bool) {
	return c.container.Get(key)
}

// Container returns a snapshot of the job container context.
func (c *Context) Container() map[string]string {
	return c.container.Items()
}

// SetService publishes the entry for the service with the given alias.
func (c *Context) SetService(alias string, svc Service) {
	if svc.Ports == nil {
		svc.Ports = map[string]string{}
	}
	c.services.Set(alias, svc)
}

// Service reads the entry for one service alias.
func (c *Context) Service(alias string) (Service, bool) {
	return c.services.Get(alias)
}

// Services returns a snapshot of every service entry.
func (c *Context) Services() map[string]Service {
	return c.services.Items()
}

// Len returns the number of published entries: the job container (when
// it has any keys) plus one per service.
func (c *Context) Len() int {
	n := c.services.Count()
	if c.container.Count() > 0 {
		n++
	}
	return n
}

// MarshalJSON renders {"container": {...}, "services": {...}}.
func (c *Context) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Container map[string]string  `json:"container"`
		Services  map[string]Service `json:"services"`
	}{
		Container: c.Container(),
		Services:  c.Services(),
	})
}
