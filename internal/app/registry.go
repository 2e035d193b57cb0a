package app

import (
	"sync"

	"github.com/bft-labs/autoorganize/internal/domain"
	"github.com/bft-labs/autoorganize/internal/organize"
)

// Registry is the published reference through which host components reach
// the running coordinator and its service. A host creates one and shares it.
type Registry struct {
	mu      sync.RWMutex
	current *Coordinator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Publish makes c the current coordinator. Published references are never
// cleared.
func (r *Registry) Publish(c *Coordinator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = c
}

// Current returns the published coordinator, or nil.
func (r *Registry) Current() *Coordinator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Service returns the published coordinator's organization service.
func (r *Registry) Service() (*organize.Service, error) {
	c := r.Current()
	if c == nil {
		return nil, domain.ErrNotPublished
	}
	svc := c.Service()
	if svc == nil {
		return nil, domain.ErrNotPublished
	}
	return svc, nil
}
