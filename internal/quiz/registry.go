package quiz

import (
	"sync"
	"time"

	"codeforge/internal/metrics"
)

// Factory builds a controller for a newly seen client
type Factory func(userID string) *Controller

// Registry holds one controller per client key. Authenticated and anonymous
// clients get different keys, so a session never leaks between them.
type Registry struct {
	mu          sync.Mutex
	controllers map[string]*Controller
	factory     Factory
}

// NewRegistry creates an empty registry
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		controllers: make(map[string]*Controller),
		factory:     factory,
	}
}

// Get returns the controller for key, creating it for userID if needed
func (r *Registry) Get(key, userID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.controllers[key]; ok {
		return c
	}
	c := r.factory(userID)
	r.controllers[key] = c
	metrics.ActiveControllers.Set(float64(len(r.controllers)))
	return c
}

// Lookup returns the controller for key without creating one
func (r *Registry) Lookup(key string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.controllers[key]
	return c, ok
}

// Prune drops controllers unused for longer than maxIdle and returns how
// many were removed. Controllers with a generation in flight or writes still
// pending are kept, so Wait still covers those writes.
func (r *Registry) Prune(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	for key, c := range r.controllers {
		lastUsed, idle := c.IdleSince()
		if idle && lastUsed.Before(cutoff) {
			delete(r.controllers, key)
			removed++
		}
	}
	metrics.ActiveControllers.Set(float64(len(r.controllers)))
	return removed
}

// Len reports the number of live controllers
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// Wait blocks until every controller's pending writes have finished
func (r *Registry) Wait() {
	r.mu.Lock()
	controllers := make([]*Controller, 0, len(r.controllers))
	for _, c := range r.controllers {
		controllers = append(controllers, c)
	}
	r.mu.Unlock()

	for _, c := range controllers {
		c.Wait()
	}
}
