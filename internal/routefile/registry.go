package routefile

import (
	"sort"
	"sync"

	"github.com/vango-dev/flxrouter/pkg/route"
)

// Registry maps component names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]route.Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]route.Factory)}
}

// Register binds name to f, replacing any previous binding.
func (r *Registry) Register(name string, f route.Factory) {
	r.mu.Lock()
	r.factories[name] = f
	r.mu.Unlock()
}

// Lookup returns the factory bound to name.
func (r *Registry) Lookup(name string) (route.Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered names in order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
