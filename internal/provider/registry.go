package provider

import "sync"

// Registry holds all registered source adapters keyed by name. Adapters are
// registered once at startup; per-source dispatch is a map lookup, never
// runtime reflection.
type Registry struct {
	mu        sync.RWMutex
	providers map[Name]Provider
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[Name]Provider),
	}
}

// Register adds a source adapter to the registry.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns a source adapter by name, or nil if not registered.
func (r *Registry) Get(name Name) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// All returns all registered adapters in default priority order.
func (r *Registry) All() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []Provider
	for _, name := range AllNames() {
		if p, ok := r.providers[name]; ok {
			result = append(result, p)
		}
	}
	return result
}
