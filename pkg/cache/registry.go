package cache

import (
	"fmt"
	"sort"
	"sync"
)

type runner interface {
	Start()
	Stop()
}

// Registry tracks named caches so writes and operators can clear them by name.
type Registry struct {
	mu     sync.RWMutex
	caches map[string]Clearer
}

func NewRegistry() *Registry {
	return &Registry{caches: map[string]Clearer{}}
}

// Register adds a cache under name. Names must be unique.
func (r *Registry) Register(name string, c Clearer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.caches[name]; exists {
		return fmt.Errorf("cache %q already registered", name)
	}
	r.caches[name] = c
	return nil
}

// Clear empties the named caches and returns the names that are not registered.
func (r *Registry) Clear(names ...string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var unknown []string
	for _, name := range names {
		c, ok := r.caches[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		c.Clear()
	}
	return unknown
}

func (r *Registry) ClearAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.caches {
		c.Clear()
	}
}

// Names returns the registered cache names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.caches))
	for name := range r.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start launches background expiry for every registered cache that supports it.
func (r *Registry) Start() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.caches {
		if rc, ok := c.(runner); ok {
			rc.Start()
		}
	}
}

func (r *Registry) Stop() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.caches {
		if rc, ok := c.(runner); ok {
			rc.Stop()
		}
	}
}
