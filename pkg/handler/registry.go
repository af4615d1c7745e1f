package handler

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Registration binds a handler to one attribute or element name.
type Registration struct {
	Name    string
	Handler Handler
	// Value, when HasValue is set, replaces whatever the author wrote.
	Value    string
	HasValue bool
}

// Registry maps names to handlers in registration order. Registering a name again
// replaces the earlier handler. There is no conflict detection.
type Registry struct {
	entries *linkedhashmap.Map
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: linkedhashmap.New()}
}

// Register binds h to every name.
func (r *Registry) Register(names []string, h Handler) {
	for _, name := range names {
		r.entries.Put(name, Registration{Name: name, Handler: h})
	}
}

// RegisterValue binds h to every name with a fixed value.
func (r *Registry) RegisterValue(names []string, value string, h Handler) {
	for _, name := range names {
		r.entries.Put(name, Registration{Name: name, Handler: h, Value: value, HasValue: true})
	}
}

// Get returns the registration for name.
func (r *Registry) Get(name string) (Registration, bool) {
	v, ok := r.entries.Get(name)
	if !ok {
		return Registration{}, false
	}
	return v.(Registration), true
}

// GetAll returns every registration in insertion order.
func (r *Registry) GetAll() []Registration {
	out := make([]Registration, 0, r.entries.Size())
	it := r.entries.Iterator()
	for it.Next() {
		out = append(out, it.Value().(Registration))
	}
	return out
}

// Remove unregisters names.
func (r *Registry) Remove(names ...string) {
	for _, name := range names {
		r.entries.Remove(name)
	}
}

// Len is the number of registered names.
func (r *Registry) Len() int {
	return r.entries.Size()
}

// Clone copies the registry so it can be changed without affecting r.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for _, reg := range r.GetAll() {
		c.entries.Put(reg.Name, reg)
	}
	return c
}
