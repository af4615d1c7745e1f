// Package transform maps literal attribute syntax (colors, edge insets, enum
// shorthands) to Dart expressions.
package transform

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Result is the outcome of a transformer. When Handled is false the caller keeps the
// original value.
type Result struct {
	Handled bool
	Value   string
}

// Transformer converts the value of one property for a given widget type.
type Transformer interface {
	Transform(value, widgetType string) Result
}

// Func adapts a function to the Transformer interface.
type Func func(value, widgetType string) Result

func (f Func) Transform(value, widgetType string) Result {
	return f(value, widgetType)
}

// Entry is a registered transformer with the property name it is keyed by.
type Entry struct {
	Name        string
	Transformer Transformer
}

// Registry maps property names to transformers in registration order. The last
// registration for a name wins.
type Registry struct {
	entries *linkedhashmap.Map
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: linkedhashmap.New()}
}

// Register binds t to every name.
func (r *Registry) Register(names []string, t Transformer) {
	for _, name := range names {
		r.entries.Put(name, t)
	}
}

// Get returns the transformer registered for name.
func (r *Registry) Get(name string) (Transformer, bool) {
	v, ok := r.entries.Get(name)
	if !ok {
		return nil, false
	}
	return v.(Transformer), true
}

// GetAll returns every registration in insertion order.
func (r *Registry) GetAll() []Entry {
	out := make([]Entry, 0, r.entries.Size())
	it := r.entries.Iterator()
	for it.Next() {
		out = append(out, Entry{Name: it.Key().(string), Transformer: it.Value().(Transformer)})
	}
	return out
}

// Remove unregisters names.
func (r *Registry) Remove(names ...string) {
	for _, name := range names {
		r.entries.Remove(name)
	}
}

// Transform runs the transformer registered for property. Unhandled values are
// returned unchanged.
func (r *Registry) Transform(property, value, widgetType string) Result {
	t, ok := r.Get(property)
	if !ok {
		return Result{Value: value}
	}
	res := t.Transform(value, widgetType)
	if !res.Handled {
		return Result{Value: value}
	}
	return res
}

// Clone copies the registry so it can be changed without affecting r.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	for _, e := range r.GetAll() {
		c.entries.Put(e.Name, e.Transformer)
	}
	return c
}
