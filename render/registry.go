// Package render turns a validated tree into nested HTML by dispatching each
// element to a registered rendering function. Lookup misses degrade to a
// fallback placeholder local to the offending node; they never abort the
// surrounding tree.
package render

import (
	"fmt"
	"html/template"
	"sync"

	"github.com/renderloop/genui/uitree"
)

// Context carries everything a rendering function needs for one element.
type Context struct {
	// Element is the node being rendered.
	Element uitree.Element

	// Children holds the already-rendered child fragments in declaration
	// order. Empty for leaf elements.
	Children []template.HTML

	// OnAction encodes an action invocation for the element's markup. The
	// default encoder emits a data-action attribute the host page wires to
	// the action dispatcher.
	OnAction ActionEncoder
}

// Prop returns a prop value by name, or nil when absent.
func (c Context) Prop(name string) any {
	return c.Element.Props[name]
}

// StringProp returns a string prop, or fallback when absent or mistyped.
func (c Context) StringProp(name, fallback string) string {
	if v, ok := c.Element.Props[name].(string); ok {
		return v
	}
	return fallback
}

// BoolProp returns a boolean prop, or false when absent or mistyped.
func (c Context) BoolProp(name string) bool {
	v, _ := c.Element.Props[name].(bool)
	return v
}

// Func renders one element into an HTML fragment.
type Func func(Context) (template.HTML, error)

// ActionEncoder turns an action payload into a markup attribute.
type ActionEncoder func(name string, params map[string]any) template.HTMLAttr

// Registry maps component type names to rendering functions.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry creates an empty rendering registry.
func NewRegistry() *Registry {
	return &Registry{
		funcs: make(map[string]Func),
	}
}

// Register adds or overwrites the rendering function for a type name.
func (r *Registry) Register(typeName string, fn Func) error {
	if typeName == "" {
		return fmt.Errorf("register renderer: type name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("register renderer %s: function cannot be nil", typeName)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[typeName] = fn
	return nil
}

// Deregister removes the rendering function for a type name.
func (r *Registry) Deregister(typeName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.funcs, typeName)
}

// Get retrieves the rendering function for a type name.
func (r *Registry) Get(typeName string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[typeName]
	return fn, ok
}

// Types returns the registered type names.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	return names
}
