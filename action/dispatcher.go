package action

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/renderloop/genui/catalog"
)

// Invocation is the logical payload emitted by an interactive element.
type Invocation struct {
	Name   string          `json:"name"`
	Params json.RawMessage `json:"params,omitempty"`
}

// HandlerFunc executes one action. Params have already passed schema
// validation when the handler runs. Handlers may have arbitrary external
// side effects; the dispatcher only routes and validates.
type HandlerFunc func(ctx context.Context, params json.RawMessage) (any, error)

// Dispatcher validates and routes invocations against a catalog's action
// descriptors.
type Dispatcher struct {
	catalog *catalog.Catalog

	mu       sync.RWMutex
	handlers map[string]HandlerFunc
}

// NewDispatcher creates a dispatcher bound to the given catalog.
func NewDispatcher(cat *catalog.Catalog) *Dispatcher {
	return &Dispatcher{
		catalog:  cat,
		handlers: make(map[string]HandlerFunc),
	}
}

// Register binds a handler to an action name. The name must have a catalog
// descriptor; binding a handler for an undeclared action is a configuration
// error surfaced at startup.
func (d *Dispatcher) Register(name string, fn HandlerFunc) error {
	if name == "" {
		return fmt.Errorf("register handler: name cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("register handler %s: function cannot be nil", name)
	}
	if _, ok := d.catalog.Action(name); !ok {
		return fmt.Errorf("register handler: %w: %s", ErrUnknownAction, name)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = fn
	return nil
}

// Has reports whether a handler is registered for name.
func (d *Dispatcher) Has(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.handlers[name]
	return ok
}

// Dispatch validates inv and invokes its handler. An unknown action name or
// a params schema failure rejects the invocation without running any handler.
// Handler errors propagate wrapped in a HandlerError; they are never
// swallowed, so the host can surface them.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) (any, error) {
	if _, ok := d.catalog.Action(inv.Name); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, inv.Name)
	}

	if err := d.catalog.ValidateParams(inv.Name, inv.Params); err != nil {
		if ve, ok := catalog.AsValidationError(err); ok {
			return nil, &InvalidParamsError{Action: inv.Name, Violations: ve.Violations}
		}
		return nil, err
	}

	d.mu.RLock()
	fn, ok := d.handlers[inv.Name]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoHandler, inv.Name)
	}

	result, err := fn(ctx, inv.Params)
	if err != nil {
		return nil, &HandlerError{Action: inv.Name, err: err}
	}
	return result, nil
}
