// Package action routes component-originated action invocations to
// registered application handlers, validating params against the catalog's
// action schemas first.
package action

import (
	"errors"
	"fmt"

	"github.com/renderloop/genui/catalog"
)

// Action error sentinel values for type checking
var (
	// ErrUnknownAction is returned when an invocation names an action with
	// no catalog descriptor.
	ErrUnknownAction = errors.New("unknown action")

	// ErrNoHandler is returned when an action is declared in the catalog
	// but no handler has been registered for it.
	ErrNoHandler = errors.New("no handler registered")

	// ErrInvalidParams is the sentinel matched by every InvalidParamsError.
	ErrInvalidParams = errors.New("invalid action params")

	// ErrHandlerFailed is the sentinel matched by every HandlerError.
	ErrHandlerFailed = errors.New("action handler failed")
)

// InvalidParamsError reports params that failed the action's declared schema.
// The handler is never invoked when this error is returned.
type InvalidParamsError struct {
	// Action is the invoked action name.
	Action string

	// Violations lists every schema failure found.
	Violations []catalog.Violation
}

// Error returns the error message.
func (e *InvalidParamsError) Error() string {
	return fmt.Sprintf("invalid params for action %q: %d violation(s)", e.Action, len(e.Violations))
}

// Is reports whether the target matches this error type.
func (e *InvalidParamsError) Is(target error) bool {
	if target == ErrInvalidParams {
		return true
	}
	_, ok := target.(*InvalidParamsError)
	return ok
}

// HandlerError wraps a failure from the handler body itself, so the caller
// can tell routing problems apart from application failures.
type HandlerError struct {
	// Action is the invoked action name.
	Action string

	err error
}

// Error returns the error message.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("action %q handler failed: %v", e.Action, e.err)
}

// Is reports whether the target matches this error type.
func (e *HandlerError) Is(target error) bool {
	if target == ErrHandlerFailed {
		return true
	}
	_, ok := target.(*HandlerError)
	return ok
}

// Unwrap returns the underlying handler error.
func (e *HandlerError) Unwrap() error {
	return e.err
}
