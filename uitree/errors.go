package uitree

import (
	"errors"
	"fmt"
)

// Builder error sentinel values for type checking
var (
	// ErrMissingElement is returned when a children reference has no
	// corresponding element.
	ErrMissingElement = errors.New("missing element")

	// ErrCycleDetected is returned when a child key points back to an
	// element already on the active descent path.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrNoRoot is returned when building a tree without a root element.
	ErrNoRoot = errors.New("no root element")

	// ErrDuplicateKey is returned when two supplied elements share a key.
	ErrDuplicateKey = errors.New("duplicate element key")

	// ErrEmptyKey is returned when an element has an empty key.
	ErrEmptyKey = errors.New("empty element key")
)

// MissingElementError reports a children reference that could not be resolved
// against the supplied elements.
type MissingElementError struct {
	// Parent is the key of the element that declared the reference.
	Parent string

	// Key is the unresolved child key.
	Key string
}

// Error returns the error message.
func (e *MissingElementError) Error() string {
	return fmt.Sprintf("element %q references missing child %q", e.Parent, e.Key)
}

// Is reports whether the target matches this error type.
func (e *MissingElementError) Is(target error) bool {
	if target == ErrMissingElement {
		return true
	}
	_, ok := target.(*MissingElementError)
	return ok
}

// CycleError reports a child reference back into the active descent path.
type CycleError struct {
	// Path holds the keys on the descent path, ending with the repeated key.
	Path []string
}

// Error returns the error message.
func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected through %v", e.Path)
}

// Is reports whether the target matches this error type.
func (e *CycleError) Is(target error) bool {
	if target == ErrCycleDetected {
		return true
	}
	_, ok := target.(*CycleError)
	return ok
}
