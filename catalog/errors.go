package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// ErrEmptyName is returned when registering a component or action
	// without a name.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrInvalidSchema is returned when a registered schema is malformed.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrUnknownComponent is returned when a component type has no catalog entry.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrUnknownAction is returned when an action name has no descriptor.
	ErrUnknownAction = errors.New("unknown action")

	// ErrValidation is the sentinel matched by every ValidationError.
	ErrValidation = errors.New("validation failed")
)

// Violation codes reported by the validator.
const (
	CodeUnknownType        = "unknown_type"
	CodeMissingRequired    = "missing_required"
	CodeInvalidType        = "invalid_type"
	CodeInvalidEnum        = "invalid_enum"
	CodeOutOfRange         = "out_of_range"
	CodeInvalidLength      = "invalid_length"
	CodeUnknownProp        = "unknown_prop"
	CodeMissingRoot        = "missing_root"
	CodeDanglingChild      = "dangling_child"
	CodeUnexpectedChildren = "unexpected_children"
	CodeCycle              = "cycle"
	CodeKeyMismatch        = "key_mismatch"
)

// Violation is a single validation failure, addressed to the element and
// field that caused it.
type Violation struct {
	// Element is the key of the offending element. Empty for tree-level
	// violations such as a missing root.
	Element string `json:"element,omitempty"`

	// Field is the prop or param path that failed, when applicable.
	Field string `json:"field,omitempty"`

	// Code is one of the Code* constants.
	Code string `json:"code"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`
}

// String formats the violation for logs and error output.
func (v Violation) String() string {
	var b strings.Builder
	if v.Element != "" {
		fmt.Fprintf(&b, "element %q", v.Element)
	} else {
		b.WriteString("tree")
	}
	if v.Field != "" {
		fmt.Fprintf(&b, " field %q", v.Field)
	}
	fmt.Fprintf(&b, ": %s (%s)", v.Message, v.Code)
	return b.String()
}

// ValidationError carries every violation found in one pass. The tree is
// either entirely accepted or rejected with the full list; the validator
// never fails fast.
type ValidationError struct {
	Violations []Violation
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return "validation failed: " + e.Violations[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "validation failed with %d violations:", len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  - ")
		b.WriteString(v.String())
	}
	return b.String()
}

// Is reports whether the target matches this error type.
func (e *ValidationError) Is(target error) bool {
	if target == ErrValidation {
		return true
	}
	_, ok := target.(*ValidationError)
	return ok
}

// AsValidationError extracts a ValidationError from err, if present.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
