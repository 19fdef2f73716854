package genui

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig is returned when the service configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoMessages is returned when a chat request carries no messages
	ErrNoMessages = errors.New("no messages in request")

	// ErrMaxTurnsExceeded is returned when the tool loop hits its turn bound
	ErrMaxTurnsExceeded = errors.New("maximum tool turns exceeded")

	// ErrStreamFailed is returned when the upstream API stream breaks
	ErrStreamFailed = errors.New("stream failed")
)

// ChatError carries the operation and request context of a chat failure
type ChatError struct {
	Op        string // Operation that failed
	RequestID string // Completion ID if one was assigned
	Err       error  // Underlying error
}

// Error implements the error interface
func (e *ChatError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s (request=%s): %v", e.Op, e.RequestID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *ChatError) Unwrap() error {
	return e.Err
}

// NewChatError creates a new ChatError
func NewChatError(op string, err error) *ChatError {
	return &ChatError{Op: op, Err: err}
}
