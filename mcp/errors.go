package mcp

import (
	"errors"
)

// Common errors
var (
	// ErrServerNotFound is returned when a server name has no registration.
	ErrServerNotFound = errors.New("server not found")

	// ErrServerDisabled is returned when executing a tool on a disabled server.
	ErrServerDisabled = errors.New("server is not enabled")

	// ErrToolNotFound is returned when a server does not provide the named tool.
	ErrToolNotFound = errors.New("tool not found")

	// ErrBadToolName is returned when a qualified tool name is not of the
	// form server__tool.
	ErrBadToolName = errors.New("invalid tool name format")
)
