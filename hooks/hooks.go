// Package hooks lets callers observe the chat pipeline. Hooks run
// synchronously in registration order; a hook error aborts the operation
// that triggered it.
package hooks

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/renderloop/genui/streaming"
)

// BeforeMessageHook is called before each model turn is sent to the API.
type BeforeMessageHook func(ctx context.Context, turn, messageCount int) error

// AfterMessageHook is called after a complete assistant message has been
// accumulated from the stream.
type AfterMessageHook func(ctx context.Context, msg *streaming.Message) error

// ToolCallHook is called after a tool has been executed, whether it
// succeeded or not.
type ToolCallHook func(ctx context.Context, toolName string, input json.RawMessage, output string, err error) error

// Registry holds all registered hooks.
type Registry struct {
	mu            sync.RWMutex
	beforeMessage []BeforeMessageHook
	afterMessage  []AfterMessageHook
	toolCall      []ToolCallHook
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// OnBeforeMessage registers a hook run before each model turn.
func (r *Registry) OnBeforeMessage(hook BeforeMessageHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeMessage = append(r.beforeMessage, hook)
}

// OnAfterMessage registers a hook run after each accumulated message.
func (r *Registry) OnAfterMessage(hook AfterMessageHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterMessage = append(r.afterMessage, hook)
}

// OnToolCall registers a hook run after each tool execution.
func (r *Registry) OnToolCall(hook ToolCallHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toolCall = append(r.toolCall, hook)
}

// TriggerBeforeMessage calls all registered before-message hooks.
func (r *Registry) TriggerBeforeMessage(ctx context.Context, turn, messageCount int) error {
	r.mu.RLock()
	hooks := make([]BeforeMessageHook, len(r.beforeMessage))
	copy(hooks, r.beforeMessage)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, turn, messageCount); err != nil {
			return err
		}
	}
	return nil
}

// TriggerAfterMessage calls all registered after-message hooks.
func (r *Registry) TriggerAfterMessage(ctx context.Context, msg *streaming.Message) error {
	r.mu.RLock()
	hooks := make([]AfterMessageHook, len(r.afterMessage))
	copy(hooks, r.afterMessage)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// TriggerToolCall calls all registered tool-call hooks.
func (r *Registry) TriggerToolCall(ctx context.Context, toolName string, input json.RawMessage, output string, err error) error {
	r.mu.RLock()
	hooks := make([]ToolCallHook, len(r.toolCall))
	copy(hooks, r.toolCall)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if hookErr := hook(ctx, toolName, input, output, err); hookErr != nil {
			return hookErr
		}
	}
	return nil
}
