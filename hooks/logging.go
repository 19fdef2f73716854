package hooks

import (
	"context"
	"encoding/json"
	"log"

	"github.com/renderloop/genui/streaming"
)

// LoggingHooks provides built-in logging hooks for observability.
type LoggingHooks struct {
	logger *log.Logger
}

// NewLoggingHooks creates logging hooks with the provided logger.
func NewLoggingHooks(logger *log.Logger) *LoggingHooks {
	return &LoggingHooks{logger: logger}
}

// DefaultLoggingHooks creates logging hooks with the default logger.
func DefaultLoggingHooks() *LoggingHooks {
	return &LoggingHooks{logger: log.Default()}
}

// BeforeMessage logs each model turn before it is sent.
func (h *LoggingHooks) BeforeMessage(ctx context.Context, turn, messageCount int) error {
	h.logger.Printf("[genui] turn %d: sending %d messages", turn, messageCount)
	return nil
}

// AfterMessage logs the accumulated assistant message.
func (h *LoggingHooks) AfterMessage(ctx context.Context, msg *streaming.Message) error {
	h.logger.Printf("[genui] received response: stop_reason=%s tool_uses=%d tokens=%d/%d",
		msg.StopReason, len(msg.ToolUses()), msg.Usage.InputTokens, msg.Usage.OutputTokens)
	return nil
}

// ToolCall logs each tool execution.
func (h *LoggingHooks) ToolCall(ctx context.Context, toolName string, input json.RawMessage, output string, err error) error {
	if err != nil {
		h.logger.Printf("[genui] tool %q failed: %v", toolName, err)
		return nil
	}
	preview := output
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	h.logger.Printf("[genui] tool %q succeeded: %s", toolName, preview)
	return nil
}

// Register attaches all logging hooks to a registry.
func (h *LoggingHooks) Register(r *Registry) {
	r.OnBeforeMessage(h.BeforeMessage)
	r.OnAfterMessage(h.AfterMessage)
	r.OnToolCall(h.ToolCall)
}

// MetricsHooks forwards pipeline measurements to a metric sink.
type MetricsHooks struct {
	OnMetric func(name string, value float64, tags map[string]string)
}

// NewMetricsHooks creates metrics collection hooks.
func NewMetricsHooks(onMetric func(string, float64, map[string]string)) *MetricsHooks {
	return &MetricsHooks{OnMetric: onMetric}
}

// AfterMessage records token usage.
func (h *MetricsHooks) AfterMessage(ctx context.Context, msg *streaming.Message) error {
	h.OnMetric("chat.tokens.input", float64(msg.Usage.InputTokens), nil)
	h.OnMetric("chat.tokens.output", float64(msg.Usage.OutputTokens), nil)
	h.OnMetric("chat.tokens.total", float64(msg.Usage.InputTokens+msg.Usage.OutputTokens), nil)
	return nil
}

// ToolCall records tool execution outcomes.
func (h *MetricsHooks) ToolCall(ctx context.Context, toolName string, input json.RawMessage, output string, err error) error {
	tags := map[string]string{"tool": toolName}
	if err != nil {
		h.OnMetric("chat.tool.error", 1, tags)
	} else {
		h.OnMetric("chat.tool.success", 1, tags)
	}
	return nil
}

// Register attaches all metrics hooks to a registry.
func (h *MetricsHooks) Register(r *Registry) {
	r.OnAfterMessage(h.AfterMessage)
	r.OnToolCall(h.ToolCall)
}
