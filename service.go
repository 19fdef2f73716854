package genui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/renderloop/genui/catalog"
	"github.com/renderloop/genui/hooks"
	"github.com/renderloop/genui/mcp"
	"github.com/renderloop/genui/streaming"
	"github.com/renderloop/genui/uitree"
)

// ChatMessage is one turn of the conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is an OpenAI-compatible chat completion request.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Stream      bool          `json:"stream"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`

	// MCPServers names the tool servers enabled for this request.
	MCPServers []string `json:"mcp_servers,omitempty"`
}

// Completion is the result of a non-streaming chat request.
type Completion struct {
	ID           string          `json:"id"`
	Model        string          `json:"model"`
	Content      string          `json:"content"`
	FinishReason string          `json:"finish_reason"`
	Usage        streaming.Usage `json:"usage"`
}

const defaultSystemPrompt = `You are a helpful assistant that can present data as interactive UI components.
When a tool returns a ui-tree JSON payload, it is shown to the user automatically; summarize it briefly instead of repeating its contents.`

// Service drives chat completions against the Anthropic API, executing tool
// calls between model turns and emitting OpenAI-compatible chunks.
type Service struct {
	config  Config
	catalog *catalog.Catalog
	servers *mcp.Registry
	hooks   *hooks.Registry
	logger  Logger

	systemPrompt string
}

// NewService creates a chat service over the given catalog and tool servers.
func NewService(cfg Config, cat *catalog.Catalog, servers *mcp.Registry) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: catalog is required", ErrInvalidConfig)
	}
	if servers == nil {
		servers = mcp.NewRegistry()
	}
	if cfg.MaxToolTurns == 0 {
		cfg.MaxToolTurns = DefaultMaxToolTurns
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	prompt := cfg.SystemPrompt
	if prompt == "" {
		prompt = defaultSystemPrompt
	}

	return &Service{
		config:       cfg,
		catalog:      cat,
		servers:      servers,
		hooks:        hooks.NewRegistry(),
		logger:       logger,
		systemPrompt: prompt + "\n\n" + cat.PromptFragment(),
	}, nil
}

// Hooks returns the service's hook registry.
func (s *Service) Hooks() *hooks.Registry {
	return s.hooks
}

// Servers returns the tool server registry.
func (s *Service) Servers() *mcp.Registry {
	return s.servers
}

// Catalog returns the component catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// StreamMessage runs a chat completion and writes the response to w as
// OpenAI-compatible server-sent events, terminated by the [DONE] sentinel.
func (s *Service) StreamMessage(ctx context.Context, req *ChatRequest, w io.Writer) error {
	if len(req.Messages) == 0 {
		return ErrNoMessages
	}

	model := req.Model
	if model == "" {
		model = s.config.Model
	}

	sw := streaming.NewWriter(w, model)
	if err := sw.WriteRole("assistant"); err != nil {
		return err
	}

	finish, _, err := s.run(ctx, req, model, &streamEmitter{sw: sw})
	if err != nil {
		return &ChatError{Op: "chat.stream", RequestID: sw.ID(), Err: err}
	}

	if err := sw.WriteFinish(finish); err != nil {
		return err
	}
	return sw.WriteDone()
}

// Complete runs a chat completion without streaming and returns the full
// response text.
func (s *Service) Complete(ctx context.Context, req *ChatRequest) (*Completion, error) {
	if len(req.Messages) == 0 {
		return nil, ErrNoMessages
	}

	model := req.Model
	if model == "" {
		model = s.config.Model
	}

	em := &collectEmitter{}
	finish, usage, err := s.run(ctx, req, model, em)
	if err != nil {
		return nil, NewChatError("chat.complete", err)
	}

	return &Completion{
		Model:        model,
		Content:      em.buf.String(),
		FinishReason: finish,
		Usage:        usage,
	}, nil
}

// emitter receives the client-visible pieces of a completion as they happen.
type emitter interface {
	content(text string) error
	toolCall(index int, id, name string, args json.RawMessage) error
}

type streamEmitter struct {
	sw *streaming.Writer
}

func (e *streamEmitter) content(text string) error {
	return e.sw.WriteContent(text)
}

func (e *streamEmitter) toolCall(index int, id, name string, args json.RawMessage) error {
	return e.sw.WriteToolCall(index, id, name, args)
}

type collectEmitter struct {
	buf strings.Builder
}

func (e *collectEmitter) content(text string) error {
	e.buf.WriteString(text)
	return nil
}

func (e *collectEmitter) toolCall(index int, id, name string, args json.RawMessage) error {
	return nil
}

// run drives the agentic loop: stream a model turn, execute any requested
// tools, feed the results back, and repeat until the model stops.
func (s *Service) run(ctx context.Context, req *ChatRequest, model string, em emitter) (finish string, usage streaming.Usage, err error) {
	restore := s.enableServers(req.MCPServers)
	defer restore()

	messages := buildMessages(req.Messages)

	maxTokens := int64(GetModelInfo(model).DefaultMaxTokens)
	if req.MaxTokens != nil && *req.MaxTokens > 0 {
		maxTokens = int64(*req.MaxTokens)
	}

	var tools []anthropic.ToolUnionParam
	if len(req.MCPServers) > 0 {
		tools = s.servers.ToAnthropicTools()
	}

	for turn := 0; ; turn++ {
		if turn >= s.config.MaxToolTurns {
			s.logger.Warn("tool turn limit reached", "max_turns", s.config.MaxToolTurns)
			return "length", usage, nil
		}

		if err := s.hooks.TriggerBeforeMessage(ctx, turn, len(messages)); err != nil {
			return "", usage, err
		}

		params := anthropic.MessageNewParams{
			Model:     anthropic.Model(model),
			MaxTokens: maxTokens,
			Messages:  messages,
			System:    []anthropic.TextBlockParam{{Text: s.systemPrompt}},
		}
		if len(tools) > 0 {
			params.Tools = tools
		}
		if req.Temperature != nil {
			params.Temperature = anthropic.Float(*req.Temperature)
		}

		s.logger.Debug("starting model turn", "turn", turn, "messages", len(messages))

		msg, err := s.streamTurn(ctx, params, em)
		if err != nil {
			return "", usage, err
		}

		usage.InputTokens += msg.Usage.InputTokens
		usage.OutputTokens += msg.Usage.OutputTokens

		if err := s.hooks.TriggerAfterMessage(ctx, msg); err != nil {
			return "", usage, err
		}

		uses := msg.ToolUses()
		if len(uses) == 0 {
			return "stop", usage, nil
		}

		s.logger.Info("executing tool calls", "turn", turn, "count", len(uses))

		messages = append(messages, msg.ToParam())
		results, err := s.executeTools(ctx, uses, em)
		if err != nil {
			return "", usage, err
		}
		messages = append(messages, anthropic.NewUserMessage(results...))
	}
}

// streamTurn runs one model turn, forwarding text deltas to the emitter and
// returning the accumulated message.
func (s *Service) streamTurn(ctx context.Context, params anthropic.MessageNewParams, em emitter) (*streaming.Message, error) {
	stream := s.config.Client.Messages.NewStreaming(ctx, params)
	acc := streaming.NewAccumulator()

	for stream.Next() {
		event := stream.Current()
		acc.Process(event)

		if text, ok := streaming.TextDelta(event); ok {
			if err := em.content(text); err != nil {
				return nil, err
			}
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStreamFailed, err)
	}

	return acc.Message(), nil
}

// executeTools runs the model's tool calls and builds the tool result blocks
// for the next turn. Tool results that decode as UI trees are also forwarded
// to the client so it can render them.
func (s *Service) executeTools(ctx context.Context, uses []streaming.ContentBlock, em emitter) ([]anthropic.ContentBlockParamUnion, error) {
	results := make([]anthropic.ContentBlockParamUnion, 0, len(uses))

	for i, use := range uses {
		if err := em.toolCall(i, use.ToolUseID, use.ToolName, use.ToolInput); err != nil {
			return nil, err
		}

		output, execErr := s.servers.Execute(ctx, use.ToolName, use.ToolInput)
		if hookErr := s.hooks.TriggerToolCall(ctx, use.ToolName, use.ToolInput, output, execErr); hookErr != nil {
			return nil, hookErr
		}

		if execErr != nil {
			s.logger.Warn("tool call failed", "tool", use.ToolName, "error", execErr)
			results = append(results, anthropic.NewToolResultBlock(use.ToolUseID, execErr.Error(), true))
			continue
		}

		if _, ok := uitree.Decode(json.RawMessage(output)); ok {
			if err := em.content("\n" + output + "\n"); err != nil {
				return nil, err
			}
		}
		results = append(results, anthropic.NewToolResultBlock(use.ToolUseID, output, false))
	}

	return results, nil
}

// enableServers turns on the requested tool servers for the duration of one
// request and returns a function restoring their previous state.
func (s *Service) enableServers(names []string) func() {
	original := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := s.servers.Get(name); !ok {
			s.logger.Warn("unknown tool server requested", "server", name)
			continue
		}
		original[name] = s.servers.Enabled(name)
		s.servers.SetEnabled(name, true)
	}
	return func() {
		for name, was := range original {
			s.servers.SetEnabled(name, was)
		}
	}
}

// buildMessages converts the request history into API message parameters.
// The API requires alternating roles, so consecutive messages with the same
// role are merged.
func buildMessages(history []ChatMessage) []anthropic.MessageParam {
	messages := make([]anthropic.MessageParam, 0, len(history))

	for _, msg := range history {
		if msg.Content == "" {
			continue
		}

		role := anthropic.MessageParamRoleUser
		if msg.Role == "assistant" {
			role = anthropic.MessageParamRoleAssistant
		}

		block := anthropic.NewTextBlock(msg.Content)
		if len(messages) > 0 && messages[len(messages)-1].Role == role {
			last := &messages[len(messages)-1]
			last.Content = append(last.Content, block)
		} else {
			messages = append(messages, anthropic.MessageParam{
				Role:    role,
				Content: []anthropic.ContentBlockParamUnion{block},
			})
		}
	}

	return messages
}
