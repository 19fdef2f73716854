// Package streaming accumulates Anthropic streaming events into complete
// messages and encodes the outgoing OpenAI-compatible chunk stream.
package streaming

import (
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// Accumulator folds streaming events into a complete assistant message. The
// chat loop feeds it every event while forwarding text deltas to the client,
// then reads the finished message to decide whether tools were requested.
type Accumulator struct {
	messageID    string
	model        string
	role         string
	content      []contentBlock
	stopReason   string
	stopSequence string
	usage        Usage

	// Blocks still being streamed, keyed by their index.
	open map[int]*contentBlock
}

type contentBlock struct {
	blockType string
	index     int

	text string

	toolID    string
	toolName  string
	toolInput strings.Builder
}

// Usage tracks token usage reported by the API.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		open: make(map[int]*contentBlock),
	}
}

// Process folds one streaming event into the accumulator state.
func (a *Accumulator) Process(event anthropic.MessageStreamEventUnion) {
	switch e := event.AsAny().(type) {
	case anthropic.MessageStartEvent:
		a.messageID = e.Message.ID
		a.model = string(e.Message.Model)
		a.role = string(e.Message.Role)
		a.usage.InputTokens = int(e.Message.Usage.InputTokens)

	case anthropic.ContentBlockStartEvent:
		block := &contentBlock{index: int(e.Index)}

		switch content := e.ContentBlock.AsAny().(type) {
		case anthropic.TextBlock:
			block.blockType = "text"
			block.text = content.Text

		case anthropic.ToolUseBlock:
			block.blockType = "tool_use"
			block.toolID = content.ID
			block.toolName = content.Name
		}

		a.open[int(e.Index)] = block

	case anthropic.ContentBlockDeltaEvent:
		block, exists := a.open[int(e.Index)]
		if !exists {
			return
		}

		switch delta := e.Delta.AsAny().(type) {
		case anthropic.TextDelta:
			block.text += delta.Text

		case anthropic.InputJSONDelta:
			block.toolInput.WriteString(delta.PartialJSON)
		}

	case anthropic.ContentBlockStopEvent:
		block, exists := a.open[int(e.Index)]
		if exists {
			a.content = append(a.content, *block)
			delete(a.open, int(e.Index))
		}

	case anthropic.MessageDeltaEvent:
		a.stopReason = string(e.Delta.StopReason)
		a.stopSequence = e.Delta.StopSequence
		a.usage.OutputTokens = int(e.Usage.OutputTokens)

	default:
		// Ignore unknown events.
	}
}

// TextDelta extracts the text delta carried by an event, if any. The chat
// loop uses it to forward text to the client while accumulating.
func TextDelta(event anthropic.MessageStreamEventUnion) (string, bool) {
	e, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
	if !ok {
		return "", false
	}
	delta, ok := e.Delta.AsAny().(anthropic.TextDelta)
	if !ok {
		return "", false
	}
	return delta.Text, true
}

// Message returns the message accumulated so far.
func (a *Accumulator) Message() *Message {
	blocks := make([]ContentBlock, 0, len(a.content))
	for _, block := range a.content {
		out := ContentBlock{Type: block.blockType}

		switch block.blockType {
		case "text":
			out.Text = block.text

		case "tool_use":
			out.ToolUseID = block.toolID
			out.ToolName = block.toolName

			raw := block.toolInput.String()
			if raw == "" {
				raw = "{}"
			}
			out.ToolInput = json.RawMessage(raw)
		}

		blocks = append(blocks, out)
	}

	return &Message{
		ID:           a.messageID,
		Model:        a.model,
		Role:         a.role,
		Content:      blocks,
		StopReason:   a.stopReason,
		StopSequence: a.stopSequence,
		Usage:        a.usage,
	}
}

// Message is a fully accumulated assistant message.
type Message struct {
	ID           string
	Model        string
	Role         string
	Content      []ContentBlock
	StopReason   string
	StopSequence string
	Usage        Usage
}

// ContentBlock is one block of an accumulated message.
type ContentBlock struct {
	Type string

	Text string

	ToolUseID string
	ToolName  string
	ToolInput json.RawMessage
}

// Text concatenates all text blocks of the message.
func (m *Message) Text() string {
	var b strings.Builder
	for _, block := range m.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}

// ToolUses returns the tool_use blocks of the message, in order.
func (m *Message) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, block := range m.Content {
		if block.Type == "tool_use" {
			uses = append(uses, block)
		}
	}
	return uses
}

// ToParam converts the message back to an assistant message parameter so the
// chat loop can replay it before sending tool results.
func (m *Message) ToParam() anthropic.MessageParam {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.Content))
	for _, block := range m.Content {
		switch block.Type {
		case "text":
			if block.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(block.Text))
			}
		case "tool_use":
			var input any
			if len(block.ToolInput) > 0 {
				json.Unmarshal(block.ToolInput, &input)
			}
			blocks = append(blocks, anthropic.NewToolUseBlock(block.ToolUseID, input, block.ToolName))
		}
	}
	return anthropic.NewAssistantMessage(blocks...)
}
