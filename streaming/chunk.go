package streaming

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ObjectChunk is the object field of every streamed chunk.
const ObjectChunk = "chat.completion.chunk"

// Chunk is one OpenAI-compatible streaming chunk.
type Chunk struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Choice carries the delta of one completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Delta is the incremental payload of a chunk.
type Delta struct {
	Role      string          `json:"role,omitempty"`
	Content   string          `json:"content,omitempty"`
	ToolCalls []ToolCallDelta `json:"tool_calls,omitempty"`
}

// ToolCallDelta announces a tool invocation within the stream.
type ToolCallDelta struct {
	Index    int          `json:"index"`
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the invoked tool and its JSON arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Writer encodes chunks as server-sent events. All chunks of one response
// share the same completion ID, creation time and model.
type Writer struct {
	w       io.Writer
	flusher http.Flusher

	id      string
	model   string
	created int64
}

// NewWriter creates an SSE chunk writer for one completion. If w implements
// http.Flusher, every event is flushed as it is written.
func NewWriter(w io.Writer, model string) *Writer {
	sw := &Writer{
		w:       w,
		id:      "chatcmpl-" + uuid.NewString(),
		model:   model,
		created: time.Now().Unix(),
	}
	if f, ok := w.(http.Flusher); ok {
		sw.flusher = f
	}
	return sw
}

// ID returns the completion ID shared by all chunks of this writer.
func (sw *Writer) ID() string { return sw.id }

// WriteContent streams a text delta.
func (sw *Writer) WriteContent(text string) error {
	return sw.writeChunk(Delta{Content: text}, nil)
}

// WriteRole streams the role announcement that opens a response.
func (sw *Writer) WriteRole(role string) error {
	return sw.writeChunk(Delta{Role: role}, nil)
}

// WriteToolCall streams a tool invocation notice.
func (sw *Writer) WriteToolCall(index int, id, name string, arguments json.RawMessage) error {
	return sw.writeChunk(Delta{ToolCalls: []ToolCallDelta{{
		Index:    index,
		ID:       id,
		Type:     "function",
		Function: FunctionCall{Name: name, Arguments: string(arguments)},
	}}}, nil)
}

// WriteFinish streams the closing chunk carrying the finish reason.
func (sw *Writer) WriteFinish(reason string) error {
	return sw.writeChunk(Delta{}, &reason)
}

// WriteDone terminates the stream with the [DONE] sentinel.
func (sw *Writer) WriteDone() error {
	if _, err := io.WriteString(sw.w, "data: [DONE]\n\n"); err != nil {
		return err
	}
	sw.flush()
	return nil
}

func (sw *Writer) writeChunk(delta Delta, finishReason *string) error {
	chunk := Chunk{
		ID:      sw.id,
		Object:  ObjectChunk,
		Created: sw.created,
		Model:   sw.model,
		Choices: []Choice{{Index: 0, Delta: delta, FinishReason: finishReason}},
	}

	payload, err := json.Marshal(chunk)
	if err != nil {
		return fmt.Errorf("encode chunk: %w", err)
	}
	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	sw.flush()
	return nil
}

func (sw *Writer) flush() {
	if sw.flusher != nil {
		sw.flusher.Flush()
	}
}
