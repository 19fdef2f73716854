package streaming

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMessageEmptyToolInput(t *testing.T) {
	tests := []struct {
		name         string
		toolInputStr string
		wantRaw      string
	}{
		{
			name:         "empty tool input defaults to empty object",
			toolInputStr: "",
			wantRaw:      "{}",
		},
		{
			name:         "valid tool input preserved",
			toolInputStr: `{"key":"value"}`,
			wantRaw:      `{"key":"value"}`,
		},
		{
			name:         "empty object input preserved",
			toolInputStr: "{}",
			wantRaw:      "{}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccumulator()

			block := &contentBlock{
				blockType: "tool_use",
				index:     0,
				toolID:    "test-id",
				toolName:  "test_tool",
			}
			block.toolInput.WriteString(tt.toolInputStr)
			acc.content = append(acc.content, *block)

			msg := acc.Message()
			if len(msg.Content) != 1 {
				t.Fatalf("expected 1 block, got %d", len(msg.Content))
			}
			if got := string(msg.Content[0].ToolInput); got != tt.wantRaw {
				t.Errorf("ToolInput = %q, want %q", got, tt.wantRaw)
			}
		})
	}
}

func TestMessageTextAndToolUses(t *testing.T) {
	acc := NewAccumulator()
	acc.content = append(acc.content,
		contentBlock{blockType: "text", index: 0, text: "Here is your "},
		contentBlock{blockType: "tool_use", index: 1, toolID: "toolu_1", toolName: "dashboard__sales_dashboard"},
		contentBlock{blockType: "text", index: 2, text: "dashboard."},
	)

	msg := acc.Message()
	if got := msg.Text(); got != "Here is your dashboard." {
		t.Errorf("Text() = %q", got)
	}

	uses := msg.ToolUses()
	if len(uses) != 1 {
		t.Fatalf("ToolUses() = %d blocks, want 1", len(uses))
	}
	if uses[0].ToolName != "dashboard__sales_dashboard" {
		t.Errorf("ToolName = %q", uses[0].ToolName)
	}
	if uses[0].ToolUseID != "toolu_1" {
		t.Errorf("ToolUseID = %q", uses[0].ToolUseID)
	}
}

func TestWriterStream(t *testing.T) {
	var buf strings.Builder
	sw := NewWriter(&buf, "claude-sonnet-4-5")

	if err := sw.WriteRole("assistant"); err != nil {
		t.Fatalf("WriteRole() error = %v", err)
	}
	if err := sw.WriteContent("Hello"); err != nil {
		t.Fatalf("WriteContent() error = %v", err)
	}
	if err := sw.WriteToolCall(0, "toolu_1", "calculator__calculate", json.RawMessage(`{"expression":"1+1"}`)); err != nil {
		t.Fatalf("WriteToolCall() error = %v", err)
	}
	if err := sw.WriteFinish("stop"); err != nil {
		t.Fatalf("WriteFinish() error = %v", err)
	}
	if err := sw.WriteDone(); err != nil {
		t.Fatalf("WriteDone() error = %v", err)
	}

	out := buf.String()
	events := strings.Split(strings.TrimSuffix(out, "\n\n"), "\n\n")
	if len(events) != 5 {
		t.Fatalf("stream has %d events, want 5:\n%s", len(events), out)
	}
	if events[4] != "data: [DONE]" {
		t.Errorf("last event = %q, want data: [DONE]", events[4])
	}

	chunks := make([]Chunk, 4)
	for i, event := range events[:4] {
		payload, ok := strings.CutPrefix(event, "data: ")
		if !ok {
			t.Fatalf("event %d missing data prefix: %q", i, event)
		}
		if err := json.Unmarshal([]byte(payload), &chunks[i]); err != nil {
			t.Fatalf("event %d not valid JSON: %v", i, err)
		}
		if chunks[i].Object != ObjectChunk {
			t.Errorf("event %d object = %q", i, chunks[i].Object)
		}
		if chunks[i].ID != sw.ID() {
			t.Errorf("event %d id = %q, want %q", i, chunks[i].ID, sw.ID())
		}
		if len(chunks[i].Choices) != 1 {
			t.Fatalf("event %d has %d choices", i, len(chunks[i].Choices))
		}
	}

	if got := chunks[0].Choices[0].Delta.Role; got != "assistant" {
		t.Errorf("role delta = %q", got)
	}
	if got := chunks[1].Choices[0].Delta.Content; got != "Hello" {
		t.Errorf("content delta = %q", got)
	}
	calls := chunks[2].Choices[0].Delta.ToolCalls
	if len(calls) != 1 || calls[0].Function.Name != "calculator__calculate" {
		t.Errorf("tool call delta = %+v", calls)
	}
	if reason := chunks[3].Choices[0].FinishReason; reason == nil || *reason != "stop" {
		t.Errorf("finish reason = %v", reason)
	}
}
