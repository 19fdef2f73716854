package genui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/renderloop/genui/catalog"
	"github.com/renderloop/genui/mcp"
	"github.com/renderloop/genui/streaming"
	"github.com/renderloop/genui/uitree"
)

func testService(t *testing.T, servers *mcp.Registry) *Service {
	t.Helper()
	client := anthropic.NewClient()
	svc, err := NewService(Config{
		Client: &client,
		Model:  DefaultModel,
	}, catalog.Default(), servers)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestConfigValidate(t *testing.T) {
	client := anthropic.NewClient()

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "valid", config: Config{Client: &client, Model: DefaultModel}},
		{name: "missing client", config: Config{Model: DefaultModel}, wantErr: true},
		{name: "missing model", config: Config{Client: &client}, wantErr: true},
		{name: "negative turns", config: Config{Client: &client, Model: DefaultModel, MaxToolTurns: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestNewServiceRequiresCatalog(t *testing.T) {
	client := anthropic.NewClient()
	_, err := NewService(Config{Client: &client, Model: DefaultModel}, nil, nil)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewService(nil catalog) error = %v, want ErrInvalidConfig", err)
	}
}

func TestNewServiceSystemPromptIncludesCatalog(t *testing.T) {
	svc := testService(t, nil)

	if !strings.Contains(svc.systemPrompt, "Metric") {
		t.Error("system prompt missing component catalog")
	}
	if !strings.Contains(svc.systemPrompt, "export") {
		t.Error("system prompt missing action catalog")
	}
}

func TestBuildMessages(t *testing.T) {
	history := []ChatMessage{
		{Role: "user", Content: "hello"},
		{Role: "user", Content: "are you there?"},
		{Role: "assistant", Content: "yes"},
		{Role: "user", Content: ""},
		{Role: "user", Content: "good"},
	}

	messages := buildMessages(history)
	if len(messages) != 3 {
		t.Fatalf("buildMessages() = %d messages, want 3", len(messages))
	}

	// Consecutive user messages merge into one.
	if len(messages[0].Content) != 2 {
		t.Errorf("first message has %d blocks, want 2", len(messages[0].Content))
	}
	if messages[0].Role != anthropic.MessageParamRoleUser {
		t.Errorf("first message role = %v", messages[0].Role)
	}
	if messages[1].Role != anthropic.MessageParamRoleAssistant {
		t.Errorf("second message role = %v", messages[1].Role)
	}
	if messages[2].Role != anthropic.MessageParamRoleUser {
		t.Errorf("third message role = %v", messages[2].Role)
	}
}

func TestStreamMessageRejectsEmptyRequest(t *testing.T) {
	svc := testService(t, nil)

	var buf strings.Builder
	err := svc.StreamMessage(context.Background(), &ChatRequest{}, &buf)
	if !errors.Is(err, ErrNoMessages) {
		t.Errorf("StreamMessage() error = %v, want ErrNoMessages", err)
	}

	if _, err := svc.Complete(context.Background(), &ChatRequest{}); !errors.Is(err, ErrNoMessages) {
		t.Errorf("Complete() error = %v, want ErrNoMessages", err)
	}
}

func TestEnableServersRestoresState(t *testing.T) {
	servers := mcp.NewRegistry()
	if err := servers.Register(mcp.NewCalculatorServer()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := servers.Register(mcp.NewWebSearchServer()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := servers.SetEnabled("websearch", true); err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}

	svc := testService(t, servers)

	restore := svc.enableServers([]string{"calculator", "websearch", "missing"})
	if !servers.Enabled("calculator") {
		t.Error("calculator should be enabled during the request")
	}
	if !servers.Enabled("websearch") {
		t.Error("websearch should stay enabled during the request")
	}

	restore()
	if servers.Enabled("calculator") {
		t.Error("calculator should be disabled after restore")
	}
	if !servers.Enabled("websearch") {
		t.Error("websearch should keep its prior enabled state after restore")
	}
}

type fixedServer struct {
	output string
	err    error
}

func (s *fixedServer) Name() string        { return "fixed" }
func (s *fixedServer) Description() string { return "returns a fixed payload" }

func (s *fixedServer) Tools() []mcp.Tool {
	return []mcp.Tool{{Name: "emit", Description: "emit the payload", Params: catalog.ObjectSchema(nil)}}
}

func (s *fixedServer) Execute(ctx context.Context, toolName string, args json.RawMessage) (string, error) {
	return s.output, s.err
}

func TestExecuteToolsForwardsTreesToClient(t *testing.T) {
	cat := catalog.Default()
	treeJSON, err := json.Marshal(mustTree(t))
	if err != nil {
		t.Fatalf("marshal tree: %v", err)
	}

	servers := mcp.NewRegistry()
	if err := servers.Register(&fixedServer{output: string(treeJSON)}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := servers.SetEnabled("fixed", true); err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}

	client := anthropic.NewClient()
	svc, err := NewService(Config{Client: &client, Model: DefaultModel}, cat, servers)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	em := &collectEmitter{}
	uses := []streaming.ContentBlock{{
		Type:      "tool_use",
		ToolUseID: "toolu_1",
		ToolName:  "fixed__emit",
		ToolInput: json.RawMessage(`{}`),
	}}

	results, err := svc.executeTools(context.Background(), uses, em)
	if err != nil {
		t.Fatalf("executeTools() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("executeTools() = %d results, want 1", len(results))
	}
	if !strings.Contains(em.buf.String(), `"_type":"ui-tree"`) {
		t.Errorf("tree payload not forwarded to client: %q", em.buf.String())
	}
}

func TestExecuteToolsReportsFailures(t *testing.T) {
	servers := mcp.NewRegistry()
	if err := servers.Register(&fixedServer{err: errors.New("backend down")}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := servers.SetEnabled("fixed", true); err != nil {
		t.Fatalf("SetEnabled() error = %v", err)
	}

	svc := testService(t, servers)

	em := &collectEmitter{}
	uses := []streaming.ContentBlock{{
		Type:      "tool_use",
		ToolUseID: "toolu_1",
		ToolName:  "fixed__emit",
		ToolInput: json.RawMessage(`{}`),
	}}

	results, err := svc.executeTools(context.Background(), uses, em)
	if err != nil {
		t.Fatalf("executeTools() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("executeTools() = %d results, want 1", len(results))
	}
	if block := results[0].OfToolResult; block == nil || !block.IsError.Value {
		t.Errorf("tool result should carry is_error, got %+v", results[0])
	}
}

func mustTree(t *testing.T) *uitree.Tree {
	t.Helper()
	tree, err := uitree.Build(catalog.Badge("status", "Live"))
	if err != nil {
		t.Fatalf("build tree: %v", err)
	}
	return tree
}
