package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/renderloop/genui"
	"github.com/renderloop/genui/action"
	"github.com/renderloop/genui/auth"
	"github.com/renderloop/genui/catalog"
	"github.com/renderloop/genui/mcp"
	"github.com/renderloop/genui/render"
	"github.com/renderloop/genui/uitree"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	cat := catalog.Default()

	servers := mcp.NewRegistry()
	if err := servers.Register(mcp.NewCalculatorServer()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := servers.Register(mcp.NewDashboardServer(cat)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	client := anthropic.NewClient()
	svc, err := genui.NewService(genui.Config{
		Client: &client,
		Model:  genui.DefaultModel,
	}, cat, servers)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	dispatcher := action.NewDispatcher(cat)
	if err := dispatcher.Register("copy", func(ctx context.Context, params json.RawMessage) (any, error) {
		return map[string]any{"copied": true}, nil
	}); err != nil {
		t.Fatalf("Register(copy) error = %v", err)
	}

	store := auth.NewStore(filepath.Join(t.TempDir(), "credential.json"))
	renderer := render.New(render.DefaultRegistry())

	return NewRouter(svc, renderer, dispatcher, store, &Config{
		CORSOrigins: []string{"http://localhost:5173"},
	})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp Response
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s %s: response not valid JSON: %v\n%s", method, path, err, rec.Body.String())
		}
	}
	return rec, resp
}

func TestRootAndHealth(t *testing.T) {
	h := testRouter(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Errorf("GET / status = %d", rec.Code)
	}

	rec, resp := doJSON(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz status = %d", rec.Code)
	}
	data := resp.Data.(map[string]any)
	if data["status"] != "healthy" {
		t.Errorf("health status = %v", data["status"])
	}
}

func TestCatalogEndpoint(t *testing.T) {
	h := testRouter(t)

	rec, resp := doJSON(t, h, http.MethodGet, "/catalog", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /catalog status = %d", rec.Code)
	}

	data := resp.Data.(map[string]any)
	components := data["components"].([]any)
	if len(components) == 0 {
		t.Error("catalog has no components")
	}
	actions := data["actions"].([]any)
	if len(actions) == 0 {
		t.Error("catalog has no actions")
	}
}

func TestRenderEndpoint(t *testing.T) {
	tree, err := uitree.Build(catalog.Metric("m", "Revenue", 125000, catalog.P("format", "currency")))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	payload, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	h := testRouter(t)

	rec, resp := doJSON(t, h, http.MethodPost, "/render", string(payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /render status = %d: %s", rec.Code, rec.Body.String())
	}
	html := resp.Data.(map[string]any)["html"].(string)
	if !strings.Contains(html, "$125,000.00") {
		t.Errorf("rendered HTML missing formatted value: %s", html)
	}
}

func TestRenderEndpointRejectsInvalidInput(t *testing.T) {
	h := testRouter(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "not json", body: "{", wantStatus: http.StatusBadRequest, wantCode: "invalid_request"},
		{name: "not a tree", body: `{"hello":"world"}`, wantStatus: http.StatusBadRequest, wantCode: "not_a_tree"},
		{
			name:       "invalid tree",
			body:       `{"_type":"ui-tree","root":"a","elements":{"a":{"key":"a","type":"Metric","props":{"label":"x"}}}}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "invalid_tree",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doJSON(t, h, http.MethodPost, "/render", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestRenderEndpointReturnsViolations(t *testing.T) {
	h := testRouter(t)

	body := `{"_type":"ui-tree","root":"a","elements":{"a":{"key":"a","type":"Metric","props":{}}}}`
	rec, resp := doJSON(t, h, http.MethodPost, "/render", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	details := resp.Error.Details.([]any)
	if len(details) != 2 {
		t.Errorf("got %d violations, want 2 (label and value missing)", len(details))
	}
}

func TestDispatchAction(t *testing.T) {
	h := testRouter(t)

	rec, resp := doJSON(t, h, http.MethodPost, "/actions/dispatch", `{"name":"copy","params":{"text":"hi"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	result := resp.Data.(map[string]any)["result"].(map[string]any)
	if result["copied"] != true {
		t.Errorf("result = %v", result)
	}
}

func TestDispatchActionErrors(t *testing.T) {
	h := testRouter(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "unknown action", body: `{"name":"nope","params":{}}`, wantStatus: http.StatusNotFound, wantCode: "unknown_action"},
		{name: "invalid params", body: `{"name":"copy","params":{}}`, wantStatus: http.StatusUnprocessableEntity, wantCode: "invalid_params"},
		{name: "declared but unhandled", body: `{"name":"refresh","params":{}}`, wantStatus: http.StatusNotImplemented, wantCode: "no_handler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doJSON(t, h, http.MethodPost, "/actions/dispatch", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestMCPServerEndpoints(t *testing.T) {
	h := testRouter(t)

	rec, resp := doJSON(t, h, http.MethodGet, "/mcp/servers", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /mcp/servers status = %d", rec.Code)
	}
	servers := resp.Data.(map[string]any)["servers"].([]any)
	if len(servers) != 2 {
		t.Fatalf("got %d servers, want 2", len(servers))
	}

	// All servers start disabled, so no tools yet.
	_, resp = doJSON(t, h, http.MethodGet, "/mcp/tools", "")
	if tools := resp.Data.(map[string]any)["tools"].([]any); len(tools) != 0 {
		t.Errorf("got %d enabled tools before toggling, want 0", len(tools))
	}

	rec, resp = doJSON(t, h, http.MethodPost, "/mcp/servers/toggle", `{"name":"calculator","enabled":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	if ok := resp.Data.(map[string]any)["success"]; ok != true {
		t.Errorf("toggle success = %v", ok)
	}

	rec, resp = doJSON(t, h, http.MethodGet, "/mcp/servers/calculator", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /mcp/servers/calculator status = %d", rec.Code)
	}
	if enabled := resp.Data.(map[string]any)["enabled"]; enabled != true {
		t.Errorf("server enabled = %v, want true", enabled)
	}

	_, resp = doJSON(t, h, http.MethodGet, "/mcp/tools", "")
	tools := resp.Data.(map[string]any)["tools"].([]any)
	if len(tools) != 2 {
		t.Fatalf("got %d enabled tools, want 2", len(tools))
	}
	first := tools[0].(map[string]any)
	if name := first["name"].(string); !strings.HasPrefix(name, "calculator__") {
		t.Errorf("tool name = %q, want calculator__ prefix", name)
	}

	rec, _ = doJSON(t, h, http.MethodGet, "/mcp/servers/unknown", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET unknown server status = %d", rec.Code)
	}

	rec, _ = doJSON(t, h, http.MethodPost, "/mcp/servers/toggle", `{"name":"unknown","enabled":true}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("toggle unknown server status = %d", rec.Code)
	}
}

func TestAuthEndpoints(t *testing.T) {
	h := testRouter(t)
	token := "sk-ant-oat01-" + strings.Repeat("a", 40)

	_, resp := doJSON(t, h, http.MethodGet, "/auth/status", "")
	if got := resp.Data.(map[string]any)["authenticated"]; got != false {
		t.Fatalf("authenticated = %v before saving a token", got)
	}

	rec, resp := doJSON(t, h, http.MethodPost, "/auth/token", `{"token":"`+token+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /auth/token status = %d: %s", rec.Code, rec.Body.String())
	}
	preview := resp.Data.(map[string]any)["preview"].(string)
	if strings.Contains(preview, strings.Repeat("a", 20)) {
		t.Errorf("preview %q leaks the token", preview)
	}

	_, resp = doJSON(t, h, http.MethodGet, "/auth/status", "")
	if got := resp.Data.(map[string]any)["authenticated"]; got != true {
		t.Errorf("authenticated = %v after saving", got)
	}

	rec, _ = doJSON(t, h, http.MethodPost, "/auth/token", `{"token":"bogus"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid token status = %d", rec.Code)
	}

	_, resp = doJSON(t, h, http.MethodDelete, "/auth/token", "")
	if deleted := resp.Data.(map[string]any)["deleted"]; deleted != true {
		t.Errorf("deleted = %v, want true", deleted)
	}
}

func TestChatCompletionsRejectsEmptyMessages(t *testing.T) {
	h := testRouter(t)

	rec, resp := doJSON(t, h, http.MethodPost, "/v1/chat/completions", `{"stream":false,"messages":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if resp.Error == nil || resp.Error.Code != "invalid_request" {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := testRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/chat/completions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}

	// Unlisted origins get no CORS headers.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin for unlisted origin = %q", got)
	}
}

func TestRequestIDAssigned(t *testing.T) {
	h := testRouter(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/healthz", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if got := rec2.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID = %q, want req-123", got)
	}
}
