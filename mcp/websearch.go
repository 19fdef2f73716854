package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/renderloop/genui/catalog"
)

// WebSearchServer serves canned search results. There is no outbound network
// integration; the result set is derived from the query so conversations stay
// deterministic.
type WebSearchServer struct{}

// NewWebSearchServer creates the web search server.
func NewWebSearchServer() *WebSearchServer {
	return &WebSearchServer{}
}

// Name implements Server.
func (s *WebSearchServer) Name() string { return "websearch" }

// Description implements Server.
func (s *WebSearchServer) Description() string {
	return "Search the web for information"
}

// Tools implements Server.
func (s *WebSearchServer) Tools() []Tool {
	return []Tool{
		{
			Name:        "search",
			Description: "Search the web and return result snippets",
			Params: catalog.ObjectSchema(map[string]catalog.PropertyDef{
				"query": {Type: "string", Description: "The search query"},
				"limit": {Type: "integer", Description: "Maximum number of results",
					Minimum: catalog.Float(1), Maximum: catalog.Float(10)},
			}, "query"),
		},
	}
}

// Execute implements Server.
func (s *WebSearchServer) Execute(ctx context.Context, toolName string, args json.RawMessage) (string, error) {
	if toolName != "search" {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, toolName)
	}

	var input struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", fmt.Errorf("search: %w", err)
	}
	if input.Limit <= 0 || input.Limit > 10 {
		input.Limit = 3
	}

	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(input.Query)), " ", "-")
	results := make([]map[string]any, 0, input.Limit)
	for i := 0; i < input.Limit; i++ {
		results = append(results, map[string]any{
			"title":   fmt.Sprintf("Result %d for %q", i+1, input.Query),
			"url":     fmt.Sprintf("https://example.com/%s/%d", slug, i+1),
			"snippet": fmt.Sprintf("Summary of what source %d says about %s.", i+1, input.Query),
		})
	}

	out, _ := json.Marshal(map[string]any{
		"query":   input.Query,
		"results": results,
	})
	return string(out), nil
}
