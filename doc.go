// Package genui provides a generative UI chat service for Go.
//
// It bridges the Anthropic streaming API to an OpenAI-compatible SSE surface
// while letting tool servers return declarative UI trees instead of plain
// text. A UI tree is a flat keyed map of typed elements plus a root pointer;
// the catalog package declares the component vocabulary and validates trees
// against it, and the render package turns validated trees into HTML.
//
// # Quick Start
//
// Create the service with an Anthropic client, a component catalog, and a
// tool server registry:
//
//	client := anthropic.NewClient(option.WithAPIKey(key))
//	servers := mcp.NewRegistry()
//	servers.Register(mcp.NewDashboardServer(catalog.Default()))
//
//	svc, err := genui.NewService(genui.Config{
//	    Client: &client,
//	    Model:  "claude-sonnet-4-5-20250929",
//	}, catalog.Default(), servers)
//
// Stream a completion as server-sent events:
//
//	err = svc.StreamMessage(ctx, &genui.ChatRequest{
//	    Messages:   []genui.ChatMessage{{Role: "user", Content: "Show me a sales dashboard"}},
//	    MCPServers: []string{"dashboard"},
//	}, w)
//
// Tool calls requested by the model run between turns; results that decode as
// UI trees are forwarded to the client inline so it can render them.
//
// # HTTP Surface
//
// The httpapi package exposes the service plus the catalog, renderer, action
// dispatcher, and tool server management over net/http. See cmd/genui-server
// for a complete wiring.
package genui
