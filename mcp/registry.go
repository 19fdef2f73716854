// Package mcp manages the tool servers exposed to the model. Each server
// groups related tools behind a name; the registry qualifies tool names as
// server__tool, validates inputs against their schemas, and converts enabled
// tools to Anthropic tool parameters for the chat request.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/renderloop/genui/catalog"
)

// Tool is one operation a server provides.
type Tool struct {
	// Name identifies the tool within its server.
	Name string `json:"name"`

	// Description explains the tool to the model.
	Description string `json:"description"`

	// Params is the schema for the tool's input.
	Params catalog.PropsSchema `json:"parameters"`
}

// Server groups related tools behind a name.
type Server interface {
	// Name returns the server identifier used in qualified tool names.
	Name() string

	// Description returns a human-readable summary of the server.
	Description() string

	// Tools returns the tools this server provides.
	Tools() []Tool

	// Execute runs one of the server's tools.
	Execute(ctx context.Context, toolName string, args json.RawMessage) (string, error)
}

// Descriptor is the serializable summary of one registered server.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
	Tools       []Tool `json:"tools"`
}

// QualifiedTool is a tool addressed by its server-qualified name.
type QualifiedTool struct {
	// Name is the qualified server__tool name sent to the model.
	Name string `json:"name"`

	// Description carries the server tag plus the tool description.
	Description string `json:"description"`

	// Params is the tool's input schema.
	Params catalog.PropsSchema `json:"parameters"`
}

// Registry manages servers and their enabled state. Enabled state lives here
// rather than on the servers, so implementations stay stateless.
type Registry struct {
	mu      sync.RWMutex
	servers map[string]Server
	enabled map[string]bool
	order   []string
}

// NewRegistry creates an empty server registry.
func NewRegistry() *Registry {
	return &Registry{
		servers: make(map[string]Server),
		enabled: make(map[string]bool),
	}
}

// Register adds a server. Servers start disabled; a request opts in to the
// servers it wants.
func (r *Registry) Register(s Server) error {
	if s == nil {
		return fmt.Errorf("server cannot be nil")
	}
	name := s.Name()
	if name == "" {
		return fmt.Errorf("server name cannot be empty")
	}
	if strings.Contains(name, "__") {
		return fmt.Errorf("server name %q must not contain the __ separator", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.servers[name]; !exists {
		r.order = append(r.order, name)
	}
	r.servers[name] = s
	return nil
}

// Unregister removes a server.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.servers[name]; !exists {
		return
	}
	delete(r.servers, name)
	delete(r.enabled, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get retrieves a server by name.
func (r *Registry) Get(name string) (Server, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.servers[name]
	return s, ok
}

// SetEnabled flips a server's enabled state.
func (r *Registry) SetEnabled(name string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.servers[name]; !ok {
		return fmt.Errorf("%w: %s", ErrServerNotFound, name)
	}
	r.enabled[name] = enabled
	return nil
}

// Enabled reports whether a server is enabled.
func (r *Registry) Enabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[name]
}

// Descriptors lists all registered servers in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		s := r.servers[name]
		out = append(out, Descriptor{
			Name:        s.Name(),
			Description: s.Description(),
			Enabled:     r.enabled[name],
			Tools:       s.Tools(),
		})
	}
	return out
}

// EnabledTools returns the qualified tools of every enabled server, sorted by
// qualified name.
func (r *Registry) EnabledTools() []QualifiedTool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []QualifiedTool
	for _, name := range r.order {
		if !r.enabled[name] {
			continue
		}
		s := r.servers[name]
		for _, tool := range s.Tools() {
			out = append(out, QualifiedTool{
				Name:        name + "__" + tool.Name,
				Description: fmt.Sprintf("[%s] %s", name, tool.Description),
				Params:      tool.Params,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Execute runs a tool by its qualified server__tool name, validating args
// against the tool's schema first.
func (r *Registry) Execute(ctx context.Context, qualifiedName string, args json.RawMessage) (string, error) {
	serverName, toolName, ok := strings.Cut(qualifiedName, "__")
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrBadToolName, qualifiedName)
	}

	r.mu.RLock()
	s, exists := r.servers[serverName]
	enabled := r.enabled[serverName]
	r.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("%w: %s", ErrServerNotFound, serverName)
	}
	if !enabled {
		return "", fmt.Errorf("%w: %s", ErrServerDisabled, serverName)
	}

	var schema *catalog.PropsSchema
	for _, tool := range s.Tools() {
		if tool.Name == toolName {
			schema = &tool.Params
			break
		}
	}
	if schema == nil {
		return "", fmt.Errorf("%w: %s on server %s", ErrToolNotFound, toolName, serverName)
	}

	argsMap := map[string]any{}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &argsMap); err != nil {
			return "", fmt.Errorf("tool %s: invalid JSON args: %w", qualifiedName, err)
		}
	}
	if err := catalog.ValidateValues(*schema, argsMap, false); err != nil {
		return "", fmt.Errorf("tool %s: %w", qualifiedName, err)
	}

	return s.Execute(ctx, toolName, args)
}

// ToAnthropicTools converts the enabled tools to Anthropic tool parameters.
func (r *Registry) ToAnthropicTools() []anthropic.ToolUnionParam {
	tools := r.EnabledTools()
	unions := make([]anthropic.ToolUnionParam, 0, len(tools))

	for _, tool := range tools {
		properties := make(map[string]any, len(tool.Params.Properties))
		for propName, propDef := range tool.Params.Properties {
			properties[propName] = convertPropertyDef(propDef)
		}

		inputSchema := anthropic.ToolInputSchemaParam{
			Type:       constant.Object("object"),
			Properties: properties,
		}
		if len(tool.Params.Required) > 0 {
			inputSchema.Required = tool.Params.Required
		}

		param := anthropic.ToolParam{
			Name:        tool.Name,
			Description: anthropic.String(tool.Description),
			InputSchema: inputSchema,
		}
		unions = append(unions, anthropic.ToolUnionParam{OfTool: &param})
	}

	return unions
}

// convertPropertyDef converts a property definition to the generic map form
// the Anthropic API expects.
func convertPropertyDef(def catalog.PropertyDef) map[string]any {
	prop := map[string]any{
		"type": def.Type,
	}

	if def.Description != "" {
		prop["description"] = def.Description
	}
	if len(def.Enum) > 0 {
		prop["enum"] = def.Enum
	}
	if def.Minimum != nil {
		prop["minimum"] = *def.Minimum
	}
	if def.Maximum != nil {
		prop["maximum"] = *def.Maximum
	}
	if def.MinLength != nil {
		prop["minLength"] = *def.MinLength
	}
	if def.MaxLength != nil {
		prop["maxLength"] = *def.MaxLength
	}
	if def.Items != nil {
		prop["items"] = convertPropertyDef(*def.Items)
	}
	if len(def.Properties) > 0 {
		nested := make(map[string]any, len(def.Properties))
		for key, nestedDef := range def.Properties {
			nested[key] = convertPropertyDef(nestedDef)
		}
		prop["properties"] = nested
	}

	return prop
}
