// Package catalog is the single source of truth for which element types and
// actions a generative UI tree may contain, and for checking candidate trees
// against those schemas. A Catalog is built explicitly at startup and passed
// by reference to the builder, validator, renderer, and prompt generator.
package catalog

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Component describes one permitted element type.
type Component struct {
	// Name is the type tag elements carry (e.g. "Card").
	Name string `json:"name"`

	// Description is the model-facing explanation of the component.
	Description string `json:"description,omitempty"`

	// Props is the schema element props must satisfy.
	Props PropsSchema `json:"props"`

	// HasChildren reports whether elements of this type may declare
	// children with rendering semantics.
	HasChildren bool `json:"hasChildren"`

	// Defaults holds prop values applied by convenience constructors when
	// the producer omits an optional prop.
	Defaults map[string]any `json:"defaults,omitempty"`
}

// Action describes one permitted action an interactive element may invoke.
type Action struct {
	// Name identifies the action (e.g. "export").
	Name string `json:"name"`

	// Description is the model-facing explanation of the action.
	Description string `json:"description,omitempty"`

	// Params is the schema action params must satisfy. A nil Params means
	// the action accepts no parameters.
	Params *PropsSchema `json:"params,omitempty"`
}

// Catalog registers components and actions. It is read-mostly configuration:
// populate it during process startup, then share it.
type Catalog struct {
	mu         sync.RWMutex
	components map[string]Component
	actions    map[string]Action
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		components: make(map[string]Component),
		actions:    make(map[string]Action),
	}
}

// RegisterComponent adds or overwrites a component entry.
func (c *Catalog) RegisterComponent(comp Component) error {
	if comp.Name == "" {
		return fmt.Errorf("register component: %w", ErrEmptyName)
	}
	if comp.Props.Type != "object" {
		return fmt.Errorf("register component %s: %w: schema type must be 'object', got %q",
			comp.Name, ErrInvalidSchema, comp.Props.Type)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.components[comp.Name] = comp
	return nil
}

// RegisterAction adds or overwrites an action descriptor.
func (c *Catalog) RegisterAction(act Action) error {
	if act.Name == "" {
		return fmt.Errorf("register action: %w", ErrEmptyName)
	}
	if act.Params != nil && act.Params.Type != "object" {
		return fmt.Errorf("register action %s: %w: params type must be 'object', got %q",
			act.Name, ErrInvalidSchema, act.Params.Type)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions[act.Name] = act
	return nil
}

// Component retrieves a component entry by name.
func (c *Catalog) Component(name string) (Component, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	comp, ok := c.components[name]
	return comp, ok
}

// Action retrieves an action descriptor by name.
func (c *Catalog) Action(name string) (Action, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	act, ok := c.actions[name]
	return act, ok
}

// Components returns all registered components sorted by name.
func (c *Catalog) Components() []Component {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Component, 0, len(c.components))
	for _, comp := range c.components {
		out = append(out, comp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Actions returns all registered actions sorted by name.
func (c *Catalog) Actions() []Action {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Action, 0, len(c.actions))
	for _, act := range c.actions {
		out = append(out, act)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Summary is the serializable description of everything the catalog permits.
// It is returned by the catalog API endpoint and feeds the model prompt.
type Summary struct {
	Components []Component `json:"components"`
	Actions    []Action    `json:"actions"`
}

// Describe produces a serializable summary of all registered components and
// actions with their schemas and descriptions.
func (c *Catalog) Describe() Summary {
	return Summary{
		Components: c.Components(),
		Actions:    c.Actions(),
	}
}

// PromptFragment renders the catalog as text for embedding in the system
// instructions given to the model, so it knows which element types and
// actions it may emit inside a tree.
func (c *Catalog) PromptFragment() string {
	var b strings.Builder

	b.WriteString("You may return interactive UI as a tool result using the ui-tree format:\n")
	b.WriteString(`{"_type":"ui-tree","root":"<key>","elements":{"<key>":{"key":"<key>","type":"<Type>","props":{...},"children":["<key>"]}}}`)
	b.WriteString("\n\nAvailable component types:\n")

	for _, comp := range c.Components() {
		fmt.Fprintf(&b, "- %s", comp.Name)
		if comp.Description != "" {
			fmt.Fprintf(&b, ": %s", comp.Description)
		}
		if comp.HasChildren {
			b.WriteString(" (accepts children)")
		}
		b.WriteString("\n")
		writeSchemaLines(&b, "  ", comp.Props)
	}

	actions := c.Actions()
	if len(actions) > 0 {
		b.WriteString("\nAvailable actions (for Button elements):\n")
		for _, act := range actions {
			fmt.Fprintf(&b, "- %s", act.Name)
			if act.Description != "" {
				fmt.Fprintf(&b, ": %s", act.Description)
			}
			b.WriteString("\n")
			if act.Params != nil {
				writeSchemaLines(&b, "  ", *act.Params)
			}
		}
	}

	return b.String()
}

func writeSchemaLines(b *strings.Builder, indent string, schema PropsSchema) {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := schema.Properties[name]
		fmt.Fprintf(b, "%s%s (%s", indent, name, def.Type)
		if required[name] {
			b.WriteString(", required")
		}
		if len(def.Enum) > 0 {
			fmt.Fprintf(b, ", one of: %s", strings.Join(def.Enum, "|"))
		}
		b.WriteString(")")
		if def.Description != "" {
			fmt.Fprintf(b, " %s", def.Description)
		}
		b.WriteString("\n")
	}
}
