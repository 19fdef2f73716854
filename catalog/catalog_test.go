package catalog

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestRegisterComponent(t *testing.T) {
	tests := []struct {
		name    string
		comp    Component
		wantErr error
	}{
		{
			name: "valid component",
			comp: Component{
				Name:  "Widget",
				Props: ObjectSchema(map[string]PropertyDef{"title": {Type: "string"}}),
			},
		},
		{
			name:    "empty name",
			comp:    Component{Props: ObjectSchema(nil)},
			wantErr: ErrEmptyName,
		},
		{
			name:    "non-object schema",
			comp:    Component{Name: "Widget", Props: PropsSchema{Type: "array"}},
			wantErr: ErrInvalidSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			err := c.RegisterComponent(tt.comp)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if _, ok := c.Component(tt.comp.Name); !ok {
					t.Error("component not retrievable after registration")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRegisterComponent_Overwrites(t *testing.T) {
	c := New()
	first := Component{Name: "Widget", Description: "v1", Props: ObjectSchema(nil)}
	second := Component{Name: "Widget", Description: "v2", Props: ObjectSchema(nil)}

	if err := c.RegisterComponent(first); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := c.RegisterComponent(second); err != nil {
		t.Fatalf("re-register failed: %v", err)
	}

	got, _ := c.Component("Widget")
	if got.Description != "v2" {
		t.Errorf("expected overwrite to win, got %q", got.Description)
	}
}

func TestRegisterAction(t *testing.T) {
	c := New()

	if err := c.RegisterAction(Action{}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}

	params := ObjectSchema(map[string]PropertyDef{"url": {Type: "string"}}, "url")
	if err := c.RegisterAction(Action{Name: "navigate", Params: &params}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, ok := c.Action("navigate"); !ok {
		t.Error("action not retrievable after registration")
	}

	bad := PropsSchema{Type: "string"}
	if err := c.RegisterAction(Action{Name: "bad", Params: &bad}); !errors.Is(err, ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestDescribe_IsSerializableAndSorted(t *testing.T) {
	c := Default()
	summary := c.Describe()

	if len(summary.Components) == 0 || len(summary.Actions) == 0 {
		t.Fatal("default catalog summary is empty")
	}

	for i := 1; i < len(summary.Components); i++ {
		if summary.Components[i-1].Name >= summary.Components[i].Name {
			t.Errorf("components not sorted: %q before %q",
				summary.Components[i-1].Name, summary.Components[i].Name)
		}
	}

	data, err := json.Marshal(summary)
	if err != nil {
		t.Fatalf("summary not serializable: %v", err)
	}
	var back Summary
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("summary round trip failed: %v", err)
	}
}

func TestPromptFragment(t *testing.T) {
	frag := Default().PromptFragment()

	for _, want := range []string{
		`"_type":"ui-tree"`,
		"Card",
		"Metric",
		"format (string, one of: currency|percent|number|text)",
		"export",
		"(accepts children)",
	} {
		if !strings.Contains(frag, want) {
			t.Errorf("prompt fragment missing %q", want)
		}
	}
}
