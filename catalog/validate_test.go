package catalog

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/renderloop/genui/uitree"
)

func mustTree(t *testing.T, root uitree.Element, rest ...uitree.Element) *uitree.Tree {
	t.Helper()
	tree, err := uitree.Build(root, rest...)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return tree
}

func violationCodes(t *testing.T, err error) []string {
	t.Helper()
	ve, ok := AsValidationError(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	codes := make([]string, len(ve.Violations))
	for i, v := range ve.Violations {
		codes[i] = v.Code
	}
	return codes
}

func TestValidateTree_AcceptsConstructorOutput(t *testing.T) {
	c := Default()

	tree := mustTree(t,
		Card("card1", "Quarterly numbers", []string{"grid1", "actions"}),
		Grid("grid1", 2, []string{"m1", "m2", "chart1", "progress1"}),
		Metric("m1", "Revenue", 125000, P("format", "currency"), P("trend", "up"), P("trendValue", "+12.5%")),
		Metric("m2", "Churn", 2.1, P("format", "percent"), P("trend", "down")),
		Chart("chart1", "bar", []ChartPoint{{Label: "Jan", Value: 100}, {Label: "Feb", Value: 140}}),
		Progress("progress1", 64, P("label", "Target"), P("showValue", true)),
		Stack("actions", "horizontal", []string{"export", "refresh"}),
		Button("export", "Export", "export", map[string]any{"format": "csv"}),
		Button("refresh", "Refresh", "refresh", nil),
	)

	if err := c.ValidateTree(tree, ValidateOptions{Strict: true}); err != nil {
		t.Fatalf("constructor-built tree must validate, got: %v", err)
	}
}

func TestValidateTree_AllConstructors(t *testing.T) {
	c := Default()

	elements := []uitree.Element{
		Badge("badge", "Active", P("variant", "success")),
		Alert("alert", "Heads up", P("description", "Something changed"), P("variant", "warning")),
		Text("text", "**bold** body", P("variant", "lead")),
		Image("img", "https://example.com/a.png", "diagram", P("width", 640)),
		Divider("div"),
		List("list", []ListItem{{Label: "One", Value: "1", Icon: "check"}}, P("ordered", true)),
		Table("table",
			[]TableColumn{{Key: "name", Label: "Name"}, {Key: "amount", Label: "Amount", Format: "currency"}},
			[]map[string]any{{"name": "Acme", "amount": 1200.0}},
			P("striped", true)),
		FilterPanel("filters", []Filter{{
			ID: "status", Label: "Status", Type: "select",
			Options: []FilterOption{{Label: "Active", Value: "active"}},
		}}, P("title", "Filter users")),
		DocumentPreview("doc", "Invoice #001", "invoice", []DocumentSection{
			{Heading: "Bill To", Content: "John Doe"},
			{Content: "Signature", Type: "signature"},
		}, P("status", "final")),
	}

	keys := make([]string, len(elements))
	for i, el := range elements {
		keys[i] = el.Key
	}

	tree := mustTree(t, Stack("root", "vertical", keys), elements...)
	if err := c.ValidateTree(tree, ValidateOptions{Strict: true}); err != nil {
		t.Fatalf("constructor-built tree must validate, got: %v", err)
	}
}

func TestValidateTree_CollectsEveryViolation(t *testing.T) {
	c := Default()

	// Two independent missing-required violations plus one enum violation,
	// in two different elements. All three must be reported.
	tree := &uitree.Tree{
		Root: "root",
		Elements: map[string]uitree.Element{
			"root": {Key: "root", Type: "Card", Children: []string{"m1", "m2"}},
			"m1":   {Key: "m1", Type: "Metric", Props: map[string]any{"value": 1.0, "format": "bogus"}},
			"m2":   {Key: "m2", Type: "Metric", Props: map[string]any{"label": "x"}},
		},
	}

	err := c.ValidateTree(tree, ValidateOptions{})
	codes := violationCodes(t, err)
	if len(codes) != 3 {
		t.Fatalf("expected exactly 3 violations, got %d: %v", len(codes), codes)
	}

	counts := map[string]int{}
	for _, code := range codes {
		counts[code]++
	}
	if counts[CodeMissingRequired] != 2 {
		t.Errorf("expected 2 missing_required, got %d", counts[CodeMissingRequired])
	}
	if counts[CodeInvalidEnum] != 1 {
		t.Errorf("expected 1 invalid_enum, got %d", counts[CodeInvalidEnum])
	}
}

func TestValidateTree_UnknownType(t *testing.T) {
	c := Default()
	tree := &uitree.Tree{
		Root: "root",
		Elements: map[string]uitree.Element{
			"root": {Key: "root", Type: "Hologram"},
		},
	}

	codes := violationCodes(t, c.ValidateTree(tree, ValidateOptions{}))
	if len(codes) != 1 || codes[0] != CodeUnknownType {
		t.Errorf("expected single unknown_type, got %v", codes)
	}
}

func TestValidateTree_MissingRoot(t *testing.T) {
	c := Default()
	tree := &uitree.Tree{Root: "gone", Elements: map[string]uitree.Element{}}

	codes := violationCodes(t, c.ValidateTree(tree, ValidateOptions{}))
	if len(codes) != 1 || codes[0] != CodeMissingRoot {
		t.Errorf("expected single missing_root, got %v", codes)
	}
}

func TestValidateTree_DanglingChild(t *testing.T) {
	c := Default()
	tree := &uitree.Tree{
		Root: "root",
		Elements: map[string]uitree.Element{
			"root": {Key: "root", Type: "Card", Children: []string{"ghost"}},
		},
	}

	codes := violationCodes(t, c.ValidateTree(tree, ValidateOptions{}))
	if len(codes) != 1 || codes[0] != CodeDanglingChild {
		t.Errorf("expected single dangling_child, got %v", codes)
	}
}

func TestValidateTree_ChildrenOnChildlessType(t *testing.T) {
	c := Default()
	tree := &uitree.Tree{
		Root: "root",
		Elements: map[string]uitree.Element{
			"root": {Key: "root", Type: "Metric",
				Props:    map[string]any{"label": "x", "value": 1.0},
				Children: []string{"b"}},
			"b": {Key: "b", Type: "Badge", Props: map[string]any{"text": "y"}},
		},
	}

	codes := violationCodes(t, c.ValidateTree(tree, ValidateOptions{}))
	if len(codes) != 1 || codes[0] != CodeUnexpectedChildren {
		t.Errorf("expected single unexpected_children, got %v", codes)
	}
}

func TestValidateTree_CycleReported(t *testing.T) {
	c := Default()
	tree := &uitree.Tree{
		Root: "a",
		Elements: map[string]uitree.Element{
			"a": {Key: "a", Type: "Card", Children: []string{"b"}},
			"b": {Key: "b", Type: "Stack", Children: []string{"a"}},
		},
	}

	err := c.ValidateTree(tree, ValidateOptions{})
	found := false
	for _, code := range violationCodes(t, err) {
		if code == CodeCycle {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a cycle violation, got %v", err)
	}
}

func TestValidateTree_StrictMode(t *testing.T) {
	c := Default()
	tree := &uitree.Tree{
		Root: "root",
		Elements: map[string]uitree.Element{
			"root": {Key: "root", Type: "Badge",
				Props: map[string]any{"text": "ok", "glow": true}},
		},
	}

	if err := c.ValidateTree(tree, ValidateOptions{}); err != nil {
		t.Errorf("lenient mode must ignore undeclared props, got %v", err)
	}

	codes := violationCodes(t, c.ValidateTree(tree, ValidateOptions{Strict: true}))
	if len(codes) != 1 || codes[0] != CodeUnknownProp {
		t.Errorf("expected single unknown_prop in strict mode, got %v", codes)
	}
}

func TestValidateTree_RangeAndTypeChecks(t *testing.T) {
	c := Default()

	tests := []struct {
		name     string
		el       uitree.Element
		wantCode string
	}{
		{
			name: "progress above maximum",
			el: uitree.Element{Key: "p", Type: "Progress",
				Props: map[string]any{"value": 250.0}},
			wantCode: CodeOutOfRange,
		},
		{
			name: "grid columns below minimum",
			el: uitree.Element{Key: "g", Type: "Grid",
				Props: map[string]any{"columns": 0.0}},
			wantCode: CodeOutOfRange,
		},
		{
			name: "metric value wrong type",
			el: uitree.Element{Key: "m", Type: "Metric",
				Props: map[string]any{"label": "x", "value": "lots"}},
			wantCode: CodeInvalidType,
		},
		{
			name: "text variant outside enum",
			el: uitree.Element{Key: "t", Type: "Text",
				Props: map[string]any{"content": "hi", "variant": "h7"}},
			wantCode: CodeInvalidEnum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := &uitree.Tree{
				Root:     tt.el.Key,
				Elements: map[string]uitree.Element{tt.el.Key: tt.el},
			}
			err := c.ValidateTree(tree, ValidateOptions{})
			codes := violationCodes(t, err)
			found := false
			for _, code := range codes {
				if code == tt.wantCode {
					found = true
				}
			}
			if !found {
				t.Errorf("expected %s violation, got %v", tt.wantCode, codes)
			}
		})
	}
}

func TestValidateParams(t *testing.T) {
	c := Default()

	tests := []struct {
		name    string
		action  string
		params  string
		wantErr bool
		errIs   error
	}{
		{name: "export json ok", action: "export", params: `{"format":"json"}`},
		{name: "export xml rejected", action: "export", params: `{"format":"xml"}`, wantErr: true, errIs: ErrValidation},
		{name: "export missing format", action: "export", params: `{}`, wantErr: true, errIs: ErrValidation},
		{name: "unknown action", action: "teleport", params: `{}`, wantErr: true, errIs: ErrUnknownAction},
		{name: "refresh takes nothing", action: "refresh", params: ``},
		{name: "refresh rejects params", action: "refresh", params: `{"hard":true}`, wantErr: true, errIs: ErrValidation},
		{name: "navigate ok", action: "navigate", params: `{"url":"https://example.com"}`},
		{name: "navigate empty url", action: "navigate", params: `{"url":""}`, wantErr: true, errIs: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.ValidateParams(tt.action, json.RawMessage(tt.params))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.errIs != nil && !errors.Is(err, tt.errIs) {
				t.Errorf("expected %v, got %v", tt.errIs, err)
			}
		})
	}
}
