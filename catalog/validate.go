package catalog

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/renderloop/genui/uitree"
)

// ValidateOptions controls optional validator behavior.
type ValidateOptions struct {
	// Strict rejects props that are not declared in the component schema.
	Strict bool
}

// ValidateTree checks a tree against the catalog, collecting every violation
// found: unknown types, schema failures, a root key absent from elements,
// dangling child references, children on childless types, and cycles
// reachable from the root. It is side-effect-free and never fails fast;
// the returned error is a *ValidationError carrying the full list, or nil
// when the tree is acceptable.
func (c *Catalog) ValidateTree(tree *uitree.Tree, opts ValidateOptions) error {
	var violations []Violation

	if tree == nil {
		violations = append(violations, Violation{
			Code:    CodeMissingRoot,
			Message: "tree is nil",
		})
		return &ValidationError{Violations: violations}
	}

	if _, ok := tree.Elements[tree.Root]; !ok {
		violations = append(violations, Violation{
			Code:    CodeMissingRoot,
			Message: fmt.Sprintf("root key %q not present in elements", tree.Root),
		})
	}

	// Deterministic violation order for display and tests.
	keys := make([]string, 0, len(tree.Elements))
	for key := range tree.Elements {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		el := tree.Elements[key]

		if el.Key != "" && el.Key != key {
			violations = append(violations, Violation{
				Element: key,
				Code:    CodeKeyMismatch,
				Message: fmt.Sprintf("element stored under %q declares key %q", key, el.Key),
			})
		}

		comp, known := c.Component(el.Type)
		if !known {
			violations = append(violations, Violation{
				Element: key,
				Code:    CodeUnknownType,
				Message: fmt.Sprintf("type %q is not in the catalog", el.Type),
			})
		} else {
			violations = append(violations, checkProps(key, comp.Props, el.Props, opts.Strict)...)

			if !comp.HasChildren && len(el.Children) > 0 {
				violations = append(violations, Violation{
					Element: key,
					Code:    CodeUnexpectedChildren,
					Message: fmt.Sprintf("type %q does not accept children", el.Type),
				})
			}
		}

		for _, child := range el.Children {
			if _, ok := tree.Elements[child]; !ok {
				violations = append(violations, Violation{
					Element: key,
					Code:    CodeDanglingChild,
					Message: fmt.Sprintf("child key %q not present in elements", child),
				})
			}
		}
	}

	violations = append(violations, detectCycles(tree)...)

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// detectCycles walks children from the root tracking the active path, so a
// back-reference is reported instead of recursing without bound.
func detectCycles(tree *uitree.Tree) []Violation {
	var violations []Violation
	onPath := make(map[string]bool)
	done := make(map[string]bool)

	var walk func(key string)
	walk = func(key string) {
		if onPath[key] {
			violations = append(violations, Violation{
				Element: key,
				Code:    CodeCycle,
				Message: fmt.Sprintf("element %q is referenced by one of its own descendants", key),
			})
			return
		}
		if done[key] {
			return
		}
		el, ok := tree.Elements[key]
		if !ok {
			return
		}
		onPath[key] = true
		for _, child := range el.Children {
			walk(child)
		}
		onPath[key] = false
		done[key] = true
	}

	walk(tree.Root)
	return violations
}

// checkProps validates an element's props map against a component schema,
// collecting every failure rather than stopping at the first.
func checkProps(element string, schema PropsSchema, props map[string]any, strict bool) []Violation {
	var violations []Violation

	for _, required := range schema.Required {
		if _, ok := props[required]; !ok {
			violations = append(violations, Violation{
				Element: element,
				Field:   required,
				Code:    CodeMissingRequired,
				Message: fmt.Sprintf("missing required prop %q", required),
			})
		}
	}

	propNames := make([]string, 0, len(props))
	for name := range props {
		propNames = append(propNames, name)
	}
	sort.Strings(propNames)

	for _, name := range propNames {
		def, declared := schema.Properties[name]
		if !declared {
			if strict {
				violations = append(violations, Violation{
					Element: element,
					Field:   name,
					Code:    CodeUnknownProp,
					Message: fmt.Sprintf("prop %q is not declared in the schema", name),
				})
			}
			continue
		}
		violations = append(violations, checkProperty(element, name, def, props[name])...)
	}

	return violations
}

// checkProperty validates a single value against its definition. Nested
// array/object failures are reported with a dotted or indexed field path.
func checkProperty(element, path string, def PropertyDef, value any) []Violation {
	if value == nil {
		return nil
	}

	var violations []Violation

	if v, ok := checkValueType(element, path, def.Type, value); !ok {
		// A type mismatch makes the remaining constraints meaningless.
		return []Violation{v}
	}

	if len(def.Enum) > 0 {
		strVal, ok := value.(string)
		if !ok {
			violations = append(violations, Violation{
				Element: element, Field: path, Code: CodeInvalidEnum,
				Message: fmt.Sprintf("expected string for enum check, got %T", value),
			})
		} else {
			valid := false
			for _, e := range def.Enum {
				if strVal == e {
					valid = true
					break
				}
			}
			if !valid {
				violations = append(violations, Violation{
					Element: element, Field: path, Code: CodeInvalidEnum,
					Message: fmt.Sprintf("value %q not in allowed values %v", strVal, def.Enum),
				})
			}
		}
	}

	if def.Type == "number" || def.Type == "integer" {
		if numVal, err := toFloat64(value); err == nil {
			if def.Minimum != nil && numVal < *def.Minimum {
				violations = append(violations, Violation{
					Element: element, Field: path, Code: CodeOutOfRange,
					Message: fmt.Sprintf("value %v is less than minimum %v", numVal, *def.Minimum),
				})
			}
			if def.Maximum != nil && numVal > *def.Maximum {
				violations = append(violations, Violation{
					Element: element, Field: path, Code: CodeOutOfRange,
					Message: fmt.Sprintf("value %v exceeds maximum %v", numVal, *def.Maximum),
				})
			}
		}
	}

	if def.Type == "string" {
		if strVal, ok := value.(string); ok {
			if def.MinLength != nil && len(strVal) < *def.MinLength {
				violations = append(violations, Violation{
					Element: element, Field: path, Code: CodeInvalidLength,
					Message: fmt.Sprintf("string length %d is less than minimum %d", len(strVal), *def.MinLength),
				})
			}
			if def.MaxLength != nil && len(strVal) > *def.MaxLength {
				violations = append(violations, Violation{
					Element: element, Field: path, Code: CodeInvalidLength,
					Message: fmt.Sprintf("string length %d exceeds maximum %d", len(strVal), *def.MaxLength),
				})
			}
		}
	}

	if def.Type == "array" && def.Items != nil {
		if arr, ok := value.([]any); ok {
			for i, item := range arr {
				violations = append(violations,
					checkProperty(element, fmt.Sprintf("%s[%d]", path, i), *def.Items, item)...)
			}
		}
	}

	if def.Type == "object" && def.Properties != nil {
		if obj, ok := value.(map[string]any); ok {
			nested := make([]string, 0, len(def.Properties))
			for name := range def.Properties {
				nested = append(nested, name)
			}
			sort.Strings(nested)
			for _, name := range nested {
				if propVal, exists := obj[name]; exists {
					violations = append(violations,
						checkProperty(element, path+"."+name, def.Properties[name], propVal)...)
				}
			}
		}
	}

	return violations
}

// checkValueType verifies the JSON type of value. It returns ok=true when the
// value matches, otherwise a filled-in violation.
func checkValueType(element, path, expected string, value any) (Violation, bool) {
	mismatch := func(format string, args ...any) (Violation, bool) {
		return Violation{
			Element: element,
			Field:   path,
			Code:    CodeInvalidType,
			Message: fmt.Sprintf(format, args...),
		}, false
	}

	switch expected {
	case "string":
		if _, ok := value.(string); !ok {
			return mismatch("expected string, got %T", value)
		}
	case "number":
		switch value.(type) {
		case float64, float32, int, int64, int32, json.Number:
			// Valid number types
		default:
			return mismatch("expected number, got %T", value)
		}
	case "integer":
		switch v := value.(type) {
		case float64:
			if v != float64(int64(v)) {
				return mismatch("expected integer, got float %v", v)
			}
		case int, int64, int32:
			// Valid integer types
		default:
			return mismatch("expected integer, got %T", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return mismatch("expected boolean, got %T", value)
		}
	case "array":
		if _, ok := value.([]any); !ok {
			return mismatch("expected array, got %T", value)
		}
	case "object":
		if _, ok := value.(map[string]any); !ok {
			return mismatch("expected object, got %T", value)
		}
	}

	return Violation{}, true
}

// ValidateParams checks raw JSON params against an action's declared schema.
// An action with no schema accepts only empty params. All violations are
// collected into one ValidationError.
func (c *Catalog) ValidateParams(name string, params json.RawMessage) error {
	act, ok := c.Action(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}

	paramsMap := map[string]any{}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &paramsMap); err != nil {
			return fmt.Errorf("action %s: invalid JSON params: %w", name, err)
		}
	}

	// No declared schema means the action takes no parameters at all.
	if act.Params == nil {
		if len(paramsMap) == 0 {
			return nil
		}
		supplied := make([]string, 0, len(paramsMap))
		for param := range paramsMap {
			supplied = append(supplied, param)
		}
		sort.Strings(supplied)
		violations := make([]Violation, 0, len(supplied))
		for _, param := range supplied {
			violations = append(violations, Violation{
				Element: name,
				Field:   param,
				Code:    CodeUnknownProp,
				Message: fmt.Sprintf("action %q accepts no parameters", name),
			})
		}
		return &ValidationError{Violations: violations}
	}

	violations := checkProps(name, *act.Params, paramsMap, true)
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// ValidateValues checks an untyped value map against a schema. It backs both
// element props and tool-input validation.
func ValidateValues(schema PropsSchema, values map[string]any, strict bool) error {
	violations := checkProps("", schema, values, strict)
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func toFloat64(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case json.Number:
		return val.Float64()
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", v)
	}
}
