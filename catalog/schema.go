package catalog

// PropsSchema defines the accepted shape of an element's props or an
// action's params. It is the small JSON-Schema subset this module validates.
type PropsSchema struct {
	// Type must be "object"
	Type string `json:"type"`

	// Properties defines the accepted fields
	Properties map[string]PropertyDef `json:"properties"`

	// Required lists the names of required fields
	Required []string `json:"required,omitempty"`
}

// PropertyDef defines a single property in a schema
type PropertyDef struct {
	// Type is the JSON Schema type (string, number, integer, boolean, array, object)
	Type string `json:"type"`

	// Description explains what this property is for
	Description string `json:"description,omitempty"`

	// Enum restricts the property to specific string values
	Enum []string `json:"enum,omitempty"`

	// Items defines the schema for array items (when Type is "array")
	Items *PropertyDef `json:"items,omitempty"`

	// Properties defines nested object properties (when Type is "object")
	Properties map[string]PropertyDef `json:"properties,omitempty"`

	// Minimum/Maximum for number types
	Minimum *float64 `json:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty"`

	// MinLength/MaxLength for string types
	MinLength *int `json:"minLength,omitempty"`
	MaxLength *int `json:"maxLength,omitempty"`
}

// ObjectSchema builds a PropsSchema with the given properties and required
// field names.
func ObjectSchema(properties map[string]PropertyDef, required ...string) PropsSchema {
	return PropsSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// Float returns a pointer to v, for use in Minimum/Maximum bounds.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v, for use in MinLength/MaxLength bounds.
func Int(v int) *int {
	return &v
}
