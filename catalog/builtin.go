package catalog

// Default builds a fresh catalog with the standard component set and the
// actions the host application handles. Callers may extend the returned
// catalog before sharing it.
func Default() *Catalog {
	c := New()
	for _, comp := range builtinComponents() {
		if err := c.RegisterComponent(comp); err != nil {
			// Builtin definitions are static; a failure here is a
			// programming error.
			panic(err)
		}
	}
	for _, act := range builtinActions() {
		if err := c.RegisterAction(act); err != nil {
			panic(err)
		}
	}
	return c
}

func builtinComponents() []Component {
	return []Component{
		// Layout
		{
			Name:        "Card",
			Description: "Container with an optional title and description",
			HasChildren: true,
			Props: ObjectSchema(map[string]PropertyDef{
				"title":       {Type: "string", Description: "Card title"},
				"description": {Type: "string", Description: "Card subtitle"},
			}),
		},
		{
			Name:        "Grid",
			Description: "Responsive column grid",
			HasChildren: true,
			Props: ObjectSchema(map[string]PropertyDef{
				"columns": {Type: "integer", Description: "Column count", Minimum: Float(1), Maximum: Float(4)},
				"gap":     {Type: "string", Enum: []string{"sm", "md", "lg"}},
			}),
			Defaults: map[string]any{"columns": 2, "gap": "md"},
		},
		{
			Name:        "Stack",
			Description: "Vertical or horizontal flow of children",
			HasChildren: true,
			Props: ObjectSchema(map[string]PropertyDef{
				"direction": {Type: "string", Enum: []string{"vertical", "horizontal"}},
				"gap":       {Type: "string", Enum: []string{"sm", "md", "lg"}},
			}),
			Defaults: map[string]any{"direction": "vertical", "gap": "md"},
		},

		// Data display
		{
			Name:        "Metric",
			Description: "Single labeled figure with optional trend",
			Props: ObjectSchema(map[string]PropertyDef{
				"label":      {Type: "string", Description: "Metric label"},
				"value":      {Type: "number", Description: "Metric value"},
				"format":     {Type: "string", Enum: []string{"currency", "percent", "number", "text"}},
				"trend":      {Type: "string", Enum: []string{"up", "down", "neutral"}},
				"trendValue": {Type: "string", Description: "Trend text, e.g. +12.5%"},
			}, "label", "value"),
			Defaults: map[string]any{"format": "number"},
		},
		{
			Name:        "Table",
			Description: "Tabular data with typed columns",
			Props: ObjectSchema(map[string]PropertyDef{
				"columns": {
					Type: "array",
					Items: &PropertyDef{
						Type: "object",
						Properties: map[string]PropertyDef{
							"key":    {Type: "string"},
							"label":  {Type: "string"},
							"format": {Type: "string", Enum: []string{"text", "currency", "percent", "number", "date"}},
						},
					},
				},
				"data":    {Type: "array", Items: &PropertyDef{Type: "object"}},
				"striped": {Type: "boolean"},
			}, "columns", "data"),
			Defaults: map[string]any{"striped": false},
		},
		{
			Name:        "Chart",
			Description: "Simple chart over labeled data points",
			Props: ObjectSchema(map[string]PropertyDef{
				"type": {Type: "string", Enum: []string{"bar", "line", "pie", "area"}},
				"data": {
					Type: "array",
					Items: &PropertyDef{
						Type: "object",
						Properties: map[string]PropertyDef{
							"label": {Type: "string"},
							"value": {Type: "number"},
							"color": {Type: "string"},
						},
					},
				},
				"title":  {Type: "string"},
				"height": {Type: "integer", Minimum: Float(40)},
			}, "type", "data"),
		},
		{
			Name:        "Progress",
			Description: "Progress bar from 0 to 100",
			Props: ObjectSchema(map[string]PropertyDef{
				"value":     {Type: "number", Minimum: Float(0), Maximum: Float(100)},
				"label":     {Type: "string"},
				"showValue": {Type: "boolean"},
			}, "value"),
			Defaults: map[string]any{"showValue": false},
		},
		{
			Name:        "Badge",
			Description: "Small status label",
			Props: ObjectSchema(map[string]PropertyDef{
				"text":    {Type: "string"},
				"variant": {Type: "string", Enum: []string{"default", "secondary", "destructive", "outline", "success"}},
			}, "text"),
			Defaults: map[string]any{"variant": "default"},
		},

		// Interactive
		{
			Name:        "Button",
			Description: "Button that dispatches a named action when clicked",
			Props: ObjectSchema(map[string]PropertyDef{
				"label": {Type: "string"},
				"action": {
					Type: "object",
					Properties: map[string]PropertyDef{
						"name":   {Type: "string", Description: "Registered action name"},
						"params": {Type: "object"},
					},
				},
				"variant": {Type: "string", Enum: []string{"default", "secondary", "destructive", "outline", "ghost"}},
				"size":    {Type: "string", Enum: []string{"sm", "default", "lg"}},
			}, "label", "action"),
			Defaults: map[string]any{"variant": "default", "size": "default"},
		},

		// Feedback
		{
			Name:        "Alert",
			Description: "Callout with a title and optional description",
			Props: ObjectSchema(map[string]PropertyDef{
				"title":       {Type: "string"},
				"description": {Type: "string"},
				"variant":     {Type: "string", Enum: []string{"default", "destructive", "warning", "success"}},
			}, "title"),
			Defaults: map[string]any{"variant": "default"},
		},

		// Content
		{
			Name:        "Text",
			Description: "Markdown-capable text block",
			Props: ObjectSchema(map[string]PropertyDef{
				"content": {Type: "string"},
				"variant": {Type: "string", Enum: []string{"p", "h1", "h2", "h3", "muted", "lead"}},
			}, "content"),
			Defaults: map[string]any{"variant": "p"},
		},
		{
			Name:        "Image",
			Description: "Image with alt text",
			Props: ObjectSchema(map[string]PropertyDef{
				"src":    {Type: "string"},
				"alt":    {Type: "string"},
				"width":  {Type: "integer", Minimum: Float(1)},
				"height": {Type: "integer", Minimum: Float(1)},
			}, "src", "alt"),
		},
		{
			Name:        "Divider",
			Description: "Horizontal or vertical rule",
			Props: ObjectSchema(map[string]PropertyDef{
				"orientation": {Type: "string", Enum: []string{"horizontal", "vertical"}},
			}),
			Defaults: map[string]any{"orientation": "horizontal"},
		},
		{
			Name:        "List",
			Description: "Ordered or unordered item list",
			Props: ObjectSchema(map[string]PropertyDef{
				"items": {
					Type: "array",
					Items: &PropertyDef{
						Type: "object",
						Properties: map[string]PropertyDef{
							"label": {Type: "string"},
							"value": {Type: "string"},
							"icon":  {Type: "string"},
						},
					},
				},
				"ordered": {Type: "boolean"},
			}, "items"),
			Defaults: map[string]any{"ordered": false},
		},

		// Filtering and documents
		{
			Name:        "FilterPanel",
			Description: "Filter controls for a data view",
			Props: ObjectSchema(map[string]PropertyDef{
				"filters": {
					Type: "array",
					Items: &PropertyDef{
						Type: "object",
						Properties: map[string]PropertyDef{
							"id":          {Type: "string"},
							"label":       {Type: "string"},
							"type":        {Type: "string", Enum: []string{"text", "select", "date", "dateRange", "checkbox", "number"}},
							"placeholder": {Type: "string"},
							"options": {
								Type: "array",
								Items: &PropertyDef{
									Type: "object",
									Properties: map[string]PropertyDef{
										"label": {Type: "string"},
										"value": {Type: "string"},
									},
								},
							},
						},
					},
				},
				"title":         {Type: "string"},
				"activeFilters": {Type: "object"},
			}, "filters"),
		},
		{
			Name:        "DocumentPreview",
			Description: "Preview of a generated document with sections",
			Props: ObjectSchema(map[string]PropertyDef{
				"title": {Type: "string"},
				"type":  {Type: "string", Enum: []string{"invoice", "report", "letter", "contract", "receipt", "custom"}},
				"sections": {
					Type: "array",
					Items: &PropertyDef{
						Type: "object",
						Properties: map[string]PropertyDef{
							"heading": {Type: "string"},
							"content": {Type: "string"},
							"type":    {Type: "string", Enum: []string{"text", "table", "list", "signature"}},
						},
					},
				},
				"status":   {Type: "string", Enum: []string{"draft", "final", "pending"}},
				"metadata": {Type: "object"},
			}, "title", "type", "sections"),
		},
	}
}

func builtinActions() []Action {
	exportParams := ObjectSchema(map[string]PropertyDef{
		"format":   {Type: "string", Enum: []string{"csv", "json", "pdf"}},
		"filename": {Type: "string"},
	}, "format")

	navigateParams := ObjectSchema(map[string]PropertyDef{
		"url":    {Type: "string", MinLength: Int(1)},
		"target": {Type: "string", Enum: []string{"self", "blank"}},
	}, "url")

	copyParams := ObjectSchema(map[string]PropertyDef{
		"text": {Type: "string"},
	}, "text")

	filterParams := ObjectSchema(map[string]PropertyDef{
		"filters": {Type: "object", Description: "Filter id to value map"},
	}, "filters")

	return []Action{
		{Name: "export", Description: "Export the displayed data", Params: &exportParams},
		{Name: "copy", Description: "Copy text to the clipboard", Params: &copyParams},
		{Name: "navigate", Description: "Navigate to a URL", Params: &navigateParams},
		{Name: "filter", Description: "Apply filters to the current view", Params: &filterParams},
		{Name: "refresh", Description: "Re-fetch and rebuild the current view"},
	}
}
