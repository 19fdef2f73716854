package catalog

import (
	"github.com/renderloop/genui/uitree"
)

// Prop is an optional property passed to a convenience constructor.
type Prop struct {
	Name  string
	Value any
}

// P builds a Prop for a convenience constructor.
func P(name string, value any) Prop {
	return Prop{Name: name, Value: value}
}

// newElement shapes an element of the given builtin type, layering catalog
// defaults under the required props and any extras. Constructor output always
// validates against Default().
func newElement(typ, key string, props map[string]any, children []string, extra []Prop) uitree.Element {
	merged := make(map[string]any)
	for _, comp := range builtinComponents() {
		if comp.Name == typ {
			for name, value := range comp.Defaults {
				merged[name] = value
			}
			break
		}
	}
	for name, value := range props {
		merged[name] = value
	}
	for _, p := range extra {
		merged[p.Name] = p.Value
	}
	return uitree.Element{
		Key:      key,
		Type:     typ,
		Props:    merged,
		Children: children,
	}
}

// Card creates a Card element wrapping the given children.
func Card(key, title string, children []string, extra ...Prop) uitree.Element {
	props := map[string]any{}
	if title != "" {
		props["title"] = title
	}
	return newElement("Card", key, props, children, extra)
}

// Grid creates a Grid element.
func Grid(key string, columns int, children []string, extra ...Prop) uitree.Element {
	props := map[string]any{}
	if columns > 0 {
		props["columns"] = columns
	}
	return newElement("Grid", key, props, children, extra)
}

// Stack creates a Stack element.
func Stack(key, direction string, children []string, extra ...Prop) uitree.Element {
	props := map[string]any{}
	if direction != "" {
		props["direction"] = direction
	}
	return newElement("Stack", key, props, children, extra)
}

// Metric creates a Metric element. value should be numeric.
func Metric(key, label string, value any, extra ...Prop) uitree.Element {
	return newElement("Metric", key, map[string]any{
		"label": label,
		"value": value,
	}, nil, extra)
}

// TableColumn describes one Table column definition.
type TableColumn struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Format string `json:"format,omitempty"`
}

// Table creates a Table element.
func Table(key string, columns []TableColumn, data []map[string]any, extra ...Prop) uitree.Element {
	cols := make([]any, len(columns))
	for i, col := range columns {
		m := map[string]any{"key": col.Key, "label": col.Label}
		if col.Format != "" {
			m["format"] = col.Format
		}
		cols[i] = m
	}
	rows := make([]any, len(data))
	for i, row := range data {
		rows[i] = row
	}
	return newElement("Table", key, map[string]any{
		"columns": cols,
		"data":    rows,
	}, nil, extra)
}

// ChartPoint is one labeled data point of a Chart.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// Chart creates a Chart element of the given chart type.
func Chart(key, chartType string, points []ChartPoint, extra ...Prop) uitree.Element {
	data := make([]any, len(points))
	for i, p := range points {
		m := map[string]any{"label": p.Label, "value": p.Value}
		if p.Color != "" {
			m["color"] = p.Color
		}
		data[i] = m
	}
	return newElement("Chart", key, map[string]any{
		"type": chartType,
		"data": data,
	}, nil, extra)
}

// Progress creates a Progress element with a 0-100 value.
func Progress(key string, value float64, extra ...Prop) uitree.Element {
	return newElement("Progress", key, map[string]any{"value": value}, nil, extra)
}

// Badge creates a Badge element.
func Badge(key, text string, extra ...Prop) uitree.Element {
	return newElement("Badge", key, map[string]any{"text": text}, nil, extra)
}

// Button creates a Button element that dispatches the named action.
func Button(key, label, actionName string, params map[string]any, extra ...Prop) uitree.Element {
	action := map[string]any{"name": actionName}
	if len(params) > 0 {
		action["params"] = params
	}
	return newElement("Button", key, map[string]any{
		"label":  label,
		"action": action,
	}, nil, extra)
}

// Alert creates an Alert element.
func Alert(key, title string, extra ...Prop) uitree.Element {
	return newElement("Alert", key, map[string]any{"title": title}, nil, extra)
}

// Text creates a Text element. content may contain markdown.
func Text(key, content string, extra ...Prop) uitree.Element {
	return newElement("Text", key, map[string]any{"content": content}, nil, extra)
}

// Image creates an Image element.
func Image(key, src, alt string, extra ...Prop) uitree.Element {
	return newElement("Image", key, map[string]any{"src": src, "alt": alt}, nil, extra)
}

// Divider creates a Divider element.
func Divider(key string, extra ...Prop) uitree.Element {
	return newElement("Divider", key, nil, nil, extra)
}

// ListItem is one entry of a List element.
type ListItem struct {
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// List creates a List element.
func List(key string, items []ListItem, extra ...Prop) uitree.Element {
	entries := make([]any, len(items))
	for i, item := range items {
		m := map[string]any{"label": item.Label}
		if item.Value != "" {
			m["value"] = item.Value
		}
		if item.Icon != "" {
			m["icon"] = item.Icon
		}
		entries[i] = m
	}
	return newElement("List", key, map[string]any{"items": entries}, nil, extra)
}

// Filter describes one control of a FilterPanel.
type Filter struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Type        string         `json:"type"`
	Placeholder string         `json:"placeholder,omitempty"`
	Options     []FilterOption `json:"options,omitempty"`
}

// FilterOption is one choice of a select filter.
type FilterOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FilterPanel creates a FilterPanel element.
func FilterPanel(key string, filters []Filter, extra ...Prop) uitree.Element {
	defs := make([]any, len(filters))
	for i, f := range filters {
		m := map[string]any{"id": f.ID, "label": f.Label, "type": f.Type}
		if f.Placeholder != "" {
			m["placeholder"] = f.Placeholder
		}
		if len(f.Options) > 0 {
			opts := make([]any, len(f.Options))
			for j, o := range f.Options {
				opts[j] = map[string]any{"label": o.Label, "value": o.Value}
			}
			m["options"] = opts
		}
		defs[i] = m
	}
	return newElement("FilterPanel", key, map[string]any{"filters": defs}, nil, extra)
}

// DocumentSection is one section of a DocumentPreview.
type DocumentSection struct {
	Heading string `json:"heading,omitempty"`
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
}

// DocumentPreview creates a DocumentPreview element.
func DocumentPreview(key, title, docType string, sections []DocumentSection, extra ...Prop) uitree.Element {
	secs := make([]any, len(sections))
	for i, s := range sections {
		m := map[string]any{"content": s.Content}
		if s.Heading != "" {
			m["heading"] = s.Heading
		}
		if s.Type != "" {
			m["type"] = s.Type
		}
		secs[i] = m
	}
	return newElement("DocumentPreview", key, map[string]any{
		"title":    title,
		"type":     docType,
		"sections": secs,
	}, nil, extra)
}
