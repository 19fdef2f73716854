package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// mdPolicy strips anything dangerous from converted markdown before it is
// embedded as trusted HTML.
var mdPolicy = bluemonday.UGCPolicy()

// markdownHTML converts markdown to sanitized HTML.
func markdownHTML(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}
	return template.HTML(mdPolicy.SanitizeBytes(buf.Bytes())), nil
}

var componentTmpl = template.Must(template.New("components").Parse(componentTemplates))

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := componentTmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// DefaultRegistry builds a registry with HTML renderers for the full builtin
// component set.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	renderers := map[string]Func{
		"Card":            renderCard,
		"Grid":            renderGrid,
		"Stack":           renderStack,
		"Metric":          renderMetric,
		"Table":           renderTable,
		"Chart":           renderChart,
		"Progress":        renderProgress,
		"Badge":           renderBadge,
		"Button":          renderButton,
		"Alert":           renderAlert,
		"Text":            renderText,
		"Image":           renderImage,
		"Divider":         renderDivider,
		"List":            renderList,
		"FilterPanel":     renderFilterPanel,
		"DocumentPreview": renderDocumentPreview,
	}
	for name, fn := range renderers {
		if err := r.Register(name, fn); err != nil {
			panic(err)
		}
	}
	return r
}

func renderCard(ctx Context) (template.HTML, error) {
	return execute("card", struct {
		Key, Title, Description string
		Children                []template.HTML
	}{
		Key:         ctx.Element.Key,
		Title:       ctx.StringProp("title", ""),
		Description: ctx.StringProp("description", ""),
		Children:    ctx.Children,
	})
}

func renderGrid(ctx Context) (template.HTML, error) {
	columns := 2
	if n, ok := toNumber(ctx.Prop("columns")); ok && n >= 1 {
		columns = int(n)
	}
	return execute("grid", struct {
		Key      string
		Columns  int
		Gap      string
		Children []template.HTML
	}{
		Key:      ctx.Element.Key,
		Columns:  columns,
		Gap:      ctx.StringProp("gap", "md"),
		Children: ctx.Children,
	})
}

func renderStack(ctx Context) (template.HTML, error) {
	return execute("stack", struct {
		Key, Direction, Gap string
		Children            []template.HTML
	}{
		Key:       ctx.Element.Key,
		Direction: ctx.StringProp("direction", "vertical"),
		Gap:       ctx.StringProp("gap", "md"),
		Children:  ctx.Children,
	})
}

func renderMetric(ctx Context) (template.HTML, error) {
	format := ctx.StringProp("format", "number")
	return execute("metric", struct {
		Key, Label, Value, Trend, TrendValue string
	}{
		Key:        ctx.Element.Key,
		Label:      ctx.StringProp("label", ""),
		Value:      FormatValue(format, ctx.Prop("value")),
		Trend:      ctx.StringProp("trend", ""),
		TrendValue: ctx.StringProp("trendValue", ""),
	})
}

func renderTable(ctx Context) (template.HTML, error) {
	type column struct {
		key, format string
		Label       string
	}

	var columns []column
	if raw, ok := ctx.Prop("columns").([]any); ok {
		for _, c := range raw {
			if m, ok := c.(map[string]any); ok {
				col := column{}
				col.key, _ = m["key"].(string)
				col.Label, _ = m["label"].(string)
				col.format, _ = m["format"].(string)
				columns = append(columns, col)
			}
		}
	}

	var rows [][]string
	if raw, ok := ctx.Prop("data").([]any); ok {
		for _, r := range raw {
			m, ok := r.(map[string]any)
			if !ok {
				continue
			}
			cells := make([]string, len(columns))
			for i, col := range columns {
				if v, exists := m[col.key]; exists {
					cells[i] = FormatValue(col.format, v)
				}
			}
			rows = append(rows, cells)
		}
	}

	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Label
	}

	return execute("table", struct {
		Key     string
		Striped bool
		Headers []string
		Rows    [][]string
	}{
		Key:     ctx.Element.Key,
		Striped: ctx.BoolProp("striped"),
		Headers: headers,
		Rows:    rows,
	})
}

func renderChart(ctx Context) (template.HTML, error) {
	type point struct {
		Label, Value string
		Width        template.CSS
		Color        template.CSS
	}

	var max float64
	var raw []map[string]any
	if data, ok := ctx.Prop("data").([]any); ok {
		for _, p := range data {
			if m, ok := p.(map[string]any); ok {
				raw = append(raw, m)
				if v, ok := toNumber(m["value"]); ok && v > max {
					max = v
				}
			}
		}
	}

	points := make([]point, 0, len(raw))
	for _, m := range raw {
		p := point{}
		p.Label, _ = m["label"].(string)
		if v, ok := toNumber(m["value"]); ok {
			p.Value = FormatValue("number", v)
			if max > 0 {
				p.Width = template.CSS(fmt.Sprintf("width:%.1f%%", v/max*100))
			}
		}
		if c, ok := m["color"].(string); ok && isCSSColor(c) {
			p.Color = template.CSS("background-color:" + c)
		}
		points = append(points, p)
	}

	return execute("chart", struct {
		Key, Type, Title string
		Points           []point
	}{
		Key:    ctx.Element.Key,
		Type:   ctx.StringProp("type", "bar"),
		Title:  ctx.StringProp("title", ""),
		Points: points,
	})
}

// isCSSColor accepts only hex colors and plain color names, keeping arbitrary
// CSS out of the style attribute.
func isCSSColor(s string) bool {
	if s == "" || len(s) > 24 {
		return false
	}
	if s[0] == '#' {
		for _, r := range s[1:] {
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return false
			}
		}
		return len(s) == 4 || len(s) == 7 || len(s) == 9
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func renderProgress(ctx Context) (template.HTML, error) {
	value, _ := toNumber(ctx.Prop("value"))
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}

	display := ""
	if ctx.BoolProp("showValue") {
		display = trimZeros(value) + "%"
	}

	return execute("progress", struct {
		Key, Label, Display string
		Width               template.CSS
	}{
		Key:     ctx.Element.Key,
		Label:   ctx.StringProp("label", ""),
		Display: display,
		Width:   template.CSS(fmt.Sprintf("width:%.1f%%", value)),
	})
}

func renderBadge(ctx Context) (template.HTML, error) {
	return execute("badge", struct {
		Key, Text, Variant string
	}{
		Key:     ctx.Element.Key,
		Text:    ctx.StringProp("text", ""),
		Variant: ctx.StringProp("variant", "default"),
	})
}

func renderButton(ctx Context) (template.HTML, error) {
	name := ""
	var params map[string]any
	if action, ok := ctx.Prop("action").(map[string]any); ok {
		name, _ = action["name"].(string)
		params, _ = action["params"].(map[string]any)
	}

	var attr template.HTMLAttr
	if name != "" && ctx.OnAction != nil {
		attr = ctx.OnAction(name, params)
	}

	return execute("button", struct {
		Key, Label, Variant, Size string
		ActionAttr                template.HTMLAttr
	}{
		Key:        ctx.Element.Key,
		Label:      ctx.StringProp("label", ""),
		Variant:    ctx.StringProp("variant", "default"),
		Size:       ctx.StringProp("size", "default"),
		ActionAttr: attr,
	})
}

func renderAlert(ctx Context) (template.HTML, error) {
	return execute("alert", struct {
		Key, Title, Description, Variant string
	}{
		Key:         ctx.Element.Key,
		Title:       ctx.StringProp("title", ""),
		Description: ctx.StringProp("description", ""),
		Variant:     ctx.StringProp("variant", "default"),
	})
}

func renderText(ctx Context) (template.HTML, error) {
	content := ctx.StringProp("content", "")
	variant := ctx.StringProp("variant", "p")

	switch variant {
	case "h1", "h2", "h3":
		return execute("heading", struct {
			Key, Tag, Content string
		}{Key: ctx.Element.Key, Tag: variant, Content: content})
	}

	body, err := markdownHTML(content)
	if err != nil {
		return "", err
	}
	return execute("text", struct {
		Key, Variant string
		Body         template.HTML
	}{Key: ctx.Element.Key, Variant: variant, Body: body})
}

func renderImage(ctx Context) (template.HTML, error) {
	width, _ := toNumber(ctx.Prop("width"))
	height, _ := toNumber(ctx.Prop("height"))
	return execute("image", struct {
		Key, Src, Alt string
		Width, Height int
	}{
		Key:    ctx.Element.Key,
		Src:    ctx.StringProp("src", ""),
		Alt:    ctx.StringProp("alt", ""),
		Width:  int(width),
		Height: int(height),
	})
}

func renderDivider(ctx Context) (template.HTML, error) {
	return execute("divider", struct {
		Key, Orientation string
	}{
		Key:         ctx.Element.Key,
		Orientation: ctx.StringProp("orientation", "horizontal"),
	})
}

func renderList(ctx Context) (template.HTML, error) {
	type item struct {
		Label, Value, Icon string
	}

	var items []item
	if raw, ok := ctx.Prop("items").([]any); ok {
		for _, it := range raw {
			if m, ok := it.(map[string]any); ok {
				entry := item{}
				entry.Label, _ = m["label"].(string)
				entry.Value, _ = m["value"].(string)
				entry.Icon, _ = m["icon"].(string)
				items = append(items, entry)
			}
		}
	}

	return execute("list", struct {
		Key     string
		Ordered bool
		Items   []item
	}{
		Key:     ctx.Element.Key,
		Ordered: ctx.BoolProp("ordered"),
		Items:   items,
	})
}

func renderFilterPanel(ctx Context) (template.HTML, error) {
	type option struct {
		Label, Value string
	}
	type filter struct {
		ID, Label, Type, Placeholder string
		Options                      []option
	}

	var filters []filter
	if raw, ok := ctx.Prop("filters").([]any); ok {
		for _, f := range raw {
			m, ok := f.(map[string]any)
			if !ok {
				continue
			}
			entry := filter{}
			entry.ID, _ = m["id"].(string)
			entry.Label, _ = m["label"].(string)
			entry.Type, _ = m["type"].(string)
			entry.Placeholder, _ = m["placeholder"].(string)
			if opts, ok := m["options"].([]any); ok {
				for _, o := range opts {
					if om, ok := o.(map[string]any); ok {
						opt := option{}
						opt.Label, _ = om["label"].(string)
						opt.Value, _ = om["value"].(string)
						entry.Options = append(entry.Options, opt)
					}
				}
			}
			filters = append(filters, entry)
		}
	}

	return execute("filterpanel", struct {
		Key, Title string
		Filters    []filter
	}{
		Key:     ctx.Element.Key,
		Title:   ctx.StringProp("title", ""),
		Filters: filters,
	})
}

func renderDocumentPreview(ctx Context) (template.HTML, error) {
	type section struct {
		Heading, Type string
		Lines         []string
	}
	type metaEntry struct {
		Name, Value string
	}

	var sections []section
	if raw, ok := ctx.Prop("sections").([]any); ok {
		for _, s := range raw {
			m, ok := s.(map[string]any)
			if !ok {
				continue
			}
			sec := section{}
			sec.Heading, _ = m["heading"].(string)
			sec.Type, _ = m["type"].(string)
			if sec.Type == "" {
				sec.Type = "text"
			}
			if content, ok := m["content"].(string); ok {
				sec.Lines = strings.Split(content, "\n")
			}
			sections = append(sections, sec)
		}
	}

	var meta []metaEntry
	if raw, ok := ctx.Prop("metadata").(map[string]any); ok {
		for name, value := range raw {
			meta = append(meta, metaEntry{Name: name, Value: fmt.Sprintf("%v", value)})
		}
	}

	return execute("document", struct {
		Key, Title, Type, Status string
		Meta                     []metaEntry
		Sections                 []section
	}{
		Key:      ctx.Element.Key,
		Title:    ctx.StringProp("title", ""),
		Type:     ctx.StringProp("type", "custom"),
		Status:   ctx.StringProp("status", ""),
		Meta:     meta,
		Sections: sections,
	})
}

const componentTemplates = `
{{define "card"}}<div class="genui-card" data-key="{{.Key}}">{{if .Title}}<div class="genui-card-header"><h3 class="genui-card-title">{{.Title}}</h3>{{if .Description}}<p class="genui-card-description">{{.Description}}</p>{{end}}</div>{{end}}<div class="genui-card-body">{{range .Children}}{{.}}{{end}}</div></div>{{end}}

{{define "grid"}}<div class="genui-grid genui-grid-cols-{{.Columns}} genui-gap-{{.Gap}}" data-key="{{.Key}}">{{range .Children}}{{.}}{{end}}</div>{{end}}

{{define "stack"}}<div class="genui-stack genui-stack-{{.Direction}} genui-gap-{{.Gap}}" data-key="{{.Key}}">{{range .Children}}{{.}}{{end}}</div>{{end}}

{{define "metric"}}<div class="genui-metric" data-key="{{.Key}}"><span class="genui-metric-label">{{.Label}}</span><span class="genui-metric-value">{{.Value}}</span>{{if .Trend}}<span class="genui-metric-trend genui-trend-{{.Trend}}">{{.TrendValue}}</span>{{end}}</div>{{end}}

{{define "table"}}<table class="genui-table{{if .Striped}} genui-table-striped{{end}}" data-key="{{.Key}}"><thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead><tbody>{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody></table>{{end}}

{{define "chart"}}<div class="genui-chart genui-chart-{{.Type}}" data-key="{{.Key}}">{{if .Title}}<div class="genui-chart-title">{{.Title}}</div>{{end}}{{range .Points}}<div class="genui-chart-row"><span class="genui-chart-label">{{.Label}}</span><span class="genui-chart-bar" style="{{.Width}}{{if .Color}};{{.Color}}{{end}}"></span><span class="genui-chart-value">{{.Value}}</span></div>{{end}}</div>{{end}}

{{define "progress"}}<div class="genui-progress" data-key="{{.Key}}">{{if .Label}}<span class="genui-progress-label">{{.Label}}</span>{{end}}<div class="genui-progress-track"><div class="genui-progress-fill" style="{{.Width}}"></div></div>{{if .Display}}<span class="genui-progress-value">{{.Display}}</span>{{end}}</div>{{end}}

{{define "badge"}}<span class="genui-badge genui-badge-{{.Variant}}" data-key="{{.Key}}">{{.Text}}</span>{{end}}

{{define "button"}}<button type="button" class="genui-button genui-button-{{.Variant}} genui-button-{{.Size}}" data-key="{{.Key}}" {{.ActionAttr}}>{{.Label}}</button>{{end}}

{{define "alert"}}<div class="genui-alert genui-alert-{{.Variant}}" role="alert" data-key="{{.Key}}"><div class="genui-alert-title">{{.Title}}</div>{{if .Description}}<div class="genui-alert-description">{{.Description}}</div>{{end}}</div>{{end}}

{{define "heading"}}{{if eq .Tag "h1"}}<h1 class="genui-text" data-key="{{.Key}}">{{.Content}}</h1>{{else if eq .Tag "h2"}}<h2 class="genui-text" data-key="{{.Key}}">{{.Content}}</h2>{{else}}<h3 class="genui-text" data-key="{{.Key}}">{{.Content}}</h3>{{end}}{{end}}

{{define "text"}}<div class="genui-text genui-text-{{.Variant}}" data-key="{{.Key}}">{{.Body}}</div>{{end}}

{{define "image"}}<img class="genui-image" data-key="{{.Key}}" src="{{.Src}}" alt="{{.Alt}}"{{if .Width}} width="{{.Width}}"{{end}}{{if .Height}} height="{{.Height}}"{{end}}>{{end}}

{{define "divider"}}<hr class="genui-divider genui-divider-{{.Orientation}}" data-key="{{.Key}}">{{end}}

{{define "list"}}{{if .Ordered}}<ol class="genui-list" data-key="{{.Key}}">{{range .Items}}<li>{{if .Icon}}<span class="genui-list-icon">{{.Icon}}</span>{{end}}{{.Label}}{{if .Value}}<span class="genui-list-value">{{.Value}}</span>{{end}}</li>{{end}}</ol>{{else}}<ul class="genui-list" data-key="{{.Key}}">{{range .Items}}<li>{{if .Icon}}<span class="genui-list-icon">{{.Icon}}</span>{{end}}{{.Label}}{{if .Value}}<span class="genui-list-value">{{.Value}}</span>{{end}}</li>{{end}}</ul>{{end}}{{end}}

{{define "filterpanel"}}<form class="genui-filterpanel" data-key="{{.Key}}">{{if .Title}}<div class="genui-filterpanel-title">{{.Title}}</div>{{end}}{{range .Filters}}<label class="genui-filter" data-filter-id="{{.ID}}"><span>{{.Label}}</span>{{if eq .Type "select"}}<select name="{{.ID}}">{{range .Options}}<option value="{{.Value}}">{{.Label}}</option>{{end}}</select>{{else if eq .Type "checkbox"}}<input type="checkbox" name="{{.ID}}">{{else if eq .Type "number"}}<input type="number" name="{{.ID}}" placeholder="{{.Placeholder}}">{{else if eq .Type "date"}}<input type="date" name="{{.ID}}">{{else}}<input type="text" name="{{.ID}}" placeholder="{{.Placeholder}}">{{end}}</label>{{end}}</form>{{end}}

{{define "document"}}<div class="genui-document genui-document-{{.Type}}" data-key="{{.Key}}"><div class="genui-document-header"><h3>{{.Title}}</h3>{{if .Status}}<span class="genui-document-status genui-status-{{.Status}}">{{.Status}}</span>{{end}}</div>{{if .Meta}}<dl class="genui-document-meta">{{range .Meta}}<dt>{{.Name}}</dt><dd>{{.Value}}</dd>{{end}}</dl>{{end}}{{range .Sections}}<section class="genui-document-section genui-section-{{.Type}}">{{if .Heading}}<h4>{{.Heading}}</h4>{{end}}{{if eq .Type "list"}}<ul>{{range .Lines}}<li>{{.}}</li>{{end}}</ul>{{else}}{{range .Lines}}<p>{{.}}</p>{{end}}{{end}}</section>{{end}}</div>{{end}}
`
