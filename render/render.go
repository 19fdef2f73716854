package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/renderloop/genui/uitree"
)

// Renderer walks trees and dispatches elements through a registry. It holds
// no state across renders; every call is an independent synchronous walk.
type Renderer struct {
	registry *Registry
	fallback Func
	onAction ActionEncoder
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithFallback overrides the placeholder renderer used for unknown types and
// unresolvable keys.
func WithFallback(fn Func) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.fallback = fn
		}
	}
}

// WithActionEncoder overrides how action payloads are encoded into markup.
func WithActionEncoder(enc ActionEncoder) Option {
	return func(r *Renderer) {
		if enc != nil {
			r.onAction = enc
		}
	}
}

// New creates a renderer over the given registry.
func New(registry *Registry, opts ...Option) *Renderer {
	r := &Renderer{
		registry: registry,
		fallback: Placeholder,
		onAction: DataActionAttr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render walks the tree from its root. A root key absent from the elements
// map renders the fallback exactly once and nothing else. A missing renderer
// or dangling child key renders a placeholder in place of that node only;
// siblings and ancestors are unaffected. A cycle on the active path is an
// error since no sensible output exists for it.
func (r *Renderer) Render(tree *uitree.Tree) (template.HTML, error) {
	if tree == nil {
		return "", fmt.Errorf("render: tree is nil")
	}

	if _, ok := tree.Elements[tree.Root]; !ok {
		return r.fallback(Context{
			Element:  uitree.Element{Key: tree.Root},
			OnAction: r.onAction,
		})
	}

	return r.walk(tree, tree.Root, nil)
}

func (r *Renderer) walk(tree *uitree.Tree, key string, path []string) (template.HTML, error) {
	for _, onPath := range path {
		if onPath == key {
			return "", &uitree.CycleError{Path: append(append([]string{}, path...), key)}
		}
	}

	el, ok := tree.Elements[key]
	if !ok {
		// Dangling reference: placeholder for this node, siblings continue.
		return r.fallback(Context{
			Element:  uitree.Element{Key: key},
			OnAction: r.onAction,
		})
	}

	path = append(path, key)
	children := make([]template.HTML, 0, len(el.Children))
	for _, childKey := range el.Children {
		frag, err := r.walk(tree, childKey, path)
		if err != nil {
			return "", err
		}
		children = append(children, frag)
	}

	ctx := Context{Element: el, Children: children, OnAction: r.onAction}

	fn, ok := r.registry.Get(el.Type)
	if !ok {
		return r.fallback(ctx)
	}
	return fn(ctx)
}

// Placeholder is the default fallback: a marked block naming the unresolved
// type so the miss is visible without crashing the page.
func Placeholder(ctx Context) (template.HTML, error) {
	label := ctx.Element.Type
	if label == "" {
		label = ctx.Element.Key
	}

	var b strings.Builder
	b.WriteString(`<div class="genui-unknown" data-key="`)
	template.HTMLEscape(&b, []byte(ctx.Element.Key))
	b.WriteString(`">unknown component: `)
	template.HTMLEscape(&b, []byte(label))
	b.WriteString(`</div>`)
	return template.HTML(b.String()), nil
}

// DataActionAttr is the default action encoder: the payload is serialized as
// JSON into a data-action attribute for the host page to pick up on click.
func DataActionAttr(name string, params map[string]any) template.HTMLAttr {
	payload := map[string]any{"name": name}
	if len(params) > 0 {
		payload["params"] = params
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(`data-action="`)
	template.HTMLEscape(&b, data)
	b.WriteString(`"`)
	return template.HTMLAttr(b.String())
}
