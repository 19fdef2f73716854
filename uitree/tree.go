// Package uitree defines the flat, serializable component-tree format that
// tool results may return instead of raw text. A tree is a map of keyed
// elements plus a root pointer; nesting is reconstructed by following each
// element's children keys from the root.
package uitree

import (
	"encoding/json"
)

// Marker is the discriminator value carried in the "_type" field of every
// serialized tree. Consumers use it to tell a tree apart from generic tool
// output.
const Marker = "ui-tree"

// Element is one node of a tree.
type Element struct {
	// Key uniquely identifies the element within its tree.
	Key string `json:"key"`

	// Type names a component registered in the catalog.
	Type string `json:"type"`

	// Props holds the component's properties, shaped by the catalog schema
	// for Type.
	Props map[string]any `json:"props,omitempty"`

	// Children lists the keys of child elements in render order.
	Children []string `json:"children,omitempty"`
}

// Tree is the top-level transport unit: a root key plus the flat element map.
type Tree struct {
	Root     string             `json:"root"`
	Elements map[string]Element `json:"elements"`
}

// treeWire is the on-the-wire shape including the discriminator.
type treeWire struct {
	Type     string             `json:"_type"`
	Root     string             `json:"root"`
	Elements map[string]Element `json:"elements"`
}

// MarshalJSON writes the tree in its wire format with the "_type" marker.
func (t Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(treeWire{
		Type:     Marker,
		Root:     t.Root,
		Elements: t.Elements,
	})
}

// UnmarshalJSON reads the wire format. It does not validate the marker; use
// Decode at a transport boundary where non-tree payloads are possible.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var w treeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.Root = w.Root
	t.Elements = w.Elements
	return nil
}

// IsTree reports whether raw is recognizable as a serialized tree: a JSON
// object whose "_type" is exactly the Marker and which carries both a "root"
// and an "elements" field. Anything else should be treated as generic output.
func IsTree(raw json.RawMessage) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return false
	}
	var marker string
	if err := json.Unmarshal(probe["_type"], &marker); err != nil {
		return false
	}
	if marker != Marker {
		return false
	}
	if _, ok := probe["root"]; !ok {
		return false
	}
	if _, ok := probe["elements"]; !ok {
		return false
	}
	return true
}

// Decode applies the boundary type guard and, when it passes, unmarshals the
// full tree. The second return is false when raw is not a tree payload.
func Decode(raw json.RawMessage) (*Tree, bool) {
	if !IsTree(raw) {
		return nil, false
	}
	var t Tree
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, false
	}
	return &t, true
}

// Element returns the element stored under key.
func (t *Tree) Element(key string) (Element, bool) {
	el, ok := t.Elements[key]
	return el, ok
}
