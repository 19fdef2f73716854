package uitree

// Build assembles a tree from a root element and the pool of auxiliary
// elements its children reference. Only elements reachable from the root end
// up in the tree; an unreachable supplied element is simply dropped. A child
// key with no matching supplied element fails the build so a producer bug
// never ships a partial tree.
func Build(root Element, elements ...Element) (*Tree, error) {
	if root.Key == "" {
		return nil, ErrEmptyKey
	}

	pool := make(map[string]Element, len(elements)+1)
	pool[root.Key] = root
	for _, el := range elements {
		if el.Key == "" {
			return nil, ErrEmptyKey
		}
		if _, exists := pool[el.Key]; exists {
			return nil, &duplicateKeyError{key: el.Key}
		}
		pool[el.Key] = el
	}

	tree := &Tree{
		Root:     root.Key,
		Elements: make(map[string]Element),
	}

	if err := collect(root.Key, pool, tree.Elements, nil); err != nil {
		return nil, err
	}
	return tree, nil
}

// collect walks the children lists depth-first, moving reachable elements
// from the pool into out. path holds the keys on the active descent so a
// back-reference is caught instead of recursing forever.
func collect(key string, pool map[string]Element, out map[string]Element, path []string) error {
	for _, onPath := range path {
		if onPath == key {
			return &CycleError{Path: append(append([]string{}, path...), key)}
		}
	}

	el, ok := pool[key]
	if !ok {
		parent := ""
		if len(path) > 0 {
			parent = path[len(path)-1]
		}
		return &MissingElementError{Parent: parent, Key: key}
	}

	out[key] = el

	path = append(path, key)
	for _, child := range el.Children {
		if err := collect(child, pool, out, path); err != nil {
			return err
		}
	}
	return nil
}

// Builder assembles a tree incrementally. The first element added becomes the
// root unless SetRoot overrides it.
type Builder struct {
	root     string
	elements []Element
}

// NewBuilder creates an empty tree builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends an element. The first added element becomes the root.
func (b *Builder) Add(el Element) *Builder {
	if b.root == "" {
		b.root = el.Key
	}
	b.elements = append(b.elements, el)
	return b
}

// SetRoot overrides which element key is the tree's entry point.
func (b *Builder) SetRoot(key string) *Builder {
	b.root = key
	return b
}

// Build produces the final tree, applying the same reachability and
// missing-element checks as the package-level Build.
func (b *Builder) Build() (*Tree, error) {
	if b.root == "" {
		return nil, ErrNoRoot
	}

	var root Element
	rest := make([]Element, 0, len(b.elements))
	found := false
	for _, el := range b.elements {
		if el.Key == b.root && !found {
			root = el
			found = true
			continue
		}
		rest = append(rest, el)
	}
	if !found {
		return nil, &MissingElementError{Key: b.root}
	}
	return Build(root, rest...)
}

type duplicateKeyError struct {
	key string
}

func (e *duplicateKeyError) Error() string {
	return "duplicate element key: " + e.key
}

func (e *duplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}
