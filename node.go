package mdtokens

// Node types this package gives meaning to. Any other type is carried through untouched.
const (
	TypeRoot      = "root"
	TypeParagraph = "paragraph"
	TypeText      = "text"
)

// Node is an mdast-shaped tree node.
//
// A node is a container when Children is non-nil, a text leaf when Type is "text",
// and an opaque leaf otherwise. Opaque leaves keep their payload (including any literal
// value such as the body of a code block) in Props.
type Node struct {
	Type     string
	Value    string
	Children []*Node
	Data     *Data
	Props    map[string]any
}

// Data is the metadata map attached to a node.
type Data struct {
	// Tokens lists identifiers attached to the node. nil means absent.
	Tokens []string
	// Token marks a text leaf as a materialized token. Empty means absent.
	Token string
	// Extra preserves data fields this package does not own.
	Extra map[string]any
}

type shape uint8

// Shape is the exported alias of shape.
type Shape = shape

const (
	shapeOpaque shape = iota
	shapeText
	shapeContainer
)

const (
	// ShapeOpaque is any leaf that is not text.
	ShapeOpaque Shape = shapeOpaque
	// ShapeText is a text leaf.
	ShapeText Shape = shapeText
	// ShapeContainer is a node with an ordered child list.
	ShapeContainer Shape = shapeContainer
)

func (s shape) String() string {
	switch s {
	case shapeText:
		return "text"
	case shapeContainer:
		return "container"
	default:
		return "opaque"
	}
}

// Shape reports which variant n is.
func (n *Node) Shape() Shape {
	switch {
	case n.Children != nil:
		return ShapeContainer
	case n.Type == TypeText:
		return ShapeText
	default:
		return ShapeOpaque
	}
}

// NewContainer returns a container node. The child list is never nil.
func NewContainer(typ string, children ...*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Type: typ, Children: children}
}

// NewText returns a text leaf.
func NewText(value string) *Node {
	return &Node{Type: TypeText, Value: value}
}

// NewLeaf returns an opaque leaf carrying props.
func NewLeaf(typ string, props map[string]any) *Node {
	return &Node{Type: typ, Props: props}
}

// Tokens returns the identifiers attached to n, or nil.
func (n *Node) Tokens() []string {
	if n == nil || n.Data == nil {
		return nil
	}
	return n.Data.Tokens
}

// HasTokens reports whether n carries a tokens entry, even an empty one.
func (n *Node) HasTokens() bool {
	return n != nil && n.Data != nil && n.Data.Tokens != nil
}

// attach appends ids to the node's tokens. An empty ids leaves the node untouched.
func (n *Node) attach(ids []string) {
	if len(ids) == 0 {
		return
	}
	if n.Data == nil {
		n.Data = &Data{}
	}
	n.Data.Tokens = append(n.Data.Tokens, ids...)
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Type: n.Type, Value: n.Value}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	if n.Data != nil {
		out.Data = &Data{Token: n.Data.Token}
		if n.Data.Tokens != nil {
			out.Data.Tokens = append([]string{}, n.Data.Tokens...)
		}
		out.Data.Extra = cloneProps(n.Data.Extra)
	}
	out.Props = cloneProps(n.Props)
	return out
}

func cloneProps(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneProps(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
