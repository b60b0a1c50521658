package mdtokens

// Inspect traverses the tree in depth-first order, calling fn for each node. When fn
// returns false the children of that node are skipped.
func Inspect(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		Inspect(child, fn)
	}
}

// Assignment pairs a node with the tokens attached to it.
type Assignment struct {
	Node   *Node
	Tokens []string
}

// Assignments lists every node carrying attached tokens, in document order.
func Assignments(root *Node) []Assignment {
	var out []Assignment
	Inspect(root, func(n *Node) bool {
		if ids := n.Tokens(); len(ids) > 0 {
			out = append(out, Assignment{Node: n, Tokens: ids})
		}
		return true
	})
	return out
}

// Markers lists every token marker in document order.
func Markers(root *Node) []*Node {
	var out []*Node
	Inspect(root, func(n *Node) bool {
		if IsTokenMarker(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// PlainText concatenates the text values below n, markers included.
func PlainText(n *Node) string {
	var b []byte
	Inspect(n, func(node *Node) bool {
		if node.Shape() == ShapeText {
			b = append(b, node.Value...)
		}
		return true
	})
	return string(b)
}
