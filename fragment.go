package mdtokens

// Fragment is the unit folded while walking a container: nodes already resolved at this
// level plus assignment tokens still waiting for a neighbor.
type Fragment struct {
	Children []*Node
	// Before holds tokens that attach to the node preceding the fragment.
	Before []string
	// After holds tokens that attach to the node following the fragment.
	After []string
	// SpaceBefore and SpaceAfter request a whitespace separator toward that neighbor.
	SpaceBefore bool
	SpaceAfter  bool
}

func textFragment(value string) Fragment {
	return Fragment{Children: []*Node{NewText(value)}}
}

func nodeFragment(n *Node) Fragment {
	return Fragment{Children: []*Node{n}}
}

func newMarker(id string) *Node {
	return &Node{Type: TypeText, Value: ":" + id + ":", Data: &Data{Token: id}}
}

// target returns the node a neighboring token may bind to. Text never receives tokens,
// the bucket keeps travelling outward instead.
func target(n *Node) *Node {
	if n == nil || n.Shape() == ShapeText {
		return nil
	}
	return n
}

func (f Fragment) first() *Node {
	if len(f.Children) == 0 {
		return nil
	}
	return f.Children[0]
}

func (f Fragment) last() *Node {
	if len(f.Children) == 0 {
		return nil
	}
	return f.Children[len(f.Children)-1]
}

// merge folds b onto the right of a, resolving assignment tokens against whichever node
// became adjacent.
func merge(a, b Fragment) Fragment {
	var out Fragment

	if left := target(a.last()); left != nil {
		left.attach(b.Before)
		out.Before = a.Before
	} else {
		out.Before = concat(a.Before, b.Before)
	}
	if right := target(b.first()); right != nil {
		right.attach(a.After)
		out.After = b.After
	} else {
		out.After = concat(a.After, b.After)
	}

	switch {
	case len(a.Children) == 0 && len(b.Children) == 0:
		out.SpaceBefore = a.SpaceBefore || b.SpaceBefore
		out.SpaceAfter = a.SpaceAfter || b.SpaceAfter
	case len(a.Children) == 0:
		out.Children = b.Children
		out.SpaceBefore = a.SpaceBefore || b.SpaceBefore
		out.SpaceAfter = b.SpaceAfter
	case len(b.Children) == 0:
		out.Children = a.Children
		out.SpaceBefore = a.SpaceBefore
		out.SpaceAfter = a.SpaceAfter || b.SpaceAfter
	default:
		children := make([]*Node, 0, len(a.Children)+len(b.Children)+1)
		children = append(children, a.Children...)
		if a.SpaceAfter || b.SpaceBefore {
			children = append(children, NewText(" "))
		}
		out.Children = append(children, b.Children...)
		out.SpaceBefore = a.SpaceBefore
		out.SpaceAfter = b.SpaceAfter
	}
	return out
}

func concat(a, b []string) []string {
	switch {
	case len(a) == 0:
		return b
	case len(b) == 0:
		return a
	}
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
