package mdtokens

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPreconditionViolation reports a text node that already carries tokens, which
	// means the tree was processed before.
	ErrPreconditionViolation = errors.New("text node already carries tokens")
	// ErrTooDeep reports nesting beyond the configured maximum depth.
	ErrTooDeep = errors.New("tree nesting exceeds max depth")
	// ErrInvalidTree reports a root that cannot be walked.
	ErrInvalidTree = errors.New("invalid tree")
)

// ParseTokens recognizes token syntax in every text node below root and rewrites the tree
// in place. Neutral tokens (:name:) become marker text nodes, assignment tokens (:^name:
// and :name^:) are removed from the text and appended to the tokens of the neighboring
// node. Tokens without a neighbor end up on the root.
//
// On error the tree may be partially rewritten.
func ParseTokens(root *Node, opts ...Option) (*Node, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", ErrInvalidTree)
	}
	if root.Shape() != ShapeContainer {
		return nil, fmt.Errorf("%w: root %q has no children", ErrInvalidTree, root.Type)
	}
	w := walker{cfg: newParseConfig(opts)}
	f, err := w.fold(root, 1)
	if err != nil {
		return nil, err
	}
	settle(root, f)
	return root, nil
}

type walker struct {
	cfg parseConfig
}

// visit folds a container below the root. A collapsible block left without children is
// dropped and its pending tokens travel on in the returned fragment.
func (w *walker) visit(n *Node, depth int) (Fragment, error) {
	f, err := w.fold(n, depth)
	if err != nil {
		return Fragment{}, err
	}
	if n.Type == w.cfg.collapsible && len(f.Children) == 0 {
		f.SpaceBefore = false
		f.SpaceAfter = false
		return f, nil
	}
	settle(n, f)
	return nodeFragment(n), nil
}

func (w *walker) fold(n *Node, depth int) (Fragment, error) {
	if w.cfg.maxDepth > 0 && depth > w.cfg.maxDepth {
		return Fragment{}, fmt.Errorf("%w: %q at depth %d", ErrTooDeep, n.Type, depth)
	}
	var acc Fragment
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		switch child.Shape() {
		case ShapeContainer:
			f, err := w.visit(child, depth+1)
			if err != nil {
				return Fragment{}, err
			}
			acc = merge(acc, f)
		case ShapeText:
			if child.HasTokens() {
				return Fragment{}, fmt.Errorf("%w: %q", ErrPreconditionViolation, child.Value)
			}
			acc = foldText(acc, child)
		default:
			acc = merge(acc, nodeFragment(child))
		}
	}
	return acc, nil
}

func foldText(acc Fragment, leaf *Node) Fragment {
	if IsTokenMarker(leaf) || strings.IndexByte(leaf.Value, ':') < 0 {
		return merge(acc, nodeFragment(leaf))
	}
	for f := range Scan(leaf.Value) {
		if len(f.Children) == 1 && f.Children[0].Data == nil && f.Children[0].Value == leaf.Value {
			f.Children[0] = leaf
		}
		acc = merge(acc, f)
	}
	return acc
}

// settle installs the folded children and hands the leftover buckets to n itself.
func settle(n *Node, f Fragment) {
	n.Children = f.Children
	if n.Children == nil {
		n.Children = []*Node{}
	}
	n.attach(f.Before)
	n.attach(f.After)
}
