package syntax

// Walk calls visit for n and its descendants in pre-order. Returning false from
// visit skips the node's children.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, visit)
	}
}

// DescendantsOfType returns every node under n (n included) whose type is one
// of types, in document order.
func (n *Node) DescendantsOfType(types ...string) []*Node {
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	var out []*Node
	Walk(n, func(d *Node) bool {
		if want[d.Type] {
			out = append(out, d)
		}
		return true
	})
	return out
}

// DescendantForOffset returns the deepest node under n whose byte range
// contains offset (start <= offset < end). If no child contains it, n itself
// is returned.
func (n *Node) DescendantForOffset(offset int) *Node {
	current := n
	for {
		next := (*Node)(nil)
		for _, child := range current.Children {
			if child.StartByte <= offset && offset < child.EndByte {
				next = child
				break
			}
		}
		if next == nil {
			return current
		}
		current = next
	}
}

// DescendantForPoint is DescendantForOffset for an LSP position.
func (t *Tree) DescendantForPoint(p Point) *Node {
	if t == nil || t.Root == nil {
		return nil
	}
	return t.Root.DescendantForOffset(t.lines.OffsetAt(p))
}

// Ancestors returns the chain from n's parent up to the root.
func (n *Node) Ancestors() []*Node {
	var out []*Node
	for p := n.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out
}
