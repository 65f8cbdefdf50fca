package analysis

import "github.com/CWBudde/go-sitter-lsp/internal/syntax"

// NodeAtPosition returns the node the cursor at pos refers to.
//
// It probes twice: once at pos and once one character to the left. The left
// probe wins when the forward probe lands on a non-leaf, so a cursor placed
// right after an identifier still targets that identifier.
func NodeAtPosition(tree *syntax.Tree, pos syntax.Point) *syntax.Node {
	if tree == nil || tree.Root == nil {
		return nil
	}

	forward := tree.DescendantForPoint(pos)
	if forward != nil && forward.IsLeaf() {
		return forward
	}

	if pos.Character > 0 {
		back := tree.DescendantForPoint(syntax.Point{Line: pos.Line, Character: pos.Character - 1})
		if back != nil && back.IsLeaf() {
			return back
		}
	}
	return forward
}
