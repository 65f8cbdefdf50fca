package treesitter

import "github.com/CWBudde/go-sitter-lsp/internal/syntax"

func allNodes(root *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	syntax.Walk(root, func(n *syntax.Node) bool {
		out = append(out, n)
		return true
	})
	return out
}
