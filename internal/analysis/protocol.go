package analysis

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
)

// Range returns the LSP range of n.
func Range(n *syntax.Node) protocol.Range {
	return protocol.Range{
		Start: Position(n.StartPoint()),
		End:   Position(n.EndPoint()),
	}
}

// Position converts a syntax point to an LSP position.
func Position(p syntax.Point) protocol.Position {
	return protocol.Position{Line: protocol.UInteger(p.Line), Character: protocol.UInteger(p.Character)}
}

// Point converts an LSP position to a syntax point.
func Point(p protocol.Position) syntax.Point {
	return syntax.Point{Line: int(p.Line), Character: int(p.Character)}
}
