package features

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/workspace"
)

// Definition returns the location of the declaration the cursor denotes. On
// a declaration site that is the declaration itself.
func Definition(ws *workspace.Workspace, uri string, pos protocol.Position) *protocol.Location {
	t := locate(ws, uri, pos)
	if t == nil {
		return nil
	}
	return &protocol.Location{
		URI:   ws.URIOf(t.decl, uri),
		Range: analysis.Range(t.decl.Node),
	}
}
