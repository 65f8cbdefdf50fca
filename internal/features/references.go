package features

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/workspace"
)

// References returns every resolved reference, across the workspace, to the
// symbol under the cursor. Declaration sites are added when
// includeDeclaration is set.
func References(ws *workspace.Workspace, uri string, pos protocol.Position, includeDeclaration bool) []protocol.Location {
	t := locate(ws, uri, pos)
	if t == nil {
		return nil
	}

	found := occurrences(ws, keyOf(t.decl), includeDeclaration)
	locations := make([]protocol.Location, 0, len(found))
	for _, o := range found {
		locations = append(locations, protocol.Location{URI: o.uri, Range: analysis.Range(o.node)})
	}
	log.Debugf("found %d references to %s", len(locations), t.decl.Name)
	return locations
}
