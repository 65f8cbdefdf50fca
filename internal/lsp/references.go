package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// References handles the textDocument/references request.
func References(context *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	srv := current("references")
	if srv == nil {
		return nil, nil
	}

	uri := params.TextDocument.URI
	locations := srv.References(uri, params.Position, params.Context.IncludeDeclaration)
	log.Debugf("references at %s %d:%d: %d found", uri, params.Position.Line, params.Position.Character, len(locations))
	if locations == nil {
		return []protocol.Location{}, nil
	}
	return locations, nil
}
