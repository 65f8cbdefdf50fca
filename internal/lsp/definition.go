package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Definition handles the textDocument/definition request. It returns a
// single location, or null.
func Definition(context *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	srv := current("definition")
	if srv == nil {
		return nil, nil
	}

	log.Debugf("definition at %s %d:%d", params.TextDocument.URI, params.Position.Line, params.Position.Character)
	if loc := srv.Definition(params.TextDocument.URI, params.Position); loc != nil {
		return *loc, nil
	}
	return nil, nil
}
