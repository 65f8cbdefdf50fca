package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Hover handles the textDocument/hover request.
func Hover(context *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	srv := current("hover")
	if srv == nil {
		return nil, nil
	}

	log.Debugf("hover at %s %d:%d", params.TextDocument.URI, params.Position.Line, params.Position.Character)
	return srv.Hover(params.TextDocument.URI, params.Position), nil
}
