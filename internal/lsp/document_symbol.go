package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DocumentSymbol handles the textDocument/documentSymbol request with a flat
// list of DocumentSymbol.
func DocumentSymbol(context *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	srv := current("documentSymbol")
	if srv == nil {
		return nil, nil
	}

	symbols := srv.DocumentSymbols(params.TextDocument.URI)
	if symbols == nil {
		symbols = []protocol.DocumentSymbol{}
	}
	return symbols, nil
}
