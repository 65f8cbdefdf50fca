package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// WorkspaceSymbol handles the workspace/symbol request over the public
// declarations of every known document.
func WorkspaceSymbol(context *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	srv := current("workspaceSymbol")
	if srv == nil {
		return nil, nil
	}

	symbols := srv.WorkspaceSymbols(params.Query)
	log.Debugf("workspace symbol %q: %d found", params.Query, len(symbols))
	if symbols == nil {
		return []protocol.SymbolInformation{}, nil
	}
	return symbols, nil
}
