package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Completion handles the textDocument/completion request. The list is always
// complete; every edit recomputes it.
func Completion(context *glsp.Context, params *protocol.CompletionParams) (any, error) {
	srv := current("completion")
	if srv == nil {
		return nil, nil
	}

	items := srv.Completion(params.TextDocument.URI, params.Position)
	if items == nil {
		items = []protocol.CompletionItem{}
	}
	log.Debugf("completion at %s %d:%d: %d items", params.TextDocument.URI, params.Position.Line, params.Position.Character, len(items))

	return &protocol.CompletionList{IsIncomplete: false, Items: items}, nil
}
