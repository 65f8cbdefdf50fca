package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SemanticTokensFull handles textDocument/semanticTokens/full requests.
func SemanticTokensFull(context *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	srv := current("semanticTokens/full")
	if srv == nil {
		return nil, nil
	}

	tokens := srv.SemanticTokensFull(params.TextDocument.URI)
	if tokens != nil {
		log.Debugf("semantic tokens for %s: %d values", params.TextDocument.URI, len(tokens.Data))
	}
	return tokens, nil
}

// SemanticTokensFullDelta handles textDocument/semanticTokens/full/delta
// requests. The result is either a delta or a full token set.
func SemanticTokensFullDelta(context *glsp.Context, params *protocol.SemanticTokensDeltaParams) (any, error) {
	srv := current("semanticTokens/full/delta")
	if srv == nil {
		return nil, nil
	}

	return srv.SemanticTokensDelta(params.TextDocument.URI, params.PreviousResultID), nil
}
