package features

import (
	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/workspace"
)

// SemanticTokens classifies every leaf of uri. The result is sorted and ready
// for analysis.EncodeSemanticTokens.
func SemanticTokens(ws *workspace.Workspace, uri string, legend *analysis.SemanticTokensLegend) []analysis.SemanticToken {
	entry := ws.Get(uri)
	if entry == nil {
		return nil
	}
	return analysis.CollectSemanticTokens(entry.Scope, legend)
}
