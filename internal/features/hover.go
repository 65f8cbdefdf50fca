package features

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/workspace"
)

// Hover describes the declaration under the cursor, using the declared kind's
// hover handler when the language registers one.
func Hover(ws *workspace.Workspace, uri string, pos protocol.Position) *protocol.Hover {
	t := locate(ws, uri, pos)
	if t == nil {
		return nil
	}

	lang, ds := languageOf(ws, t.decl, t.entry)
	text := ""
	if rule := lang.Presentation(t.decl.DeclaredBy); rule != nil && rule.Hover != nil {
		text = rule.Hover(t.decl.Parent(), &analysis.HoverContext{Declaration: t.decl, Scope: ds})
	}
	if text == "" {
		text = fmt.Sprintf("**%s** `%s`", t.decl.DeclaredBy, t.decl.Name)
	}

	r := analysis.Range(t.node)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
		Range: &r,
	}
}
