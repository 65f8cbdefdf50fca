package features

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/workspace"
)

// DocumentSymbols lists, flat and in declaration order, every declaration of
// uri whose kind has a symbol rule.
func DocumentSymbols(ws *workspace.Workspace, uri string) []protocol.DocumentSymbol {
	entry := ws.Get(uri)
	if entry == nil {
		return nil
	}
	lang := entry.Document.Language

	symbols := []protocol.DocumentSymbol{}
	for _, d := range entry.Scope.Declarations {
		rule := lang.Presentation(d.DeclaredBy)
		if rule == nil || rule.Symbol == nil {
			continue
		}
		symbol := protocol.DocumentSymbol{
			Name:           symbolLabel(rule.Symbol, d),
			Kind:           rule.Symbol.Kind,
			Range:          analysis.Range(d.Parent()),
			SelectionRange: analysis.Range(d.Node),
		}
		if detail := symbolDetail(rule.Symbol, d); detail != "" {
			symbol.Detail = &detail
		}
		symbols = append(symbols, symbol)
	}
	return symbols
}

// WorkspaceSymbols searches the public declarations of every document by
// case-insensitive substring. maxResults <= 0 means no limit.
func WorkspaceSymbols(ws *workspace.Workspace, query string, maxResults int) []protocol.SymbolInformation {
	symbols := []protocol.SymbolInformation{}
	for _, e := range ws.Index().Search(query, maxResults) {
		d := e.Declaration
		kind := protocol.SymbolKindVariable
		name := d.Name
		var container *string
		if entry := ws.Get(e.URI); entry != nil {
			if rule := entry.Document.Language.Presentation(d.DeclaredBy); rule != nil && rule.Symbol != nil {
				kind = rule.Symbol.Kind
				name = symbolLabel(rule.Symbol, d)
			}
		}
		if d.DeclaredBy != "" {
			c := d.DeclaredBy
			container = &c
		}
		symbols = append(symbols, protocol.SymbolInformation{
			Name:          name,
			Kind:          kind,
			Location:      protocol.Location{URI: e.URI, Range: analysis.Range(d.Node)},
			ContainerName: container,
		})
	}
	return symbols
}

func symbolLabel(rule *analysis.SymbolRule, d *analysis.Declaration) string {
	switch {
	case rule.LabelFunc != nil:
		return rule.LabelFunc(d.Parent(), d)
	case rule.Label != "":
		return rule.Label
	default:
		return d.Name
	}
}

func symbolDetail(rule *analysis.SymbolRule, d *analysis.Declaration) string {
	if rule.DetailFunc != nil {
		return rule.DetailFunc(d.Parent(), d)
	}
	return rule.Detail
}
