package features

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
	"github.com/CWBudde/go-sitter-lsp/internal/workspace"
)

// Completion proposes, in order: declarations visible from the cursor's
// scope, public declarations of the workspace, the language's keywords and
// the items of the nearest complete hook. A hook result with Replace set is
// returned alone. Labels are unique; the first proposal wins.
func Completion(ws *workspace.Workspace, uri string, pos protocol.Position) []protocol.CompletionItem {
	entry := ws.Get(uri)
	if entry == nil {
		return nil
	}
	ds := entry.Scope
	lang := entry.Document.Language
	point := analysis.Point(pos)

	node := analysis.NodeAtPosition(entry.Document.Tree, point)
	scope := ds.Root
	if node != nil {
		scope = ds.ScopeOf(node)
	}

	var public []*analysis.Declaration
	for _, e := range ws.Index().All() {
		public = append(public, e.Declaration)
	}

	var hook *analysis.CompletionResult
	if complete := completeHook(lang, node); complete != nil {
		hook = complete(node, &analysis.CompletionContext{Scope: ds, Position: point, Public: public})
	}
	if hook != nil && hook.Replace {
		return dedupe(hookItems(hook))
	}

	var items []protocol.CompletionItem
	for s := scope; s != nil; s = s.Parent {
		for _, d := range s.AllDeclarations(analysis.Filter{}) {
			items = append(items, declarationItem(lang, d))
		}
		if s.Kind == analysis.ScopeIsolated {
			break
		}
	}
	for _, d := range public {
		items = append(items, declarationItem(languageFor(ws, d, lang), d))
	}
	if lang != nil {
		kind := protocol.CompletionItemKindKeyword
		for _, kw := range lang.Keywords {
			items = append(items, protocol.CompletionItem{Label: kw, Kind: &kind})
		}
	}
	if hook != nil {
		items = append(items, hookItems(hook)...)
	}
	return dedupe(items)
}

// completeHook returns the complete hook of the nearest node, starting at n,
// whose type has one.
func completeHook(lang *analysis.Language, n *syntax.Node) analysis.CompleteFunc {
	if lang == nil {
		return nil
	}
	for cur := n; cur != nil; cur = cur.Parent() {
		if f := lang.Complete[cur.Type]; f != nil {
			return f
		}
	}
	return nil
}

func declarationItem(lang *analysis.Language, d *analysis.Declaration) protocol.CompletionItem {
	kind := protocol.CompletionItemKindVariable
	if rule := lang.Presentation(d.DeclaredBy); rule != nil && rule.CompletionKind != 0 {
		kind = rule.CompletionKind
	}
	detail := d.DeclaredBy
	return protocol.CompletionItem{Label: d.Name, Kind: &kind, Detail: &detail}
}

func languageFor(ws *workspace.Workspace, d *analysis.Declaration, fallback *analysis.Language) *analysis.Language {
	if e := ws.EntryOf(d); e != nil {
		return e.Document.Language
	}
	return fallback
}

func hookItems(result *analysis.CompletionResult) []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(result.Items))
	for _, it := range result.Items {
		item := protocol.CompletionItem{Label: it.Label}
		if it.Kind != 0 {
			kind := it.Kind
			item.Kind = &kind
		}
		if it.Detail != "" {
			detail := it.Detail
			item.Detail = &detail
		}
		items = append(items, item)
	}
	return items
}

func dedupe(items []protocol.CompletionItem) []protocol.CompletionItem {
	seen := make(map[string]bool, len(items))
	out := make([]protocol.CompletionItem, 0, len(items))
	for _, it := range items {
		if seen[it.Label] {
			continue
		}
		seen[it.Label] = true
		out = append(out, it)
	}
	return out
}
