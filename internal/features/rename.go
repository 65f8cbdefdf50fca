package features

import (
	"fmt"
	"slices"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/workspace"
)

// PrepareRename checks that the cursor is on a renameable name and returns
// its range and current text.
func PrepareRename(ws *workspace.Workspace, uri string, pos protocol.Position) (*protocol.Range, string, error) {
	t := locate(ws, uri, pos)
	if t == nil {
		return nil, "", ErrNoSymbol
	}
	if isKeyword(t.entry.Document.Language, t.decl.Name) {
		return nil, "", fmt.Errorf("%w: cannot rename keyword '%s'", ErrInvalidName, t.decl.Name)
	}
	r := analysis.Range(t.node)
	return &r, t.node.Text(), nil
}

// Rename returns one edit per declaration site and per resolved reference of
// the symbol under the cursor, grouped by document URI.
func Rename(ws *workspace.Workspace, uri string, pos protocol.Position, newName string) (map[protocol.DocumentUri][]protocol.TextEdit, error) {
	if newName == "" {
		return nil, fmt.Errorf("%w: new name cannot be empty", ErrInvalidName)
	}
	t := locate(ws, uri, pos)
	if t == nil {
		return nil, ErrNoSymbol
	}
	lang := t.entry.Document.Language
	if isKeyword(lang, t.decl.Name) {
		return nil, fmt.Errorf("%w: cannot rename keyword '%s'", ErrInvalidName, t.decl.Name)
	}
	if isKeyword(lang, newName) {
		return nil, fmt.Errorf("%w: '%s' is a keyword", ErrInvalidName, newName)
	}

	changes := make(map[protocol.DocumentUri][]protocol.TextEdit)
	count := 0
	for _, o := range occurrences(ws, keyOf(t.decl), true) {
		changes[o.uri] = append(changes[o.uri], protocol.TextEdit{
			Range:   analysis.Range(o.node),
			NewText: newName,
		})
		count++
	}
	log.Infof("rename %s -> %s: %d edits in %d documents", t.decl.Name, newName, count, len(changes))
	return changes, nil
}

func isKeyword(lang *analysis.Language, name string) bool {
	return lang != nil && slices.Contains(lang.Keywords, name)
}
