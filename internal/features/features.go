// Package features implements the LSP providers as pure functions over a
// resolved workspace. None of them mutate the workspace.
package features

import (
	"errors"
	"sort"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/CWBudde/go-sitter-lsp/internal/analysis"
	"github.com/CWBudde/go-sitter-lsp/internal/syntax"
	"github.com/CWBudde/go-sitter-lsp/internal/workspace"
)

var log = commonlog.GetLogger("sitter-lsp.features")

var (
	// ErrNoSymbol is returned by rename requests outside a resolvable name.
	ErrNoSymbol = errors.New("no symbol found at cursor position")
	// ErrInvalidName is returned when a rename target name cannot be used.
	ErrInvalidName = errors.New("invalid name")
)

// target is what the cursor points at.
type target struct {
	entry *workspace.Entry
	node  *syntax.Node
	// decl is the declaration the cursor denotes: the declaration itself at a
	// declaration site, the resolved declaration at a reference.
	decl *analysis.Declaration
	ref  *analysis.Reference
}

// locate resolves the cursor to a target. It returns nil when the document is
// unknown or the cursor is not on a declaration or resolved reference.
func locate(ws *workspace.Workspace, uri string, pos protocol.Position) *target {
	entry := ws.Get(uri)
	if entry == nil {
		log.Debugf("document not in workspace: %s", uri)
		return nil
	}
	node := analysis.NodeAtPosition(entry.Document.Tree, analysis.Point(pos))
	if node == nil {
		return nil
	}

	t := &target{entry: entry, node: node}
	if d := entry.Scope.DeclarationAt(node); d != nil {
		t.decl = d
		return t
	}
	if r := entry.Scope.ReferenceAt(node); r != nil && r.Resolved != nil {
		t.ref = r
		t.decl = r.Resolved
		return t
	}
	return nil
}

// symbolKey identifies a symbol across documents. Matching is by name and
// declared kind, not by declaration identity.
type symbolKey struct {
	name       string
	declaredBy string
}

func keyOf(d *analysis.Declaration) symbolKey {
	return symbolKey{name: d.Name, declaredBy: d.DeclaredBy}
}

// occurrence is a name node matching a symbol key.
type occurrence struct {
	uri  string
	node *syntax.Node
}

// occurrences collects every declaration site (when includeDeclaration is
// set) and resolved reference matching key, across the workspace, in
// document order within each document.
func occurrences(ws *workspace.Workspace, key symbolKey, includeDeclaration bool) []occurrence {
	var out []occurrence
	for _, e := range ws.Entries() {
		var nodes []*syntax.Node
		if includeDeclaration {
			for _, d := range e.Scope.Declarations {
				if keyOf(d) == key {
					nodes = append(nodes, d.Node)
				}
			}
		}
		for _, r := range e.Scope.References {
			if r.Resolved != nil && keyOf(r.Resolved) == key {
				nodes = append(nodes, r.Node)
			}
		}
		sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].StartByte < nodes[j].StartByte })
		for _, n := range nodes {
			out = append(out, occurrence{uri: e.Document.URI, node: n})
		}
	}
	return out
}

// languageOf returns the language of the document declaring decl, falling
// back to the language of entry.
func languageOf(ws *workspace.Workspace, decl *analysis.Declaration, entry *workspace.Entry) (*analysis.Language, *analysis.DocumentScope) {
	if owner := ws.EntryOf(decl); owner != nil {
		return owner.Document.Language, owner.Scope
	}
	return entry.Document.Language, entry.Scope
}
